package usecase

import (
	"math"
	"sort"

	"github.com/user/roadwatch/internal/adapter/timestamp"
	"github.com/user/roadwatch/internal/domain"
)

// Aggregate derives the summary statistics and chart datasets of a filtered
// record set. Records with undecodable timestamps count toward the total but
// are skipped for date grouping; labels outside the vocabulary count toward
// the total but never toward a category.
func Aggregate(filtered []domain.ImageRecord, vocab *domain.Vocabulary) (domain.StatsSnapshot, domain.ChartData) {
	stats := domain.StatsSnapshot{
		CategoryCounts: make(map[domain.Prediction]int, len(vocab.Labels())),
		MostActiveDay:  domain.DayCount{Date: "-"},
	}
	for _, label := range vocab.Labels() {
		stats.CategoryCounts[label] = 0
	}

	charts := domain.ChartData{
		ImagesByDate:  []domain.ChartPoint{},
		DailyAnalysis: []domain.DailyBreakdown{},
		Predictions:   []domain.CategoryCount{},
	}

	// Group by ISO date, remembering the order in which distinct dates are
	// first seen: the most-active-day tie-break depends on it.
	dateCounts := make(map[string]int)
	var dateOrder []string
	breakdowns := make(map[string]map[domain.Prediction]int)

	for _, rec := range filtered {
		stats.TotalImages++

		if rec.HasLocation() {
			stats.ImagesWithLocation++
		} else {
			stats.ImagesWithoutLocation++
		}

		label, known := vocab.Canonical(rec.PredictionLabel())
		if known {
			stats.CategoryCounts[label]++
		}

		iso := timestamp.RecordISODate(rec.Filename)
		if iso == "" {
			continue
		}
		if _, seen := dateCounts[iso]; !seen {
			dateOrder = append(dateOrder, iso)
		}
		dateCounts[iso]++

		// A per-day breakdown entry exists once any labeled record lands on
		// that date, zero-filled over the vocabulary.
		if rec.PredictionLabel() != "" {
			day, ok := breakdowns[iso]
			if !ok {
				day = make(map[domain.Prediction]int, len(vocab.Labels()))
				for _, l := range vocab.Labels() {
					day[l] = 0
				}
				breakdowns[iso] = day
			}
			if known {
				day[label]++
			}
		}
	}

	for _, date := range dateOrder {
		if count := dateCounts[date]; count > stats.MostActiveDay.Count {
			stats.MostActiveDay = domain.DayCount{Date: date, Count: count}
		}
	}

	if days := len(dateCounts); days > 0 {
		stats.AverageImagesPerDay = math.Round(float64(stats.TotalImages)/float64(days)*10) / 10
	}

	for date, count := range dateCounts {
		charts.ImagesByDate = append(charts.ImagesByDate, domain.ChartPoint{Date: date, Count: count})
	}
	sort.Slice(charts.ImagesByDate, func(i, j int) bool {
		return charts.ImagesByDate[i].Date < charts.ImagesByDate[j].Date
	})

	for date, counts := range breakdowns {
		charts.DailyAnalysis = append(charts.DailyAnalysis, domain.DailyBreakdown{Date: date, Counts: counts})
	}
	sort.Slice(charts.DailyAnalysis, func(i, j int) bool {
		return charts.DailyAnalysis[i].Date < charts.DailyAnalysis[j].Date
	})

	for _, label := range vocab.Labels() {
		if v := stats.CategoryCounts[label]; v > 0 {
			charts.Predictions = append(charts.Predictions, domain.CategoryCount{Name: string(label), Value: v})
		}
	}

	charts.Location = []domain.CategoryCount{
		{Name: "Has GPS", Value: stats.ImagesWithLocation},
		{Name: "No GPS", Value: stats.ImagesWithoutLocation},
	}

	return stats, charts
}

package usecase

import (
	"testing"

	"github.com/user/roadwatch/internal/domain"
)

func TestAggregate(t *testing.T) {
	vocab := domain.DefaultVocabulary()
	rain := &domain.ImageMetadata{Prediction: "Rain"}
	asphalt := &domain.ImageMetadata{Prediction: "Asphalt bad", Location: "(10.5, 20.5)"}

	t.Run("Most Active Day And Average", func(t *testing.T) {
		records := []domain.ImageRecord{
			dayRecord(t, 2025, 5, 7, 9, rain),
			dayRecord(t, 2025, 5, 7, 15, asphalt),
			dayRecord(t, 2025, 5, 8, 9, rain),
		}
		stats, _ := Aggregate(records, vocab)

		if stats.MostActiveDay.Date != "2025-05-07" || stats.MostActiveDay.Count != 2 {
			t.Errorf("mostActiveDay: got %+v", stats.MostActiveDay)
		}
		if stats.AverageImagesPerDay != 1.5 {
			t.Errorf("averageImagesPerDay: got %v, want 1.5", stats.AverageImagesPerDay)
		}
	})

	t.Run("Tie Breaks By First-Seen Order", func(t *testing.T) {
		records := []domain.ImageRecord{
			dayRecord(t, 2025, 5, 9, 9, nil),
			dayRecord(t, 2025, 5, 7, 9, nil),
			dayRecord(t, 2025, 5, 9, 15, nil),
			dayRecord(t, 2025, 5, 7, 15, nil),
		}
		stats, _ := Aggregate(records, vocab)
		// 05-09 and 05-07 both count 2; 05-09 was seen first.
		if stats.MostActiveDay.Date != "2025-05-09" {
			t.Errorf("tie-break: got %+v", stats.MostActiveDay)
		}
	})

	t.Run("Unrecognized Labels Count Toward Total Only", func(t *testing.T) {
		records := []domain.ImageRecord{
			dayRecord(t, 2025, 5, 7, 9, &domain.ImageMetadata{Prediction: "Pothole"}),
			dayRecord(t, 2025, 5, 7, 10, rain),
		}
		stats, _ := Aggregate(records, vocab)

		if stats.TotalImages != 2 {
			t.Fatalf("total: got %d", stats.TotalImages)
		}
		sum := 0
		for _, v := range stats.CategoryCounts {
			sum += v
		}
		if sum != 1 {
			t.Errorf("category counts sum: got %d, want 1", sum)
		}
		if sum > stats.TotalImages {
			t.Errorf("category sum %d exceeds total %d", sum, stats.TotalImages)
		}
	})

	t.Run("Undecodable Timestamps Skip Grouping", func(t *testing.T) {
		records := []domain.ImageRecord{
			{Filename: "broken.jpg", Metadata: rain},
			dayRecord(t, 2025, 5, 7, 9, rain),
		}
		stats, charts := Aggregate(records, vocab)

		if stats.TotalImages != 2 {
			t.Errorf("total: got %d", stats.TotalImages)
		}
		if len(charts.ImagesByDate) != 1 {
			t.Errorf("imagesByDate: got %v", charts.ImagesByDate)
		}
		if stats.AverageImagesPerDay != 2.0 {
			t.Errorf("average over one grouped day: got %v", stats.AverageImagesPerDay)
		}
	})

	t.Run("Location Split", func(t *testing.T) {
		records := []domain.ImageRecord{
			dayRecord(t, 2025, 5, 7, 9, asphalt),
			dayRecord(t, 2025, 5, 7, 10, rain),
			dayRecord(t, 2025, 5, 7, 11, nil),
		}
		stats, charts := Aggregate(records, vocab)

		if stats.ImagesWithLocation != 1 || stats.ImagesWithoutLocation != 2 {
			t.Errorf("location split: %d/%d", stats.ImagesWithLocation, stats.ImagesWithoutLocation)
		}
		if charts.Location[0].Value != 1 || charts.Location[1].Value != 2 {
			t.Errorf("location dataset: %v", charts.Location)
		}
	})

	t.Run("Time Series Sorted Ascending", func(t *testing.T) {
		records := []domain.ImageRecord{
			dayRecord(t, 2025, 5, 9, 9, nil),
			dayRecord(t, 2025, 5, 7, 9, nil),
			dayRecord(t, 2025, 5, 8, 9, nil),
		}
		_, charts := Aggregate(records, vocab)
		for i := 1; i < len(charts.ImagesByDate); i++ {
			if charts.ImagesByDate[i-1].Date >= charts.ImagesByDate[i].Date {
				t.Fatalf("time series not ascending: %v", charts.ImagesByDate)
			}
		}
	})

	t.Run("Daily Breakdown Zero-Filled", func(t *testing.T) {
		records := []domain.ImageRecord{
			dayRecord(t, 2025, 5, 7, 9, rain),
			dayRecord(t, 2025, 5, 8, 9, nil), // unlabeled, no breakdown entry
		}
		_, charts := Aggregate(records, vocab)

		if len(charts.DailyAnalysis) != 1 {
			t.Fatalf("dailyAnalysis: got %v", charts.DailyAnalysis)
		}
		day := charts.DailyAnalysis[0]
		if day.Counts[domain.PredictionRain] != 1 {
			t.Errorf("rain count: got %d", day.Counts[domain.PredictionRain])
		}
		for _, label := range vocab.Labels() {
			if _, ok := day.Counts[label]; !ok {
				t.Errorf("label %q missing from breakdown", label)
			}
		}
	})

	t.Run("Empty Set", func(t *testing.T) {
		stats, charts := Aggregate(nil, vocab)
		if stats.TotalImages != 0 || stats.AverageImagesPerDay != 0 {
			t.Errorf("stats: %+v", stats)
		}
		if stats.MostActiveDay.Date != "-" {
			t.Errorf("mostActiveDay default: %+v", stats.MostActiveDay)
		}
		if len(charts.ImagesByDate) != 0 || len(charts.Predictions) != 0 {
			t.Errorf("charts: %+v", charts)
		}
	})
}

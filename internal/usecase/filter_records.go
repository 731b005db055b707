package usecase

import (
	"sort"
	"strings"

	"github.com/user/roadwatch/internal/adapter/timestamp"
	"github.com/user/roadwatch/internal/domain"
)

// FilterRecords applies the active criteria to a raw record set and returns
// the matching records in their original order. Active filters combine with
// AND. The date-range filter is fail-open for records whose timestamp cannot
// be decoded; the prediction filter excludes records without a label.
func FilterRecords(records []domain.ImageRecord, c domain.FilterCriteria) []domain.ImageRecord {
	search := strings.ToLower(c.Search)

	filtered := make([]domain.ImageRecord, 0, len(records))
	for _, rec := range records {
		if !c.DateRange.Contains(timestamp.RecordISODate(rec.Filename)) {
			continue
		}
		if c.Prediction != "" {
			label := rec.PredictionLabel()
			if label == "" || !strings.EqualFold(label, c.Prediction) {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.Filename), search) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// SortNewestFirst returns a copy of the records ordered by decoded capture
// time descending. Records with undecodable timestamps sort after all
// decodable ones; ties break by filename ascending.
func SortNewestFirst(records []domain.ImageRecord) []domain.ImageRecord {
	type keyed struct {
		rec  domain.ImageRecord
		unix int64
		ok   bool
	}

	keys := make([]keyed, len(records))
	for i, rec := range records {
		d, err := timestamp.Decode(rec.Filename)
		keys[i] = keyed{rec: rec, unix: d.Time.UnixNano(), ok: err == nil}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ok != b.ok {
			return a.ok
		}
		if a.ok && a.unix != b.unix {
			return a.unix > b.unix
		}
		return a.rec.Filename < b.rec.Filename
	})

	sorted := make([]domain.ImageRecord, len(keys))
	for i, k := range keys {
		sorted[i] = k.rec
	}
	return sorted
}

// InitialDateRange computes the default filter range of a raw set: the
// earliest and latest decodable ISO dates. Sets with no decodable timestamps
// get an unbounded range.
func InitialDateRange(records []domain.ImageRecord) domain.DateRange {
	var dates []string
	for _, rec := range records {
		if iso := timestamp.RecordISODate(rec.Filename); iso != "" {
			dates = append(dates, iso)
		}
	}
	if len(dates) == 0 {
		return domain.DateRange{}
	}
	sort.Strings(dates)
	return domain.DateRange{Start: dates[0], End: dates[len(dates)-1]}
}

package domain

// DateRange bounds a filter at day granularity. Both bounds are ISO dates
// (YYYY-MM-DD) or empty; an empty bound disables the range. Keeping
// Start <= End is the caller's responsibility, an inverted range simply
// matches nothing.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsBounded reports whether both ends of the range are set.
func (r DateRange) IsBounded() bool {
	return r.Start != "" && r.End != ""
}

// Contains reports whether an ISO date falls inside the range, inclusive.
// An unbounded range matches everything. An empty date (undecodable
// timestamp) also matches: the range filter is deliberately fail-open so a
// record with a bad filename is never silently dropped from a bounded query.
func (r DateRange) Contains(isoDate string) bool {
	if !r.IsBounded() || isoDate == "" {
		return true
	}
	return isoDate >= r.Start && isoDate <= r.End
}

// FilterCriteria is the full set of gallery/dashboard filters. Zero values
// disable the corresponding filter; active filters combine with AND.
type FilterCriteria struct {
	DateRange  DateRange `json:"dateRange"`
	Prediction string    `json:"prediction,omitempty"`
	Search     string    `json:"search,omitempty"`
}

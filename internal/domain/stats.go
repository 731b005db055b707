package domain

// DayCount is a single grouped-by-date counter.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatsSnapshot holds the derived aggregate metrics of a filtered record set.
// It is recomputed from scratch on every input change, never mutated.
type StatsSnapshot struct {
	TotalImages           int                `json:"totalImages"`
	CategoryCounts        map[Prediction]int `json:"categoryCounts"`
	ImagesWithLocation    int                `json:"imagesWithLocation"`
	ImagesWithoutLocation int                `json:"imagesWithoutLocation"`
	AverageImagesPerDay   float64            `json:"averageImagesPerDay"`
	MostActiveDay         DayCount           `json:"mostActiveDay"`
}

// ChartPoint is one point of a date-keyed time series.
type ChartPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DailyBreakdown is one date's per-category counters, zero-filled over the
// vocabulary, for stacked/grouped bar charts.
type DailyBreakdown struct {
	Date   string             `json:"date"`
	Counts map[Prediction]int `json:"counts"`
}

// CategoryCount is one named slice of a categorical chart.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ChartData bundles the chart-ready datasets derived from a filtered set.
type ChartData struct {
	ImagesByDate  []ChartPoint     `json:"imagesByDate"`
	DailyAnalysis []DailyBreakdown `json:"dailyAnalysis"`
	Predictions   []CategoryCount  `json:"predictions"`
	Location      []CategoryCount  `json:"location"`
}

// DefaultPageSize is the gallery page size used when none is configured.
const DefaultPageSize = 8

// PageState describes where a paginated view sits.
type PageState struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

package domain

import "time"

// Report is one ranked top-N summary table, the unit handed to the report
// sinks. Rows are pre-sorted descending by Total; the rendering collaborator
// consumes them as-is.
type Report struct {
	// Analysis is a stable machine name, e.g. "fatalities_by_event_type".
	Analysis string `json:"analysis"`
	// Title is the human-readable chart title.
	Title       string         `json:"title"`
	Metric      Metric         `json:"metric"`
	Rows        []AggregateRow `json:"rows"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// NewReport stamps a ranked row set with the current time. The rows are
// stored as given; callers rank and truncate before constructing the report.
func NewReport(analysis, title string, metric Metric, rows []AggregateRow) Report {
	return Report{
		Analysis:    analysis,
		Title:       title,
		Metric:      metric,
		Rows:        rows,
		GeneratedAt: clock.Now().UTC(),
	}
}

// Package analysis implements the pure aggregation and ranking steps of the
// harm report: group records by event type, sum a metric per group, sort
// descending, take the top N.
package analysis

import (
	"github.com/couchcryptid/storm-harm-report/internal/domain"
)

// Aggregate sums the given metric over all records sharing an event type,
// producing one row per distinct type in first-encounter order. Labels are
// grouped exactly as spelled; near-duplicate spellings remain separate
// groups. An empty input yields an empty (non-nil) result.
func Aggregate(records []domain.EventRecord, metric domain.Metric) []domain.AggregateRow {
	index := make(map[string]int, 64) // event type -> position in rows
	rows := make([]domain.AggregateRow, 0, 64)

	for _, rec := range records {
		i, seen := index[rec.EventType]
		if !seen {
			i = len(rows)
			index[rec.EventType] = i
			rows = append(rows, domain.AggregateRow{EventType: rec.EventType})
		}
		rows[i].Total += metric.ValueFrom(rec)
	}

	return rows
}

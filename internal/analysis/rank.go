package analysis

import (
	"sort"

	"github.com/couchcryptid/storm-harm-report/internal/domain"
)

// Rank returns the rows sorted descending by total. The sort is stable, so
// ties keep the order the groups were first encountered in — the source data
// offers no secondary tie-break criterion. The input slice is not modified.
func Rank(rows []domain.AggregateRow) []domain.AggregateRow {
	ranked := make([]domain.AggregateRow, len(rows))
	copy(ranked, rows)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})

	return ranked
}

// Top returns the first n rows of a ranked sequence. If n exceeds the row
// count, all rows are returned; n <= 0 returns an empty slice.
func Top(rows []domain.AggregateRow, n int) []domain.AggregateRow {
	if n <= 0 {
		return []domain.AggregateRow{}
	}
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n]
}

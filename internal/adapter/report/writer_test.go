package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-harm-report/internal/domain"
)

func sampleReport() domain.Report {
	return domain.Report{
		Analysis: "damage_by_event_type",
		Title:    "Total economic damage by event type",
		Metric:   domain.MetricTotalDamage,
		Rows: []domain.AggregateRow{
			{EventType: "FLOOD", Total: 3_000_000},
			{EventType: "TSTM WIND", Total: 10_000.5},
		},
		GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestFileWriter_WriteReport(t *testing.T) {
	dir := t.TempDir()
	w, err := NewFileWriter(dir, slog.Default())
	require.NoError(t, err)

	require.NoError(t, w.WriteReport(context.Background(), sampleReport()))

	t.Run("CSV has header and ordered rows", func(t *testing.T) {
		f, err := os.Open(filepath.Join(dir, "damage_by_event_type.csv"))
		require.NoError(t, err)
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"event_type", "total_damage"}, rows[0])
		assert.Equal(t, []string{"FLOOD", "3000000"}, rows[1])
		assert.Equal(t, []string{"TSTM WIND", "10000.5"}, rows[2])
	})

	t.Run("JSON round-trips the report", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(dir, "damage_by_event_type.json"))
		require.NoError(t, err)

		var got domain.Report
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, sampleReport(), got)
	})
}

func TestFileWriter_EmptyReport(t *testing.T) {
	dir := t.TempDir()
	w, err := NewFileWriter(dir, slog.Default())
	require.NoError(t, err)

	empty := domain.Report{Analysis: "fatalities_by_event_type", Metric: domain.MetricFatalities}
	require.NoError(t, w.WriteReport(context.Background(), empty))

	f, err := os.Open(filepath.Join(dir, "fatalities_by_event_type.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1) // header only
}

func TestNewFileWriter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	_, err := NewFileWriter(dir, slog.Default())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

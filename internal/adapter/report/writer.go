// Package report writes ranked summary tables to disk for the chart
// renderer: one CSV and one JSON file per analysis.
package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/storm-harm-report/internal/domain"
)

// FileWriter persists reports into a directory.
// It implements pipeline.ReportSink.
type FileWriter struct {
	dir    string
	logger *slog.Logger
}

// NewFileWriter creates a FileWriter, creating the output directory if
// needed.
func NewFileWriter(dir string, logger *slog.Logger) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileWriter{dir: dir, logger: logger}, nil
}

// WriteReport writes <analysis>.csv and <analysis>.json. Rows go out in the
// order given — they are pre-ranked — and event-type labels are written
// exactly as they appear in the source data.
func (w *FileWriter) WriteReport(_ context.Context, report domain.Report) error {
	csvPath := filepath.Join(w.dir, report.Analysis+".csv")
	if err := w.writeCSV(csvPath, report); err != nil {
		return err
	}

	jsonPath := filepath.Join(w.dir, report.Analysis+".json")
	if err := w.writeJSON(jsonPath, report); err != nil {
		return err
	}

	w.logger.Info("report written", "analysis", report.Analysis, "rows", len(report.Rows), "dir", w.dir)
	return nil
}

func (w *FileWriter) writeCSV(path string, report domain.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	rows := [][]string{{"event_type", string(report.Metric)}}
	for _, row := range report.Rows {
		rows = append(rows, []string{row.EventType, strconv.FormatFloat(row.Total, 'f', -1, 64)})
	}
	if err := cw.WriteAll(rows); err != nil {
		f.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (w *FileWriter) writeJSON(path string, report domain.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		f.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

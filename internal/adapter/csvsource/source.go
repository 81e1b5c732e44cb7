// Package csvsource reads the NOAA Storm Events bulk CSV into memory.
package csvsource

import (
	"compress/bzip2"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/couchcryptid/storm-harm-report/internal/domain"
	"github.com/couchcryptid/storm-harm-report/internal/observability"
)

// columns are the seven Storm Events headers this service consumes.
var columns = []string{
	"EVTYPE", "FATALITIES", "INJURIES",
	"PROPDMG", "PROPDMGEXP", "CROPDMG", "CROPDMGEXP",
}

// Source loads event records from a local bulk CSV file.
// It implements pipeline.RecordSource.
type Source struct {
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Source for the given file path. ".bz2" and ".gz" suffixes
// are decompressed transparently.
func New(path string, logger *slog.Logger, metrics *observability.Metrics) *Source {
	return &Source{path: path, logger: logger, metrics: metrics}
}

// LoadRecords reads the whole file into typed event records. The header row
// locates the seven columns by name, case-insensitively, so column order and
// extra columns in the export don't matter. Rows the CSV reader cannot parse
// are counted and skipped; a malformed row must not abort a multi-decade
// aggregation.
func (s *Source) LoadRecords(ctx context.Context) ([]domain.EventRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	r, err := decompress(s.path, f)
	if err != nil {
		return nil, err
	}

	return s.readAll(ctx, r)
}

// decompress wraps the raw file reader based on the path suffix.
func decompress(path string, f io.Reader) (io.Reader, error) {
	switch {
	case strings.HasSuffix(path, ".bz2"):
		return bzip2.NewReader(f), nil
	case strings.HasSuffix(path, ".gz"):
		r, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return r, nil
	default:
		return f, nil
	}
}

func (s *Source) readAll(ctx context.Context, r io.Reader) ([]domain.EventRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // the bulk export has ragged rows
	reader.LazyQuotes = true    // and unescaped quotes in narratives

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.EventRecord
	var skipped int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			s.metrics.RowsSkipped.Inc()
			continue
		}

		records = append(records, domain.ParseRawRecord(rawFromRow(row, idx)))
	}

	if skipped > 0 {
		s.logger.Warn("skipped unreadable rows", "count", skipped, "file", s.path)
	}
	return records, nil
}

// resolveColumns maps each required header name to its position.
func resolveColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(columns))
	for i, name := range header {
		idx[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, name := range columns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("data file missing column %s", name)
		}
	}
	return idx, nil
}

// rawFromRow extracts the seven fields from one CSV row. Fields beyond the
// row's length (ragged rows) read as empty.
func rawFromRow(row []string, idx map[string]int) domain.RawEventRecord {
	field := func(name string) string {
		i := idx[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	return domain.RawEventRecord{
		EventType:     field("EVTYPE"),
		Fatalities:    field("FATALITIES"),
		Injuries:      field("INJURIES"),
		PropDamage:    field("PROPDMG"),
		PropDamageExp: field("PROPDMGEXP"),
		CropDamage:    field("CROPDMG"),
		CropDamageExp: field("CROPDMGEXP"),
	}
}

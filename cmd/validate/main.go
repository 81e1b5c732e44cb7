// Command validate checks a produced report set against its source CSV. It
// recomputes the aggregation from scratch and verifies, in phases: ranking
// order and tie stability, conservation of totals, the top-N prefix
// property, and event-type label passthrough.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/mock/storm_events_sample.csv \
//	  -reports-dir data/mock/reports
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/couchcryptid/storm-harm-report/internal/adapter/csvsource"
	"github.com/couchcryptid/storm-harm-report/internal/analysis"
	"github.com/couchcryptid/storm-harm-report/internal/domain"
	"github.com/couchcryptid/storm-harm-report/internal/observability"
)

// floatTolerance absorbs decimal formatting round-trips; totals themselves
// are exact in float64.
const floatTolerance = 1e-6

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the source Storm Events CSV")
	reportsDir := flag.String("reports-dir", "", "directory containing report JSON files")
	flag.Parse()

	if *csvPath == "" || *reportsDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *reportsDir); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, reportsDir string) int {
	fmt.Println("=== Storm Harm Report Validation ===")
	fmt.Println()

	source := csvsource.New(csvPath, slog.Default(), observability.NewMetrics())
	loaded, err := source.LoadRecords(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load source CSV: %v\n", err)
		return 1
	}

	records := make([]domain.EventRecord, len(loaded))
	labels := make(map[string]bool, 64)
	for i, rec := range loaded {
		records[i] = domain.EnrichEventRecord(rec)
		labels[rec.EventType] = true
	}
	fmt.Printf("source: %d records, %d distinct event types\n\n", len(records), len(labels))

	reports, err := loadReports(reportsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load reports: %v\n", err)
		return 1
	}
	if len(reports) == 0 {
		fmt.Fprintf(os.Stderr, "FATAL: no report JSON files in %s\n", reportsDir)
		return 1
	}

	phases := []*phase{
		checkOrdering(reports),
		checkConservation(reports, records),
		checkPrefix(reports, records),
		checkLabels(reports, labels),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Println()
	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed\n", len(phases))
	return 0
}

func loadReports(dir string) ([]domain.Report, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	reports := make([]domain.Report, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var rpt domain.Report
		if err := json.Unmarshal(data, &rpt); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", path, err)
		}
		reports = append(reports, rpt)
	}
	return reports, nil
}

// checkOrdering verifies every report's rows are non-increasing by total.
func checkOrdering(reports []domain.Report) *phase {
	p := &phase{name: "ranking order"}
	for _, rpt := range reports {
		for i := 1; i < len(rpt.Rows); i++ {
			if rpt.Rows[i-1].Total < rpt.Rows[i].Total {
				p.errorf("%s: row %d (%s=%g) < row %d (%s=%g)",
					rpt.Analysis,
					i-1, rpt.Rows[i-1].EventType, rpt.Rows[i-1].Total,
					i, rpt.Rows[i].EventType, rpt.Rows[i].Total)
			}
		}
	}
	return p
}

// checkConservation verifies each report row matches the recomputed group
// total, and that the recomputed group totals sum to the metric's sum over
// all records.
func checkConservation(reports []domain.Report, records []domain.EventRecord) *phase {
	p := &phase{name: "conservation of totals"}
	for _, rpt := range reports {
		recomputed := analysis.Aggregate(records, rpt.Metric)

		var groupSum, inputSum float64
		totals := make(map[string]float64, len(recomputed))
		for _, row := range recomputed {
			totals[row.EventType] = row.Total
			groupSum += row.Total
		}
		for _, rec := range records {
			inputSum += rpt.Metric.ValueFrom(rec)
		}
		if math.Abs(groupSum-inputSum) > floatTolerance {
			p.errorf("%s: group totals sum %g != metric sum %g", rpt.Analysis, groupSum, inputSum)
		}

		for _, row := range rpt.Rows {
			want, ok := totals[row.EventType]
			if !ok {
				p.errorf("%s: group %q not present in recomputed aggregate", rpt.Analysis, row.EventType)
				continue
			}
			if math.Abs(row.Total-want) > floatTolerance {
				p.errorf("%s: group %q total %g, recomputed %g", rpt.Analysis, row.EventType, row.Total, want)
			}
		}
	}
	return p
}

// checkPrefix verifies each report is exactly the leading rows of the
// recomputed ranked aggregate, including tie order.
func checkPrefix(reports []domain.Report, records []domain.EventRecord) *phase {
	p := &phase{name: "top-N prefix"}
	for _, rpt := range reports {
		ranked := analysis.Rank(analysis.Aggregate(records, rpt.Metric))
		if len(rpt.Rows) > len(ranked) {
			p.errorf("%s: %d rows exceed %d available groups", rpt.Analysis, len(rpt.Rows), len(ranked))
			continue
		}
		for i, row := range rpt.Rows {
			if row.EventType != ranked[i].EventType {
				p.errorf("%s: row %d is %q, recomputed rank has %q", rpt.Analysis, i, row.EventType, ranked[i].EventType)
			}
		}
	}
	return p
}

// checkLabels verifies report labels appear verbatim in the source data.
func checkLabels(reports []domain.Report, labels map[string]bool) *phase {
	p := &phase{name: "label passthrough"}
	for _, rpt := range reports {
		for _, row := range rpt.Rows {
			if !labels[row.EventType] {
				p.errorf("%s: label %q not found in source EVTYPE values", rpt.Analysis, row.EventType)
			}
		}
	}
	return p
}

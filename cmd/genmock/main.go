// Command genmock generates a synthetic Storm Events CSV fixture plus the
// expected ranked report JSON files, produced through the real domain and
// analysis code under a frozen clock. The fixtures feed the test suites of
// downstream consumers and give cmd/validate a known-good baseline.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv-out data/mock/storm_events_sample.csv \
//	  -reports-out data/mock/reports \
//	  -top-n 10
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-harm-report/internal/analysis"
	"github.com/couchcryptid/storm-harm-report/internal/domain"
	"github.com/couchcryptid/storm-harm-report/internal/pipeline"
)

// fixtureClock freezes GeneratedAt so regenerated fixtures diff cleanly.
var fixtureClock = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

// fixtureRecords covers every documented exponent code, a stray code, ties,
// and near-duplicate event-type labels.
var fixtureRecords = []domain.RawEventRecord{
	{EventType: "TORNADO", Fatalities: "5", Injuries: "10", PropDamage: "10", PropDamageExp: "K"},
	{EventType: "TORNADO", Fatalities: "3", Injuries: "2"},
	{EventType: "FLOOD", Fatalities: "1", PropDamage: "2", PropDamageExp: "M", CropDamage: "1", CropDamageExp: "M"},
	{EventType: "FLOOD", PropDamage: "115", PropDamageExp: "B"},
	{EventType: "EXCESSIVE HEAT", Fatalities: "7", Injuries: "4"},
	{EventType: "TSTM WIND", Injuries: "3", PropDamage: "5", PropDamageExp: "H"},
	{EventType: "THUNDERSTORM WIND", Injuries: "3", PropDamage: "3", PropDamageExp: "5"},
	{EventType: "HAIL", PropDamage: "42", PropDamageExp: "+", CropDamage: "8", CropDamageExp: "?"},
	{EventType: "HAIL", PropDamage: "9", PropDamageExp: "-"},
	{EventType: "AVALANCE", Fatalities: "1", PropDamage: "12", PropDamageExp: "Z"}, // stray code, misspelled label
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvOut := flag.String("csv-out", "", "output path for the synthetic Storm Events CSV")
	reportsOut := flag.String("reports-out", "", "output directory for expected report JSON files")
	topN := flag.Int("top-n", 10, "rows per ranked report")
	flag.Parse()

	if *csvOut == "" || *reportsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-out, -reports-out")
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixtureClock))
	defer domain.SetClock(nil)

	if err := writeCSV(*csvOut); err != nil {
		return fmt.Errorf("write csv fixture: %w", err)
	}
	log.Printf("csv: %d records -> %s", len(fixtureRecords), *csvOut)

	records := make([]domain.EventRecord, len(fixtureRecords))
	for i, raw := range fixtureRecords {
		records[i] = domain.EnrichEventRecord(domain.ParseRawRecord(raw))
	}

	if err := os.MkdirAll(*reportsOut, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	for _, a := range pipeline.Analyses {
		top := analysis.Top(analysis.Rank(analysis.Aggregate(records, a.Metric)), *topN)
		rpt := domain.NewReport(a.Name, a.Title, a.Metric, top)

		path := filepath.Join(*reportsOut, a.Name+".json")
		if err := writeJSON(path, rpt); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("%s: %d rows -> %s", a.Name, len(top), path)
	}

	return nil
}

func writeCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	rows := [][]string{{"EVTYPE", "FATALITIES", "INJURIES", "PROPDMG", "PROPDMGEXP", "CROPDMG", "CROPDMGEXP"}}
	for _, rec := range fixtureRecords {
		rows = append(rows, []string{
			rec.EventType, rec.Fatalities, rec.Injuries,
			rec.PropDamage, rec.PropDamageExp, rec.CropDamage, rec.CropDamageExp,
		})
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	return f.Close()
}

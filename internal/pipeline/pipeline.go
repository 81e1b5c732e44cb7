// Package pipeline orchestrates the batch analysis: load the record set
// once, normalize damage fields, run the three harm analyses over the same
// immutable slice, and hand each ranked report to the sinks.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/storm-harm-report/internal/analysis"
	"github.com/couchcryptid/storm-harm-report/internal/domain"
	"github.com/couchcryptid/storm-harm-report/internal/observability"
)

// RecordSource delivers the full in-memory event record set.
type RecordSource interface {
	LoadRecords(ctx context.Context) ([]domain.EventRecord, error)
}

// ReportSink consumes one ranked report. Rows arrive pre-sorted descending.
type ReportSink interface {
	WriteReport(ctx context.Context, report domain.Report) error
}

// Analysis names one aggregate-rank-top pass over the record set.
type Analysis struct {
	Name   string
	Title  string
	Metric domain.Metric
}

// Analyses are the three fixed questions the job answers: two on population
// health, one on economic damage.
var Analyses = []Analysis{
	{Name: "fatalities_by_event_type", Title: "Fatalities by event type", Metric: domain.MetricFatalities},
	{Name: "injuries_by_event_type", Title: "Injuries by event type", Metric: domain.MetricInjuries},
	{Name: "damage_by_event_type", Title: "Total economic damage by event type", Metric: domain.MetricTotalDamage},
}

// Pipeline wires a record source to report sinks.
type Pipeline struct {
	source  RecordSource
	sinks   []ReportSink
	logger  *slog.Logger
	metrics *observability.Metrics
	topN    int
	ready   atomic.Bool
}

// New creates a Pipeline. Reports go to every sink, in order.
func New(source RecordSource, sinks []ReportSink, logger *slog.Logger, metrics *observability.Metrics, topN int) *Pipeline {
	return &Pipeline{
		source:  source,
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
		topN:    topN,
	}
}

// CheckReadiness returns nil once a full analysis run has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("analysis run has not completed yet")
	}
	return nil
}

// Run executes one complete batch analysis. It holds no state between
// invocations; each run is a pure function of the loaded record set.
func (p *Pipeline) Run(ctx context.Context) error {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	records, err := p.source.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	p.metrics.RecordsIngested.Add(float64(len(records)))
	p.logger.Info("records loaded", "count", len(records))

	enriched := p.enrich(records)

	// The analyses share the enriched slice read-only and write only their
	// own results, so they run concurrently without coordination.
	reports := make([]domain.Report, len(Analyses))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range Analyses {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = p.runAnalysis(a, enriched)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("run analyses: %w", err)
	}

	for _, report := range reports {
		for _, sink := range p.sinks {
			if err := sink.WriteReport(ctx, report); err != nil {
				return fmt.Errorf("write report %s: %w", report.Analysis, err)
			}
		}
		p.metrics.ReportsWritten.Inc()
	}

	p.ready.Store(true)
	p.logger.Info("analysis run complete", "reports", len(reports), "top_n", p.topN)
	return nil
}

// enrich returns a derived copy of the record set with normalized damage
// fields, counting exponent codes outside the documented table along the way.
func (p *Pipeline) enrich(records []domain.EventRecord) []domain.EventRecord {
	enriched := make([]domain.EventRecord, len(records))
	for i, rec := range records {
		for _, code := range []string{rec.PropDamageExp, rec.CropDamageExp} {
			if !domain.KnownExponent(code) {
				p.metrics.UnknownExponents.WithLabelValues(code).Inc()
			}
		}
		enriched[i] = domain.EnrichEventRecord(rec)
	}
	return enriched
}

func (p *Pipeline) runAnalysis(a Analysis, records []domain.EventRecord) domain.Report {
	start := time.Now()

	rows := analysis.Aggregate(records, a.Metric)
	ranked := analysis.Rank(rows)
	top := analysis.Top(ranked, p.topN)
	report := domain.NewReport(a.Name, a.Title, a.Metric, top)

	p.metrics.AnalysisDuration.WithLabelValues(a.Name).Observe(time.Since(start).Seconds())
	p.metrics.ReportRows.WithLabelValues(a.Name).Set(float64(len(top)))
	p.logger.Info("analysis complete",
		"analysis", a.Name,
		"groups", len(rows),
		"rows", len(top),
	)
	return report
}

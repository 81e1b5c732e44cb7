package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// harm-report batch job.
type Metrics struct {
	RecordsIngested prometheus.Counter
	RowsSkipped     prometheus.Counter
	ReportsWritten  prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Damage normalization metrics.
	UnknownExponents *prometheus.CounterVec // label: code

	// Per-analysis metrics.
	AnalysisDuration *prometheus.HistogramVec // label: analysis
	ReportRows       *prometheus.GaugeVec     // label: analysis
}

// NewMetrics creates and registers all job metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_harm",
			Name:      "records_ingested_total",
			Help:      "Total event records read from the bulk CSV.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_harm",
			Name:      "rows_skipped_total",
			Help:      "Total CSV rows skipped as unreadable.",
		}),
		ReportsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_harm",
			Name:      "reports_written_total",
			Help:      "Total ranked reports handed to sinks.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_harm",
			Name:      "pipeline_running",
			Help:      "1 while the analysis pipeline is active, 0 otherwise.",
		}),
		UnknownExponents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_harm",
			Name:      "unknown_exponent_total",
			Help:      "Damage exponent codes outside the documented table, by code.",
		}, []string{"code"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storm_harm",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of one aggregate-rank-top pass, by analysis.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"analysis"}),
		ReportRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "storm_harm",
			Name:      "report_rows",
			Help:      "Row count of the most recent report, by analysis.",
		}, []string{"analysis"}),
	}

	prometheus.MustRegister(
		m.RecordsIngested,
		m.RowsSkipped,
		m.ReportsWritten,
		m.PipelineRunning,
		m.UnknownExponents,
		m.AnalysisDuration,
		m.ReportRows,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsIngested:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_harm", Name: "records_ingested_total"}),
		RowsSkipped:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_harm", Name: "rows_skipped_total"}),
		ReportsWritten:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_harm", Name: "reports_written_total"}),
		PipelineRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storm_harm", Name: "pipeline_running"}),
		UnknownExponents: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "storm_harm", Name: "unknown_exponent_total"}, []string{"code"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "storm_harm", Name: "analysis_duration_seconds"}, []string{"analysis"}),
		ReportRows:       prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "storm_harm", Name: "report_rows"}, []string{"analysis"}),
	}
}

package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-harm-report/internal/domain"
	"github.com/couchcryptid/storm-harm-report/internal/observability"
	"github.com/couchcryptid/storm-harm-report/internal/pipeline"
)

// --- mocks ---

type mockSource struct {
	records []domain.EventRecord
	err     error
}

func (m *mockSource) LoadRecords(_ context.Context) ([]domain.EventRecord, error) {
	return m.records, m.err
}

type mockSink struct {
	reports []domain.Report
	err     error
}

func (m *mockSink) WriteReport(_ context.Context, report domain.Report) error {
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, report)
	return nil
}

func (m *mockSink) byName(name string) (domain.Report, bool) {
	for _, r := range m.reports {
		if r.Analysis == name {
			return r, true
		}
	}
	return domain.Report{}, false
}

// testRecords is the canonical three-record scenario: tornado dominates
// health harm, flood dominates economic damage.
func testRecords() []domain.EventRecord {
	return []domain.EventRecord{
		{EventType: "TORNADO", Fatalities: 5, Injuries: 10, PropDamageMag: 10, PropDamageExp: "K"},
		{EventType: "FLOOD", Fatalities: 1, PropDamageMag: 2, PropDamageExp: "M", CropDamageMag: 1, CropDamageExp: "M"},
		{EventType: "TORNADO", Fatalities: 3, Injuries: 2},
	}
}

func newPipeline(src *mockSource, sinks ...pipeline.ReportSink) *pipeline.Pipeline {
	return pipeline.New(src, sinks, slog.Default(), observability.NewMetricsForTesting(), 10)
}

// --- tests ---

func TestPipeline_Run_EndToEnd(t *testing.T) {
	frozen := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(frozen))
	defer domain.SetClock(nil)

	sink := &mockSink{}
	p := newPipeline(&mockSource{records: testRecords()}, sink)

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, sink.reports, 3)

	fatalities, ok := sink.byName("fatalities_by_event_type")
	require.True(t, ok)
	want := []domain.AggregateRow{
		{EventType: "TORNADO", Total: 8},
		{EventType: "FLOOD", Total: 1},
	}
	if diff := cmp.Diff(want, fatalities.Rows); diff != "" {
		t.Errorf("fatality ranking mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, frozen, fatalities.GeneratedAt)

	injuries, ok := sink.byName("injuries_by_event_type")
	require.True(t, ok)
	require.Len(t, injuries.Rows, 2)
	assert.Equal(t, domain.AggregateRow{EventType: "TORNADO", Total: 12}, injuries.Rows[0])

	damage, ok := sink.byName("damage_by_event_type")
	require.True(t, ok)
	want = []domain.AggregateRow{
		{EventType: "FLOOD", Total: 3_000_000},
		{EventType: "TORNADO", Total: 10_000},
	}
	if diff := cmp.Diff(want, damage.Rows); diff != "" {
		t.Errorf("damage ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeline_Run_TopNTruncates(t *testing.T) {
	sink := &mockSink{}
	p := pipeline.New(
		&mockSource{records: testRecords()},
		[]pipeline.ReportSink{sink},
		slog.Default(),
		observability.NewMetricsForTesting(),
		1,
	)

	require.NoError(t, p.Run(context.Background()))

	for _, report := range sink.reports {
		assert.Len(t, report.Rows, 1, "analysis %s", report.Analysis)
	}
	damage, ok := sink.byName("damage_by_event_type")
	require.True(t, ok)
	assert.Equal(t, "FLOOD", damage.Rows[0].EventType)
}

func TestPipeline_Run_EmptyInput(t *testing.T) {
	sink := &mockSink{}
	p := newPipeline(&mockSource{}, sink)

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, sink.reports, 3)
	for _, report := range sink.reports {
		assert.Empty(t, report.Rows, "analysis %s", report.Analysis)
	}
}

func TestPipeline_Run_SourceError(t *testing.T) {
	srcErr := errors.New("file missing")
	sink := &mockSink{}
	p := newPipeline(&mockSource{err: srcErr}, sink)

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, srcErr)
	assert.Empty(t, sink.reports)
}

func TestPipeline_Run_SinkError(t *testing.T) {
	sinkErr := errors.New("disk full")
	p := newPipeline(&mockSource{records: testRecords()}, &mockSink{err: sinkErr})

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sinkErr)
}

func TestPipeline_Run_FansOutToAllSinks(t *testing.T) {
	first, second := &mockSink{}, &mockSink{}
	p := newPipeline(&mockSource{records: testRecords()}, first, second)

	require.NoError(t, p.Run(context.Background()))
	assert.Len(t, first.reports, 3)
	assert.Len(t, second.reports, 3)
}

func TestPipeline_CheckReadiness(t *testing.T) {
	p := newPipeline(&mockSource{records: testRecords()}, &mockSink{})

	require.Error(t, p.CheckReadiness(context.Background()))
	require.NoError(t, p.Run(context.Background()))
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

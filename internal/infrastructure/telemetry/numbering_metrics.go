package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// NumberingMetrics counts identifier issuance and the report lifecycle
// events around it. Recording is driven by domain events, so every method is
// called at most once per event.
type NumberingMetrics struct {
	identifiersIssued *Counter
	countersSeeded    *Counter
	lastSequence      *Gauge
	reportsFinalized  *Counter
	reportsArchived   *Counter
	boardSyncs        *Counter
}

// NewNumberingMetrics registers the instruments on meter
func NewNumberingMetrics(meter metric.Meter) (*NumberingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &NumberingMetrics{}
	var err error
	if m.identifiersIssued, err = NewCounter(meter,
		"kaizen_identifier_issued_total", "Identifiers issued", "{identifier}"); err != nil {
		return nil, err
	}
	if m.countersSeeded, err = NewCounter(meter,
		"kaizen_counter_seeded_total", "Counters initialised from a seed identifier", "{counter}"); err != nil {
		return nil, err
	}
	if m.lastSequence, err = NewGauge(meter,
		"kaizen_identifier_last_sequence", "Sequence of the most recently issued identifier", "{sequence}"); err != nil {
		return nil, err
	}
	if m.reportsFinalized, err = NewCounter(meter,
		"kaizen_report_finalized_total", "Reports finalized", "{report}"); err != nil {
		return nil, err
	}
	if m.reportsArchived, err = NewCounter(meter,
		"kaizen_report_archived_total", "Numbered reports moved to the archive", "{report}"); err != nil {
		return nil, err
	}
	if m.boardSyncs, err = NewCounter(meter,
		"kaizen_board_sync_total", "Board syncs that changed at least one row", "{sync}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordIssued counts an issued identifier and tracks its sequence
func (m *NumberingMetrics) RecordIssued(ctx context.Context, team, period string, sequence int64) {
	m.identifiersIssued.Inc(ctx, AttrTeamID.String(team), AttrPeriod.String(period))
	m.lastSequence.Record(ctx, sequence, AttrTeamID.String(team), AttrPeriod.String(period))
}

// RecordSeeded counts a counter bootstrap
func (m *NumberingMetrics) RecordSeeded(ctx context.Context, team, period string) {
	m.countersSeeded.Inc(ctx, AttrTeamID.String(team), AttrPeriod.String(period))
}

// RecordFinalized counts a finalized report
func (m *NumberingMetrics) RecordFinalized(ctx context.Context, team string) {
	m.reportsFinalized.Inc(ctx, AttrTeamID.String(team))
}

// RecordArchived counts an archived report by reason
func (m *NumberingMetrics) RecordArchived(ctx context.Context, team, reason string) {
	m.reportsArchived.Inc(ctx, AttrTeamID.String(team), AttrReason.String(reason))
}

// RecordBoardSync counts a board sync
func (m *NumberingMetrics) RecordBoardSync(ctx context.Context, team string) {
	m.boardSyncs.Inc(ctx, AttrTeamID.String(team))
}

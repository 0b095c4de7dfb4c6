package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is one finalized team evaluation. Records are written by the audit
// workflow; this service only reads them.
type Record struct {
	ID          uuid.UUID
	TeamID      string
	Title       string
	Evaluator   string
	Score       decimal.Decimal
	Notes       string
	EvaluatedAt time.Time
	CreatedAt   time.Time
}

// Baseline summarises a team's audit history for the record being written
type Baseline struct {
	TeamID   string
	IsFirst  bool
	Latest   *Record
	Previous *Record
	// Delta is Latest.Score - Previous.Score; zero without a previous record
	Delta    decimal.Decimal
	HasDelta bool
}

// ComputeBaseline builds a baseline from the team's records, newest first
func ComputeBaseline(teamID string, newestFirst []Record) Baseline {
	b := Baseline{TeamID: teamID, IsFirst: len(newestFirst) == 0, Delta: decimal.Zero}
	if len(newestFirst) == 0 {
		return b
	}

	latest := newestFirst[0]
	b.Latest = &latest
	if len(newestFirst) > 1 {
		previous := newestFirst[1]
		b.Previous = &previous
		b.Delta = latest.Score.Sub(previous.Score)
		b.HasDelta = true
	}
	return b
}

// Repository provides read access to audit records
type Repository interface {
	// LatestForTeam returns up to limit records, newest first
	LatestForTeam(ctx context.Context, teamID string, limit int) ([]Record, error)

	// CountForTeam counts the team's records
	CountForTeam(ctx context.Context, teamID string) (int64, error)
}

package numbering

import (
	"github.com/google/uuid"
	"github.com/kaizen/backend/internal/domain/shared"
)

// AggregateTypeCounter is the aggregate type used for counter events
const AggregateTypeCounter = "Counter"

// Counter event type constants
const (
	EventTypeCounterSeeded    = "CounterSeeded"
	EventTypeIdentifierIssued = "IdentifierIssued"
)

// counterNamespace scopes the deterministic aggregate ids derived from counter keys
var counterNamespace = uuid.MustParse("6f1c5d1e-8f0b-4e55-9a63-2b7f3f0f6a10")

// CounterAggregateID derives a stable id for a counter key so events about
// the same counter share an aggregate id
func CounterAggregateID(key CounterKey) uuid.UUID {
	return uuid.NewSHA1(counterNamespace, []byte(key.String()))
}

// CounterSeededEvent is raised when a counter is bootstrapped
type CounterSeededEvent struct {
	shared.BaseDomainEvent
	Period string `json:"period"`
	Start  int64  `json:"start"`
}

// NewCounterSeededEvent creates a new CounterSeededEvent
func NewCounterSeededEvent(key CounterKey, start int64) *CounterSeededEvent {
	return &CounterSeededEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCounterSeeded, AggregateTypeCounter, CounterAggregateID(key), key.Team.String()),
		Period:          key.Period.String(),
		Start:           start,
	}
}

// IdentifierIssuedEvent is raised once for every consumed sequence value
type IdentifierIssuedEvent struct {
	shared.BaseDomainEvent
	Identifier string `json:"identifier"`
	Period     string `json:"period"`
	Sequence   int64  `json:"sequence"`
}

// NewIdentifierIssuedEvent creates a new IdentifierIssuedEvent
func NewIdentifierIssuedEvent(id Identifier) *IdentifierIssuedEvent {
	return &IdentifierIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIdentifierIssued, AggregateTypeCounter, CounterAggregateID(id.Key()), id.Team.String()),
		Identifier:      id.String(),
		Period:          id.Period.String(),
		Sequence:        id.Sequence,
	}
}

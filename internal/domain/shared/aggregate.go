package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// TeamAggregateRoot extends BaseAggregateRoot with team ownership.
// Every record in this service belongs to exactly one team and is only
// visible to that team's members.
type TeamAggregateRoot struct {
	BaseAggregateRoot
	TeamID    string     `gorm:"type:varchar(16);not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// NewTeamAggregateRoot creates a new team-scoped aggregate root
func NewTeamAggregateRoot(teamID string) TeamAggregateRoot {
	return TeamAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TeamID:            teamID,
	}
}

// SetCreatedBy sets the creator user ID
func (t *TeamAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}

// GetTeamID returns the owning team
func (t *TeamAggregateRoot) GetTeamID() string {
	return t.TeamID
}

package numbering

import (
	"github.com/kaizen/backend/internal/domain/numbering"
)

// AllocateRequest asks for the next identifier of a period. ActivityRange,
// when present, decides the period; otherwise Period or the current month does.
type AllocateRequest struct {
	Period        string `json:"period" binding:"omitempty,period_key"`
	ActivityRange string `json:"activity_range" binding:"omitempty,max=100"`
}

// SeedRequest bootstraps a counter from the last identifier issued outside the system
type SeedRequest struct {
	Period string `json:"period" binding:"required,period_key"`
	Seed   string `json:"seed" binding:"required,max=40"`
}

// IdentifierResponse is a freshly issued identifier
type IdentifierResponse struct {
	Identifier string `json:"identifier"`
	Team       string `json:"team"`
	Period     string `json:"period"`
	Sequence   int64  `json:"sequence"`
}

// CounterResponse describes a counter without advancing it
type CounterResponse struct {
	Team        string `json:"team"`
	Period      string `json:"period"`
	Initialized bool   `json:"initialized"`
	NextValue   int64  `json:"next_value,omitempty"`
	// NextIdentifier previews the identifier the next allocation would return
	NextIdentifier string `json:"next_identifier,omitempty"`
}

// ToIdentifierResponse converts a domain identifier to a response
func ToIdentifierResponse(id numbering.Identifier) IdentifierResponse {
	return IdentifierResponse{
		Identifier: id.String(),
		Team:       id.Team.String(),
		Period:     id.Period.String(),
		Sequence:   id.Sequence,
	}
}

package numbering

import (
	"fmt"

	"github.com/kaizen/backend/internal/domain/shared"
)

// Numbering error codes
const (
	CodeBootstrapRequired      = "BOOTSTRAP_REQUIRED"
	CodeAlreadyInitialized     = "ALREADY_INITIALIZED"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeAllocationFailed       = "ALLOCATION_FAILED"
	CodeTeamMismatch           = "TEAM_MISMATCH"
	CodePeriodMismatch         = "PERIOD_MISMATCH"
	CodeInvalidSeed            = "INVALID_SEED"
	CodeInvalidTeam            = "INVALID_TEAM"
	CodeInvalidPeriod          = "INVALID_PERIOD"
	CodeInvalidIdentifier      = "INVALID_IDENTIFIER"
)

// Sentinel errors. Use errors.Is; codes are compared, so errors carrying
// a more specific message still match their sentinel.
var (
	ErrBootstrapRequired      = shared.NewDomainError(CodeBootstrapRequired, "Counter has not been initialised for this team and period")
	ErrAlreadyInitialized     = shared.NewDomainError(CodeAlreadyInitialized, "Counter is already initialised for this team and period")
	ErrConcurrentModification = shared.NewDomainError(CodeConcurrentModification, "Counter was advanced by another session")
	ErrAllocationFailed       = shared.NewDomainError(CodeAllocationFailed, "Could not allocate an identifier; try again")
	ErrTeamMismatch           = shared.NewDomainError(CodeTeamMismatch, "Seed belongs to a different team")
	ErrPeriodMismatch         = shared.NewDomainError(CodePeriodMismatch, "Seed belongs to a different period")
	ErrInvalidSeed            = shared.NewDomainError(CodeInvalidSeed, "Seed must look like TEAM-YYMM-NNNN")
	ErrInvalidTeam            = shared.NewDomainError(CodeInvalidTeam, "Team code must be upper-case letters and digits")
	ErrInvalidPeriod          = shared.NewDomainError(CodeInvalidPeriod, "Period must be YYMM")
	ErrInvalidIdentifier      = shared.NewDomainError(CodeInvalidIdentifier, "Identifier must look like TEAM-YYMM-NNNN")
)

// BootstrapRequiredError tells the caller which counter needs a human-supplied
// starting value. It matches ErrBootstrapRequired with errors.Is.
type BootstrapRequiredError struct {
	Key CounterKey
}

// Error implements the error interface
func (e *BootstrapRequiredError) Error() string {
	return fmt.Sprintf("counter %s has not been initialised", e.Key)
}

// Is makes errors.Is(err, ErrBootstrapRequired) succeed
func (e *BootstrapRequiredError) Is(target error) bool {
	return target == ErrBootstrapRequired
}

// NewBootstrapRequiredError creates a BootstrapRequiredError for the key
func NewBootstrapRequiredError(key CounterKey) *BootstrapRequiredError {
	return &BootstrapRequiredError{Key: key}
}

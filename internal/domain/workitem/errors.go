package workitem

import "github.com/kaizen/backend/internal/domain/shared"

// Work item errors
var (
	ErrIdentifierImmutable = shared.NewDomainError("IDENTIFIER_IMMUTABLE", "Work item already carries a different identifier")
	ErrDuplicateBoardEntry = shared.NewDomainError("DUPLICATE_BOARD_ENTRY", "The same work item appears twice in the board")
)

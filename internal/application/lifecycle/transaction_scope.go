package lifecycle

import (
	"context"

	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/report"
	"github.com/kaizen/backend/internal/domain/workitem"
)

// TransactionScope provides transactional access to the lifecycle repositories.
// Everything done through the repositories handed to fn is committed or
// rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// Only these repositories may be used inside Execute: the single-connection
// SQLite mode would block on any other handle.
type TransactionalRepositories interface {
	// WorkItems returns the work item repository scoped to the current transaction
	WorkItems() workitem.Repository
	// Reports returns the report repository scoped to the current transaction
	Reports() report.Repository
	// Archive returns the archived report repository scoped to the current transaction
	Archive() report.ArchiveRepository
	// Counters returns the counter store scoped to the current transaction
	Counters() numbering.CounterStore
}

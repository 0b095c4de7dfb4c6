package persistence

import (
	"context"

	"github.com/kaizen/backend/internal/application/lifecycle"
	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/domain/report"
	"github.com/kaizen/backend/internal/domain/workitem"
	"gorm.io/gorm"
)

// GormTransactionScope implements lifecycle.TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos lifecycle.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// WorkItems returns the work item repository scoped to the current transaction.
func (r *gormTransactionalRepositories) WorkItems() workitem.Repository {
	return NewGormWorkItemRepository(r.tx)
}

// Reports returns the report repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Reports() report.Repository {
	return NewGormReportRepository(r.tx)
}

// Archive returns the archive repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Archive() report.ArchiveRepository {
	return NewGormArchiveRepository(r.tx)
}

// Counters returns the counter store scoped to the current transaction.
func (r *gormTransactionalRepositories) Counters() numbering.CounterStore {
	return NewGormCounterStore(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ lifecycle.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ lifecycle.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

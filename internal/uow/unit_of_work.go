package uow

import (
	"context"

	"gorm.io/gorm"
)

// Provider begins and resolves transactions. The saga runner and
// orchestrator depend on this interface rather than *UnitOfWork directly so
// tests can substitute an in-memory provider without a real database.
type Provider interface {
	Begin(ctx context.Context) (*gorm.DB, error)
	Commit(tx *gorm.DB) error
	Rollback(tx *gorm.DB)
}

// UnitOfWork opens a fresh transaction on every Begin call. The saga runner
// uses one of them per phase of a step, so a step's business mutation and
// its audit-row update commit together, independent of any other step.
type UnitOfWork struct {
	db *gorm.DB
}

func New(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Begin opens a transaction bound to ctx. The caller must Commit or
// Rollback it exactly once.
func (u *UnitOfWork) Begin(ctx context.Context) (*gorm.DB, error) {
	tx := u.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// Commit commits tx, returning the commit error if any.
func (u *UnitOfWork) Commit(tx *gorm.DB) error {
	return tx.Commit().Error
}

// Rollback rolls tx back. Errors are deliberately discarded: a rollback is
// itself a failure-path cleanup and the original error always takes
// precedence.
func (u *UnitOfWork) Rollback(tx *gorm.DB) {
	tx.Rollback()
}

package saga

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/director74/ordersaga/internal/entity"
	"github.com/director74/ordersaga/internal/repo"
	"github.com/director74/ordersaga/internal/uow"
	apperrors "github.com/director74/ordersaga/pkg/errors"
)

// Step is one capability an order saga exercises: a forward action and the
// action that undoes it. Execute and Compensate each run inside whatever
// transaction the Runner hands them; neither manages its own commit.
type Step interface {
	Name() string
	Execute(ctx context.Context, tx *gorm.DB) error
	Compensate(ctx context.Context, tx *gorm.DB) error
}

// Runner drives a Step through the audit protocol: a STARTED row committed
// before Execute runs, then the business mutation and the terminal status
// update committed together. Each step therefore lands its own durable
// commit independent of any other step, so a later step's failure never
// rolls back an earlier step's already-committed effects.
type Runner struct {
	uow    uow.Provider
	steps  repo.SagaStepRepository
	logger *log.Logger
}

func NewRunner(u uow.Provider, steps repo.SagaStepRepository, logger *log.Logger) *Runner {
	return &Runner{uow: u, steps: steps, logger: logger}
}

// Run executes step, recording STARTED before the call and COMPLETED or
// FAILED after it.
func (r *Runner) Run(ctx context.Context, runID uuid.UUID, orderID uint, step Step) error {
	startTx, err := r.uow.Begin(ctx)
	if err != nil {
		return NewError(KindFatal, step.Name(), err)
	}
	stepID, err := r.steps.Start(ctx, startTx, runID, orderID, step.Name())
	if err != nil {
		r.uow.Rollback(startTx)
		return NewError(KindFatal, step.Name(), err)
	}
	if err := r.uow.Commit(startTx); err != nil {
		return NewError(KindFatal, step.Name(), err)
	}

	runTx, err := r.uow.Begin(ctx)
	if err != nil {
		return NewError(KindFatal, step.Name(), err)
	}

	if execErr := step.Execute(ctx, runTx); execErr != nil {
		r.uow.Rollback(runTx)
		r.logger.Printf("step %s failed: %v", step.Name(), execErr)

		failTx, ferr := r.uow.Begin(ctx)
		if ferr != nil {
			return NewError(KindFatal, step.Name(), ferr)
		}
		if ferr := r.steps.Finish(ctx, failTx, stepID, entity.SagaStepFailed, execErr.Error()); ferr != nil {
			r.uow.Rollback(failTx)
			return NewError(KindFatal, step.Name(), ferr)
		}
		if ferr := r.uow.Commit(failTx); ferr != nil {
			return NewError(KindFatal, step.Name(), ferr)
		}
		return execErr
	}

	if err := r.steps.Finish(ctx, runTx, stepID, entity.SagaStepCompleted, ""); err != nil {
		r.uow.Rollback(runTx)
		return NewError(KindFatal, step.Name(), err)
	}
	if err := r.uow.Commit(runTx); err != nil {
		return NewError(KindFatal, step.Name(), err)
	}
	return nil
}

// Compensate runs step.Compensate. On success it records a
// "Compensate_<name>" COMPLETED row in the same transaction as the
// compensating mutation. On failure it rolls back and only logs:
// compensation failures never abort the reverse loop and are never surfaced
// to the caller, matching the best-effort compensation policy.
func (r *Runner) Compensate(ctx context.Context, runID uuid.UUID, orderID uint, step Step) {
	name := entity.CompensationName(step.Name())

	details := map[string]interface{}{"order_id": orderID, "run_id": runID, "compensation": name}

	tx, err := r.uow.Begin(ctx)
	if err != nil {
		apperrors.LogErrorWithDetails(apperrors.AppendPrefix(err, "begin compensation transaction"), "saga.Compensate", details)
		return
	}

	if err := step.Compensate(ctx, tx); err != nil {
		r.uow.Rollback(tx)
		apperrors.LogErrorWithDetails(err, "saga.Compensate", details)
		return
	}

	if err := r.steps.RecordCompensation(ctx, tx, runID, orderID, name); err != nil {
		r.uow.Rollback(tx)
		apperrors.LogErrorWithDetails(apperrors.AppendPrefix(err, "audit insert"), "saga.Compensate", details)
		return
	}

	if err := r.uow.Commit(tx); err != nil {
		apperrors.LogErrorWithDetails(apperrors.AppendPrefix(err, "commit"), "saga.Compensate", details)
	}
}

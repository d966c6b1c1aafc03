package orchestrator

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/director74/ordersaga/internal/entity"
	"github.com/director74/ordersaga/internal/repo"
	"github.com/director74/ordersaga/internal/saga"
	"github.com/director74/ordersaga/internal/service"
	"github.com/director74/ordersaga/internal/uow"
	apperrors "github.com/director74/ordersaga/pkg/errors"
)

// ErrOrderNotFound is raised by Execute when orderID does not name an
// existing order. It should never happen in the normal request path, since
// intake persists the order immediately before invoking Execute.
var ErrOrderNotFound = repo.ErrOrderNotFound

// Orchestrator drives one order through its saga: a fixed forward step
// list, with reverse-order best-effort compensation on any failure.
type Orchestrator struct {
	orders    repo.OrderRepository
	discounts *service.DiscountsService
	inventory *service.InventoryService
	billing   *service.BillingService
	runner    *saga.Runner
	uow       uow.Provider
	logger    *log.Logger
}

func New(
	orders repo.OrderRepository,
	discounts *service.DiscountsService,
	inventory *service.InventoryService,
	billing *service.BillingService,
	runner *saga.Runner,
	u uow.Provider,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		orders:    orders,
		discounts: discounts,
		inventory: inventory,
		billing:   billing,
		runner:    runner,
		uow:       u,
		logger:    logger,
	}
}

// Execute runs the saga for orderID to a terminal outcome and returns
// whether it succeeded. failAtStep, when non-empty, must name one of the
// four step constants; the orchestrator raises a synthetic failure right
// before that step would otherwise run, to exercise compensation in tests.
func (o *Orchestrator) Execute(ctx context.Context, orderID uint, failAtStep string) (bool, error) {
	order, err := o.orders.GetByID(ctx, orderID)
	if err != nil {
		return false, saga.NewError(saga.KindFatal, "", fmt.Errorf("order %d: %w", orderID, err))
	}

	steps := o.buildSteps(order)
	runID := uuid.New()

	completed := make([]saga.Step, 0, len(steps))
	for _, step := range steps {
		if failAtStep != "" && failAtStep == step.Name() {
			err := saga.NewError(saga.KindInjectedFailure, step.Name(), fmt.Errorf("injected failure at %s", step.Name()))
			return o.fail(ctx, runID, order.ID, completed, err)
		}

		if err := o.runner.Run(ctx, runID, order.ID, step); err != nil {
			return o.fail(ctx, runID, order.ID, completed, err)
		}
		completed = append(completed, step)
	}

	return true, nil
}

func (o *Orchestrator) buildSteps(order *entity.Order) []saga.Step {
	var steps []saga.Step

	if order.PromoCode != nil && *order.PromoCode != "" {
		steps = append(steps, &reservePromoUseStep{
			discounts: o.discounts,
			orderID:   order.ID,
			promoCode: *order.PromoCode,
		})
	}

	steps = append(steps,
		&reserveInventoryStep{
			inventory: o.inventory,
			orderID:   order.ID,
			sku:       order.SKU,
			qty:       order.Qty,
		},
		&chargeUserBalanceStep{
			billing: o.billing,
			orderID: order.ID,
			userID:  order.UserID,
			amount:  order.FinalAmount,
		},
		&finalizeOrderStep{
			orders:  o.orders,
			orderID: order.ID,
		},
	)

	return steps
}

// fail marks the order FAILED in its own transaction, then compensates
// every already-completed step in reverse order, best-effort, before
// returning the originating error.
func (o *Orchestrator) fail(ctx context.Context, runID uuid.UUID, orderID uint, completed []saga.Step, cause error) (bool, error) {
	apperrors.LogErrorWithDetails(cause, "Orchestrator.Execute", map[string]interface{}{"order_id": orderID, "run_id": runID})

	tx, err := o.uow.Begin(ctx)
	if err != nil {
		apperrors.LogError(apperrors.AppendPrefix(err, fmt.Sprintf("order %d: open transaction to mark FAILED", orderID)), "Orchestrator.fail")
	} else if err := o.orders.UpdateStatus(ctx, tx, orderID, entity.OrderStatusFailed); err != nil {
		o.uow.Rollback(tx)
		apperrors.LogError(apperrors.AppendPrefix(err, fmt.Sprintf("order %d: mark FAILED", orderID)), "Orchestrator.fail")
	} else if err := o.uow.Commit(tx); err != nil {
		apperrors.LogError(apperrors.AppendPrefix(err, fmt.Sprintf("order %d: commit FAILED status", orderID)), "Orchestrator.fail")
	}

	for i := len(completed) - 1; i >= 0; i-- {
		o.runner.Compensate(ctx, runID, orderID, completed[i])
	}

	return false, cause
}

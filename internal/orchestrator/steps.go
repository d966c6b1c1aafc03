package orchestrator

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/director74/ordersaga/internal/entity"
	"github.com/director74/ordersaga/internal/repo"
	"github.com/director74/ordersaga/internal/service"
)

// Step names are fixed identifiers: they appear in SagaStep.step_name and in
// the failAtStep contract, so renaming one changes the external API.
const (
	StepReservePromoUse   = "ReservePromoUse"
	StepReserveInventory  = "ReserveInventory"
	StepChargeUserBalance = "ChargeUserBalance"
	StepFinalizeOrder     = "FinalizeOrder"
)

type reservePromoUseStep struct {
	discounts *service.DiscountsService
	orderID   uint
	promoCode string
}

func (s *reservePromoUseStep) Name() string { return StepReservePromoUse }

func (s *reservePromoUseStep) Execute(ctx context.Context, tx *gorm.DB) error {
	return s.discounts.ReservePromoUse(ctx, tx, s.orderID, s.promoCode)
}

func (s *reservePromoUseStep) Compensate(ctx context.Context, tx *gorm.DB) error {
	return s.discounts.ReleasePromoUse(ctx, tx, s.orderID, s.promoCode)
}

type reserveInventoryStep struct {
	inventory *service.InventoryService
	orderID   uint
	sku       string
	qty       int
}

func (s *reserveInventoryStep) Name() string { return StepReserveInventory }

func (s *reserveInventoryStep) Execute(ctx context.Context, tx *gorm.DB) error {
	return s.inventory.ReserveInventory(ctx, tx, s.orderID, s.sku, s.qty)
}

func (s *reserveInventoryStep) Compensate(ctx context.Context, tx *gorm.DB) error {
	return s.inventory.ReleaseInventory(ctx, tx, s.orderID, s.sku, s.qty)
}

type chargeUserBalanceStep struct {
	billing *service.BillingService
	orderID uint
	userID  uint
	amount  decimal.Decimal
}

func (s *chargeUserBalanceStep) Name() string { return StepChargeUserBalance }

func (s *chargeUserBalanceStep) Execute(ctx context.Context, tx *gorm.DB) error {
	return s.billing.ChargeUserBalance(ctx, tx, s.orderID, s.userID, s.amount)
}

func (s *chargeUserBalanceStep) Compensate(ctx context.Context, tx *gorm.DB) error {
	return s.billing.RefundPayment(ctx, tx, s.orderID, s.userID, s.amount)
}

// finalizeOrderStep sets the order CONFIRMED. It is the last forward step
// and has a no-op compensation: once a saga reaches FinalizeOrder every
// resource mutation has already happened, and there is nothing of
// FinalizeOrder's own to undo if a later step failed, because there is no
// later step.
type finalizeOrderStep struct {
	orders  repo.OrderRepository
	orderID uint
}

func (s *finalizeOrderStep) Name() string { return StepFinalizeOrder }

func (s *finalizeOrderStep) Execute(ctx context.Context, tx *gorm.DB) error {
	return s.orders.UpdateStatus(ctx, tx, s.orderID, entity.OrderStatusConfirmed)
}

func (s *finalizeOrderStep) Compensate(ctx context.Context, tx *gorm.DB) error {
	return nil
}

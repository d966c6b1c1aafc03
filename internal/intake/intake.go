package intake

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/director74/ordersaga/internal/entity"
	"github.com/director74/ordersaga/internal/orchestrator"
	"github.com/director74/ordersaga/internal/repo"
	"github.com/director74/ordersaga/internal/saga"
	"github.com/director74/ordersaga/internal/service"
	apperrors "github.com/director74/ordersaga/pkg/errors"
)

// ErrInvalidQuantity is returned when a request's quantity is not positive.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// Request is the order-placement request this service accepts, before any
// resource has been touched.
type Request struct {
	UserID     uint
	SKU        string
	Qty        int
	PromoCode  string
	FailAtStep string
	Metadata   map[string]interface{}
}

// Result is what intake hands back once the saga has reached a terminal
// outcome: whether it succeeded, the order as finally persisted, and the
// audit trail a caller can render.
type Result struct {
	Success bool
	Order   *entity.Order
	Steps   []entity.SagaStep
}

// Service validates requests, prices and persists orders, and drives them
// through the saga orchestrator.
type Service struct {
	users        repo.UserRepository
	items        repo.InventoryItemRepository
	promoCodes   repo.PromoCodeRepository
	orders       repo.OrderRepository
	sagaSteps    repo.SagaStepRepository
	discounts    *service.DiscountsService
	orchestrator *orchestrator.Orchestrator
	logger       *log.Logger
}

func New(
	users repo.UserRepository,
	items repo.InventoryItemRepository,
	promoCodes repo.PromoCodeRepository,
	orders repo.OrderRepository,
	sagaSteps repo.SagaStepRepository,
	discounts *service.DiscountsService,
	orch *orchestrator.Orchestrator,
	logger *log.Logger,
) *Service {
	return &Service{
		users:        users,
		items:        items,
		promoCodes:   promoCodes,
		orders:       orders,
		sagaSteps:    sagaSteps,
		discounts:    discounts,
		orchestrator: orch,
		logger:       logger,
	}
}

// PlaceOrder validates req, prices the order, persists it as PENDING, and
// runs the saga to a terminal outcome. It returns a saga.Error of kind
// VALIDATION when req itself cannot be priced, and one of kind FATAL when
// the order cannot be persisted or reloaded. A saga that ends FAILED is not
// an error: it is reported through Result.Success, the order status and the
// audit trail, and the orchestrator's error is only logged.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*Result, error) {
	if req.Qty <= 0 {
		return nil, saga.NewError(saga.KindValidation, "", apperrors.AppendPrefix(apperrors.ErrBadRequest, ErrInvalidQuantity.Error()))
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, saga.NewError(saga.KindValidation, "", apperrors.AppendPrefix(err, fmt.Sprintf("user %d", req.UserID)))
	}

	item, err := s.items.GetBySKU(ctx, req.SKU)
	if err != nil {
		return nil, saga.NewError(saga.KindValidation, "", apperrors.AppendPrefix(err, fmt.Sprintf("sku %s", req.SKU)))
	}

	var promoCode *string
	if req.PromoCode != "" {
		promo, err := s.promoCodes.GetByCode(ctx, req.PromoCode)
		if err != nil {
			return nil, saga.NewError(saga.KindValidation, "", apperrors.AppendPrefix(err, fmt.Sprintf("promo %s", req.PromoCode)))
		}
		if promo.RemainingUses <= 0 {
			return nil, saga.NewError(saga.KindValidation, "", apperrors.AppendPrefix(apperrors.ErrBadRequest, fmt.Sprintf("promo %s has no remaining uses", req.PromoCode)))
		}
		promoCode = &req.PromoCode
	}

	base := item.Price.Mul(decimal.NewFromInt(int64(req.Qty)))
	discount := s.discounts.CalculateDiscount(ctx, req.PromoCode)
	final := base.Sub(discount)

	order := &entity.Order{
		UserID:         req.UserID,
		SKU:            req.SKU,
		Qty:            req.Qty,
		PromoCode:      promoCode,
		BaseAmount:     base,
		DiscountAmount: discount,
		FinalAmount:    final,
		Status:         entity.OrderStatusPending,
		Metadata:       datatypes.JSONMap(req.Metadata),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, saga.NewError(saga.KindFatal, "", fmt.Errorf("persisting order: %w", err))
	}

	success, sagaErr := s.orchestrator.Execute(ctx, order.ID, req.FailAtStep)

	finalOrder, err := s.orders.GetByID(ctx, order.ID)
	if err != nil {
		return nil, saga.NewError(saga.KindFatal, "", fmt.Errorf("reloading order %d: %w", order.ID, err))
	}

	steps, err := s.sagaSteps.ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, saga.NewError(saga.KindFatal, "", fmt.Errorf("loading audit trail for order %d: %w", order.ID, err))
	}

	result := &Result{Success: success, Order: finalOrder, Steps: steps}
	if !success {
		s.logger.Printf("order %d ended FAILED: %v", order.ID, sagaErr)
	}
	return result, nil
}

package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/director74/ordersaga/internal/entity"
	"github.com/director74/ordersaga/internal/repo"
)

// DiscountsService prices and reserves promo-code discounts.
type DiscountsService struct {
	promoCodes   repo.PromoCodeRepository
	applications repo.PromoApplicationRepository
}

func NewDiscountsService(promoCodes repo.PromoCodeRepository, applications repo.PromoApplicationRepository) *DiscountsService {
	return &DiscountsService{promoCodes: promoCodes, applications: applications}
}

// CalculateDiscount returns the flat discount for promoCode, or zero when
// promoCode is empty, unknown, or exhausted. It never errors: an invalid
// promo code is priced as no discount, the same as the original checkout
// flow this saga replaced.
func (s *DiscountsService) CalculateDiscount(ctx context.Context, promoCode string) decimal.Decimal {
	if promoCode == "" {
		return decimal.Zero
	}
	promo, err := s.promoCodes.GetByCode(ctx, promoCode)
	if err != nil || promo.RemainingUses <= 0 {
		return decimal.Zero
	}
	return promo.DiscountAmount
}

// ReservePromoUse consumes one use of promoCode and records the order's
// application of it. It fails if the code is unknown or exhausted.
func (s *DiscountsService) ReservePromoUse(ctx context.Context, tx *gorm.DB, orderID uint, promoCode string) error {
	if err := s.promoCodes.ConsumeUse(ctx, tx, promoCode); err != nil {
		return err
	}
	return s.applications.Create(ctx, tx, &entity.PromoApplication{
		OrderID: orderID,
		Code:    promoCode,
	})
}

// ReleasePromoUse restores the use consumed by ReservePromoUse. It is a
// no-op, not an error, when the promo code no longer exists.
func (s *DiscountsService) ReleasePromoUse(ctx context.Context, tx *gorm.DB, orderID uint, promoCode string) error {
	if err := s.promoCodes.RestoreUse(ctx, tx, promoCode); err != nil {
		if errors.Is(err, repo.ErrPromoCodeNotFound) {
			return nil
		}
		return err
	}
	return s.applications.Cancel(ctx, tx, orderID, promoCode)
}

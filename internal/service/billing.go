package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/director74/ordersaga/internal/entity"
	"github.com/director74/ordersaga/internal/repo"
)

// BillingService charges and refunds user balances.
type BillingService struct {
	users    repo.UserRepository
	payments repo.PaymentRepository
}

func NewBillingService(users repo.UserRepository, payments repo.PaymentRepository) *BillingService {
	return &BillingService{users: users, payments: payments}
}

// ChargeUserBalance decrements userID's balance by amount and records the
// charge. It fails when the user is unknown or the balance is insufficient.
func (s *BillingService) ChargeUserBalance(ctx context.Context, tx *gorm.DB, orderID, userID uint, amount decimal.Decimal) error {
	if err := s.users.Charge(ctx, tx, userID, amount); err != nil {
		return err
	}
	return s.payments.Create(ctx, tx, &entity.Payment{
		OrderID: orderID,
		UserID:  userID,
		Amount:  amount,
	})
}

// RefundPayment restores the balance charged by ChargeUserBalance. It is a
// no-op, not an error, when the user no longer exists.
func (s *BillingService) RefundPayment(ctx context.Context, tx *gorm.DB, orderID, userID uint, amount decimal.Decimal) error {
	if err := s.users.Refund(ctx, tx, userID, amount); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil
		}
		return err
	}
	return s.payments.Refund(ctx, tx, orderID, userID)
}

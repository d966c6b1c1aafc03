package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/director74/ordersaga/internal/entity"
)

// PaymentRepository persists charges against user balances.
type PaymentRepository interface {
	Create(ctx context.Context, db *gorm.DB, payment *entity.Payment) error
	Refund(ctx context.Context, db *gorm.DB, orderID, userID uint) error
}

type PaymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{db: db}
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, db *gorm.DB, payment *entity.Payment) error {
	payment.Status = entity.PaymentCharged
	return db.WithContext(ctx).Create(payment).Error
}

func (r *PaymentRepositoryImpl) Refund(ctx context.Context, db *gorm.DB, orderID, userID uint) error {
	return db.WithContext(ctx).Model(&entity.Payment{}).
		Where("order_id = ? AND user_id = ? AND status = ?", orderID, userID, entity.PaymentCharged).
		Update("status", entity.PaymentRefunded).Error
}

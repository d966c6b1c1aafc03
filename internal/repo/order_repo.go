package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/director74/ordersaga/internal/entity"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uint) (*entity.Order, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, orderID uint, status entity.OrderStatus) error
}

type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepositoryImpl) GetByID(ctx context.Context, id uint) (*entity.Order, error) {
	var order entity.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) UpdateStatus(ctx context.Context, db *gorm.DB, orderID uint, status entity.OrderStatus) error {
	result := db.WithContext(ctx).Model(&entity.Order{}).Where("id = ?", orderID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

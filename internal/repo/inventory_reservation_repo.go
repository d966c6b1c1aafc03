package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/director74/ordersaga/internal/entity"
)

// InventoryReservationRepository persists which order holds stock for which SKU.
type InventoryReservationRepository interface {
	Create(ctx context.Context, db *gorm.DB, reservation *entity.InventoryReservation) error
	Release(ctx context.Context, db *gorm.DB, orderID uint, sku string) error
}

type InventoryReservationRepositoryImpl struct {
	db *gorm.DB
}

func NewInventoryReservationRepository(db *gorm.DB) InventoryReservationRepository {
	return &InventoryReservationRepositoryImpl{db: db}
}

func (r *InventoryReservationRepositoryImpl) Create(ctx context.Context, db *gorm.DB, reservation *entity.InventoryReservation) error {
	reservation.Status = entity.InventoryReservationReserved
	return db.WithContext(ctx).Create(reservation).Error
}

func (r *InventoryReservationRepositoryImpl) Release(ctx context.Context, db *gorm.DB, orderID uint, sku string) error {
	return db.WithContext(ctx).Model(&entity.InventoryReservation{}).
		Where("order_id = ? AND sku = ? AND status = ?", orderID, sku, entity.InventoryReservationReserved).
		Update("status", entity.InventoryReservationReleased).Error
}

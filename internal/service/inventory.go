package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/director74/ordersaga/internal/entity"
	"github.com/director74/ordersaga/internal/repo"
)

// InventoryService holds and releases stock for orders.
type InventoryService struct {
	items        repo.InventoryItemRepository
	reservations repo.InventoryReservationRepository
}

func NewInventoryService(items repo.InventoryItemRepository, reservations repo.InventoryReservationRepository) *InventoryService {
	return &InventoryService{items: items, reservations: reservations}
}

// ReserveInventory decrements on-hand stock for sku and records the hold.
// It fails when the SKU is unknown or on-hand stock is below qty.
func (s *InventoryService) ReserveInventory(ctx context.Context, tx *gorm.DB, orderID uint, sku string, qty int) error {
	if err := s.items.Decrement(ctx, tx, sku, qty); err != nil {
		return err
	}
	return s.reservations.Create(ctx, tx, &entity.InventoryReservation{
		OrderID: orderID,
		SKU:     sku,
		Qty:     qty,
	})
}

// ReleaseInventory restores the stock held by ReserveInventory. It is a
// no-op, not an error, when the SKU no longer exists.
func (s *InventoryService) ReleaseInventory(ctx context.Context, tx *gorm.DB, orderID uint, sku string, qty int) error {
	if err := s.items.Increment(ctx, tx, sku, qty); err != nil {
		if errors.Is(err, repo.ErrInventoryItemNotFound) {
			return nil
		}
		return err
	}
	return s.reservations.Release(ctx, tx, orderID, sku)
}

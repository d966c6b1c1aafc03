package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/director74/ordersaga/internal/entity"
)

var ErrInventoryItemNotFound = errors.New("inventory item not found")

var ErrInsufficientStock = errors.New("insufficient stock")

// InventoryItemRepository persists stocked SKUs.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error)
	// Decrement atomically reduces on_hand by qty, but only if the SKU
	// would not go negative.
	Decrement(ctx context.Context, db *gorm.DB, sku string, qty int) error
	// Increment atomically restores on_hand by qty.
	Increment(ctx context.Context, db *gorm.DB, sku string, qty int) error
}

type InventoryItemRepositoryImpl struct {
	db *gorm.DB
}

func NewInventoryItemRepository(db *gorm.DB) InventoryItemRepository {
	return &InventoryItemRepositoryImpl{db: db}
}

func (r *InventoryItemRepositoryImpl) Create(ctx context.Context, item *entity.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *InventoryItemRepositoryImpl) GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *InventoryItemRepositoryImpl) Decrement(ctx context.Context, db *gorm.DB, sku string, qty int) error {
	var item entity.InventoryItem
	if err := db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInventoryItemNotFound
		}
		return err
	}

	if item.OnHand < qty {
		return ErrInsufficientStock
	}

	result := db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Where("sku = ? AND on_hand >= ?", sku, qty).
		Update("on_hand", gorm.Expr("on_hand - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *InventoryItemRepositoryImpl) Increment(ctx context.Context, db *gorm.DB, sku string, qty int) error {
	result := db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Where("sku = ?", sku).
		Update("on_hand", gorm.Expr("on_hand + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInventoryItemNotFound
	}
	return nil
}

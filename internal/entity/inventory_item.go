package entity

import "github.com/shopspring/decimal"

// InventoryItem is a stocked SKU. OnHand is decremented by ReserveInventory
// and must never go negative.
type InventoryItem struct {
	SKU    string          `gorm:"primaryKey;size:50"`
	Name   string          `gorm:"size:200;not null"`
	Price  decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	OnHand int             `gorm:"not null;default:0"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

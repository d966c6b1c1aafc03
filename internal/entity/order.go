package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus is the terminal-or-not status of an order. PENDING is the only
// non-terminal value; CONFIRMED and FAILED never revert once set.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

// Order is the unit the saga drives to a terminal status. FinalAmount is
// always BaseAmount minus DiscountAmount; Metadata is intake-supplied request
// context that carries no saga semantics.
type Order struct {
	ID             uint              `gorm:"primaryKey"`
	UserID         uint              `gorm:"not null;index"`
	SKU            string            `gorm:"not null;size:50"`
	Qty            int               `gorm:"not null"`
	PromoCode      *string           `gorm:"size:50"`
	BaseAmount     decimal.Decimal   `gorm:"type:numeric(15,2);not null"`
	DiscountAmount decimal.Decimal   `gorm:"type:numeric(15,2);not null"`
	FinalAmount    decimal.Decimal   `gorm:"type:numeric(15,2);not null"`
	Status         OrderStatus       `gorm:"not null;size:20;default:PENDING"`
	Metadata       datatypes.JSONMap `gorm:"default:'{}'"`
	CreatedAt      time.Time         `gorm:"not null"`
}

func (Order) TableName() string {
	return "orders"
}

package entity

import "github.com/shopspring/decimal"

// PaymentStatus tracks whether a charge on an order is live.
type PaymentStatus string

const (
	PaymentCharged  PaymentStatus = "CHARGED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Payment records one charge of a user's balance for an order. At most one
// CHARGED row exists per (order, user) pair at any time.
type Payment struct {
	ID      uint            `gorm:"primaryKey"`
	OrderID uint            `gorm:"not null;index"`
	UserID  uint            `gorm:"not null;index"`
	Amount  decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	Status  PaymentStatus   `gorm:"not null;size:20"`
}

func (Payment) TableName() string {
	return "payments"
}

package entity

import "github.com/shopspring/decimal"

// User is a wallet holder. Balance is charged and refunded by the billing
// resource service and must never go negative.
type User struct {
	ID      uint            `gorm:"primaryKey"`
	Name    string          `gorm:"size:100;not null"`
	Balance decimal.Decimal `gorm:"type:numeric(15,2);not null"`
}

// TableName keeps the table name stable regardless of struct renames.
func (User) TableName() string {
	return "users"
}

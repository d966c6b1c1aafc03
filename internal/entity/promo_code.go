package entity

import "github.com/shopspring/decimal"

// PromoCode grants a fixed discount while RemainingUses is positive.
type PromoCode struct {
	Code           string          `gorm:"primaryKey;size:50"`
	RemainingUses  int             `gorm:"not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(15,2);not null"`
}

func (PromoCode) TableName() string {
	return "promo_codes"
}

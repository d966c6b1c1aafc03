package entity

// PromoApplicationStatus tracks whether a promo usage on an order is live.
type PromoApplicationStatus string

const (
	PromoApplicationApplied   PromoApplicationStatus = "APPLIED"
	PromoApplicationCancelled PromoApplicationStatus = "CANCELLED"
)

// PromoApplication records one order's use of one promo code. At most one
// APPLIED row exists per (order, code) pair at any time.
type PromoApplication struct {
	ID      uint                   `gorm:"primaryKey"`
	OrderID uint                   `gorm:"not null;index"`
	Code    string                 `gorm:"not null;size:50"`
	Status  PromoApplicationStatus `gorm:"not null;size:20"`
}

func (PromoApplication) TableName() string {
	return "promo_applications"
}

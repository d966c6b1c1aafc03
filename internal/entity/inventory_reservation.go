package entity

// InventoryReservationStatus tracks whether a stock hold on an order is live.
type InventoryReservationStatus string

const (
	InventoryReservationReserved InventoryReservationStatus = "RESERVED"
	InventoryReservationReleased InventoryReservationStatus = "RELEASED"
)

// InventoryReservation records one order's hold on stock for one SKU. At most
// one RESERVED row exists per (order, sku) pair at any time.
type InventoryReservation struct {
	ID      uint                       `gorm:"primaryKey"`
	OrderID uint                       `gorm:"not null;index"`
	SKU     string                     `gorm:"not null;size:50"`
	Qty     int                        `gorm:"not null"`
	Status  InventoryReservationStatus `gorm:"not null;size:20"`
}

func (InventoryReservation) TableName() string {
	return "inventory_reservations"
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is an immutable snapshot of a purchased product line. The vendor
// id is denormalized so payout fan-out never needs a product join.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	VendorID  uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`

	Name             string `gorm:"column:name;not null"`
	SKU              string `gorm:"column:sku;not null"`
	Quantity         int    `gorm:"column:quantity;not null"`
	UnitPricePesewas int64  `gorm:"column:unit_price_pesewas;not null"`
	TotalPesewas     int64  `gorm:"column:total_pesewas;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

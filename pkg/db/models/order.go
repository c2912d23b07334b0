package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// Order is a customer purchase spanning one or more vendors. Monetary fields
// are in pesewas; Total = Subtotal + TaxPesewas + DeliveryFeePesewas.
type Order struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string     `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID  *uuid.UUID `gorm:"column:customer_id;type:uuid;index"`

	Email string  `gorm:"column:email;not null"`
	Phone *string `gorm:"column:phone"`

	SubtotalPesewas    int64          `gorm:"column:subtotal_pesewas;not null"`
	TaxPesewas         int64          `gorm:"column:tax_pesewas;not null;default:0"`
	DeliveryFeePesewas int64          `gorm:"column:delivery_fee_pesewas;not null;default:0"`
	TotalPesewas       int64          `gorm:"column:total_pesewas;not null"`
	Currency           enums.Currency `gorm:"column:currency;type:text;not null;default:'GHS'"`

	Status        enums.OrderStatus        `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus enums.OrderPaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`

	DeliveryRegion   string          `gorm:"column:delivery_region;not null"`
	DeliveryAddress  json.RawMessage `gorm:"column:delivery_address;type:jsonb"`
	PaymentReference *string         `gorm:"column:payment_reference;index"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

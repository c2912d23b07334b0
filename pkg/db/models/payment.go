package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// Payment records a gateway transaction. Reference is the unique join key
// between webhook deliveries and local state; rows are never deleted.
type Payment struct {
	ID      uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID *uuid.UUID `gorm:"column:order_id;type:uuid;index"`

	Reference            string  `gorm:"column:reference;not null;uniqueIndex"`
	GatewayTransactionID *string `gorm:"column:gateway_transaction_id"`

	AmountPesewas int64               `gorm:"column:amount_pesewas;not null"`
	FeesPesewas   int64               `gorm:"column:fees_pesewas;not null;default:0"`
	Currency      enums.Currency      `gorm:"column:currency;type:text;not null;default:'GHS'"`
	Method        enums.PaymentMethod `gorm:"column:method;type:text;not null;default:'card'"`
	MomoProvider  *enums.MomoProvider `gorm:"column:momo_provider;type:text"`

	Status        enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Channel       *string             `gorm:"column:channel"`
	Email         string              `gorm:"column:email;not null"`
	FailureReason *string             `gorm:"column:failure_reason"`

	RefundProcessed bool       `gorm:"column:refund_processed;not null;default:false"`
	RefundedAt      *time.Time `gorm:"column:refunded_at"`
	PaidAt          *time.Time `gorm:"column:paid_at"`

	Authorization   json.RawMessage `gorm:"column:authorization;type:jsonb"`
	GatewayResponse json.RawMessage `gorm:"column:gateway_response;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

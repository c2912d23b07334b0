package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// InitializeInput starts a hosted checkout for an order.
type InitializeInput struct {
	OrderID  uuid.UUID `json:"order_id" validate:"required"`
	Email    string    `json:"email" validate:"required,email"`
	Channels []string  `json:"channels,omitempty"`
}

// InitializeResult carries the hosted checkout session back to the caller.
type InitializeResult struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	AmountPesewas    int64  `json:"amount_pesewas"`
}

// MomoInput starts a direct mobile money charge for an order.
type MomoInput struct {
	OrderID  uuid.UUID `json:"order_id" validate:"required"`
	Email    string    `json:"email" validate:"required,email"`
	Phone    string    `json:"phone" validate:"required,ghana_phone"`
	Provider string    `json:"provider" validate:"required,momo_provider"`
}

// MomoResult tells the caller how to approve the charge on their handset.
type MomoResult struct {
	Reference     string             `json:"reference"`
	Status        string             `json:"status"`
	DisplayText   string             `json:"display_text"`
	Instructions  string             `json:"instructions"`
	Provider      enums.MomoProvider `json:"provider"`
	AmountPesewas int64              `json:"amount_pesewas"`
}

// RefundInput carries the admin's reason for a gateway refund.
type RefundInput struct {
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

// RefundResult is the gateway's acknowledgement of a refund request. The
// payment itself stays untouched until refund.processed is delivered.
type RefundResult struct {
	Reference     string `json:"reference"`
	RefundID      int64  `json:"refund_id"`
	Status        string `json:"status"`
	AmountPesewas int64  `json:"amount_pesewas"`
}

// PaymentDTO is the JSON projection of a payment row.
type PaymentDTO struct {
	ID            uuid.UUID           `json:"id"`
	OrderID       *uuid.UUID          `json:"order_id,omitempty"`
	Reference     string              `json:"reference"`
	AmountPesewas int64               `json:"amount_pesewas"`
	FeesPesewas   int64               `json:"fees_pesewas"`
	Currency      enums.Currency      `json:"currency"`
	Method        enums.PaymentMethod `json:"method"`
	MomoProvider  *enums.MomoProvider `json:"momo_provider,omitempty"`
	Status        enums.PaymentStatus `json:"status"`
	Channel       *string             `json:"channel,omitempty"`
	Email         string              `json:"email"`
	FailureReason *string             `json:"failure_reason,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// FromModel projects a payment row into its JSON shape.
func FromModel(p *models.Payment) *PaymentDTO {
	return &PaymentDTO{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Reference:     p.Reference,
		AmountPesewas: p.AmountPesewas,
		FeesPesewas:   p.FeesPesewas,
		Currency:      p.Currency,
		Method:        p.Method,
		MomoProvider:  p.MomoProvider,
		Status:        p.Status,
		Channel:       p.Channel,
		Email:         p.Email,
		FailureReason: p.FailureReason,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
	}
}

// VerifyResult is the reconciled local payment state after a gateway check.
type VerifyResult struct {
	Reference     string              `json:"reference"`
	Status        enums.PaymentStatus `json:"status"`
	AmountPesewas int64               `json:"amount_pesewas"`
	FeesPesewas   int64               `json:"fees_pesewas"`
	Channel       *string             `json:"channel,omitempty"`
	PaidAt        *string             `json:"paid_at,omitempty"`
	OrderID       *uuid.UUID          `json:"order_id,omitempty"`
}

package payouts

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// PayoutDTO is the JSON projection of a vendor payout row.
type PayoutDTO struct {
	ID                uuid.UUID          `json:"id"`
	VendorID          uuid.UUID          `json:"vendor_id"`
	OrderID           uuid.UUID          `json:"order_id"`
	PaymentReference  string             `json:"payment_reference"`
	Reference         string             `json:"reference"`
	GrossPesewas      int64              `json:"gross_pesewas"`
	CommissionPesewas int64              `json:"commission_pesewas"`
	NetPesewas        int64              `json:"net_pesewas"`
	Currency          enums.Currency     `json:"currency"`
	Status            enums.PayoutStatus `json:"status"`
	TransferCode      *string            `json:"transfer_code,omitempty"`
	FailureReason     *string            `json:"failure_reason,omitempty"`
	CompletedAt       *time.Time         `json:"completed_at,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// FromModel projects a payout row into its JSON shape.
func FromModel(p *models.VendorPayout) *PayoutDTO {
	return &PayoutDTO{
		ID:                p.ID,
		VendorID:          p.VendorID,
		OrderID:           p.OrderID,
		PaymentReference:  p.PaymentReference,
		Reference:         p.Reference,
		GrossPesewas:      p.GrossPesewas,
		CommissionPesewas: p.CommissionPesewas,
		NetPesewas:        p.NetPesewas,
		Currency:          p.Currency,
		Status:            p.Status,
		TransferCode:      p.TransferCode,
		FailureReason:     p.FailureReason,
		CompletedAt:       p.CompletedAt,
		CreatedAt:         p.CreatedAt,
	}
}

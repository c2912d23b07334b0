package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/ghbuys/marketplace-backend/pkg/db/types"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// VendorPayout is one vendor's share of a successful payment.
// GrossPesewas = CommissionPesewas + NetPesewas holds exactly. The derived
// Reference (payout_<payment reference>_<vendor id>) is unique so duplicate
// webhook deliveries cannot double-credit a vendor.
type VendorPayout struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`
	OrderID  uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`

	PaymentReference string `gorm:"column:payment_reference;not null;index"`
	Reference        string `gorm:"column:reference;not null;uniqueIndex"`

	GrossPesewas      int64          `gorm:"column:gross_pesewas;not null"`
	CommissionPesewas int64          `gorm:"column:commission_pesewas;not null"`
	NetPesewas        int64          `gorm:"column:net_pesewas;not null"`
	Currency          enums.Currency `gorm:"column:currency;type:text;not null;default:'GHS'"`

	ItemIDs dbtypes.UUIDArray `gorm:"column:item_ids;type:uuid[]"`

	Status        enums.PayoutStatus `gorm:"column:status;type:text;not null;default:'queued'"`
	TransferCode  *string            `gorm:"column:transfer_code"`
	FailureReason *string            `gorm:"column:failure_reason"`
	CompletedAt   *time.Time         `gorm:"column:completed_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// Vendor represents a marketplace seller. A vendor is created in pending
// review and only becomes visible to buyers once an admin approves it.
type Vendor struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Handle      string    `gorm:"column:handle;not null;uniqueIndex"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Phone       string    `gorm:"column:phone;not null"`
	Email       string    `gorm:"column:email;not null;uniqueIndex"`

	BusinessRegistration *string `gorm:"column:business_registration"`
	TaxIdentification    *string `gorm:"column:tax_identification"`
	VATNumber            *string `gorm:"column:vat_number"`

	Region       string  `gorm:"column:region;not null"`
	City         string  `gorm:"column:city;not null"`
	Address      string  `gorm:"column:address;not null"`
	GhanaPostGPS *string `gorm:"column:ghana_post_gps"`

	PrimaryCategory     string         `gorm:"column:primary_category;not null"`
	SecondaryCategories pq.StringArray `gorm:"column:secondary_categories;type:text[]"`
	DeliveryZones       pq.StringArray `gorm:"column:delivery_zones;type:text[]"`

	BankName          *string             `gorm:"column:bank_name"`
	BankAccountNumber *string             `gorm:"column:bank_account_number"`
	BankAccountName   *string             `gorm:"column:bank_account_name"`
	MomoNumber        *string             `gorm:"column:momo_number"`
	MomoProvider      *enums.MomoProvider `gorm:"column:momo_provider;type:text"`

	VerificationStatus enums.VendorVerificationStatus `gorm:"column:verification_status;type:text;not null;default:'pending'"`
	VerificationNotes  *string                        `gorm:"column:verification_notes"`
	IsVerified         bool                           `gorm:"column:is_verified;not null;default:false"`
	IsActive           bool                           `gorm:"column:is_active;not null;default:false"`
	VerifiedAt         *time.Time                     `gorm:"column:verified_at"`

	Rating            float64 `gorm:"column:rating;not null;default:0"`
	RatingCount       int     `gorm:"column:rating_count;not null;default:0"`
	TotalSalesPesewas int64   `gorm:"column:total_sales_pesewas;not null;default:0"`
	TotalOrders       int     `gorm:"column:total_orders;not null;default:0"`
	CommissionRateBPS int     `gorm:"column:commission_rate_bps;not null;default:500"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

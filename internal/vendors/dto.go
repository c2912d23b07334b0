package vendors

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// ContactPerson identifies who operates the vendor account day to day.
type ContactPerson struct {
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,ghana_phone"`
	Role      string `json:"role"`
}

// RegisterInput is the vendor application payload.
type RegisterInput struct {
	Name          string  `json:"name" validate:"required,min=2"`
	Description   *string `json:"description,omitempty" validate:"omitempty,min=10"`
	BusinessEmail string  `json:"business_email" validate:"required,email"`
	BusinessPhone string  `json:"business_phone" validate:"required,ghana_phone"`

	Region       string  `json:"region" validate:"required,ghana_region"`
	City         string  `json:"city" validate:"required,min=2"`
	Address      string  `json:"address" validate:"required,min=5"`
	GhanaPostGPS *string `json:"gps_coordinates,omitempty" validate:"omitempty,ghana_gps"`

	PrimaryCategory     string   `json:"primary_category" validate:"required,ghana_category"`
	SecondaryCategories []string `json:"secondary_categories,omitempty"`

	BusinessRegistration string  `json:"ghana_business_registration" validate:"required,min=5"`
	TaxIdentification    *string `json:"tin_number,omitempty" validate:"omitempty,min=10"`
	VATNumber            *string `json:"vat_number,omitempty"`

	BankName          string  `json:"bank_name" validate:"required,min=2"`
	BankAccountNumber string  `json:"account_number" validate:"required,min=10"`
	BankAccountName   string  `json:"account_name" validate:"required,min=2"`
	MomoNumber        *string `json:"mobile_money_number,omitempty" validate:"omitempty,ghana_phone"`
	MomoProvider      *string `json:"mobile_money_provider,omitempty" validate:"omitempty,momo_provider"`

	DeliveryZones []string `json:"delivery_zones" validate:"required,min=1,dive,ghana_region"`

	ContactPerson ContactPerson `json:"contact_person" validate:"required"`

	TermsAccepted   bool `json:"terms_accepted" validate:"required,eq=true"`
	PrivacyAccepted bool `json:"privacy_accepted" validate:"required,eq=true"`
}

// VendorSummary is the public projection returned from registration and reads.
type VendorSummary struct {
	ID                 uuid.UUID                      `json:"id"`
	Handle             string                         `json:"handle"`
	Name               string                         `json:"name"`
	VerificationStatus enums.VendorVerificationStatus `json:"verification_status"`
	Region             string                         `json:"region"`
	City               string                         `json:"city"`
	PrimaryCategory    string                         `json:"primary_category"`
}

// RegisterResult captures the application outcome surfaced to the applicant.
type RegisterResult struct {
	Vendor    VendorSummary `json:"vendor"`
	NextSteps []string      `json:"next_steps"`
}

// VerifyInput is an admin decision on a pending vendor application.
type VerifyInput struct {
	VendorID     uuid.UUID
	Status       enums.VendorVerificationStatus
	Notes        string
	Requirements []string
	ActorUserID  uuid.UUID
}

// VerifyResult reflects the vendor state after an admin decision.
type VerifyResult struct {
	ID                 uuid.UUID                      `json:"id"`
	Name               string                         `json:"name"`
	VerificationStatus enums.VendorVerificationStatus `json:"verification_status"`
	IsVerified         bool                           `json:"is_verified"`
	VerifiedAt         *time.Time                     `json:"verified_at,omitempty"`
}

// SummaryOf projects a vendor row into its public shape.
func SummaryOf(v *models.Vendor) VendorSummary {
	return VendorSummary{
		ID:                 v.ID,
		Handle:             v.Handle,
		Name:               v.Name,
		VerificationStatus: v.VerificationStatus,
		Region:             v.Region,
		City:               v.City,
		PrimaryCategory:    v.PrimaryCategory,
	}
}

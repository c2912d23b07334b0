package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// Product is a vendor catalog entry. Prices are in pesewas.
type Product struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID     uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null;index"`
	Name         string              `gorm:"column:name;not null"`
	Slug         string              `gorm:"column:slug;not null;uniqueIndex"`
	Description  *string             `gorm:"column:description"`
	Category     string              `gorm:"column:category;not null;index"`
	Subcategory  *string             `gorm:"column:subcategory"`
	SKU          string              `gorm:"column:sku;not null"`
	PricePesewas int64               `gorm:"column:price_pesewas;not null"`
	Currency     enums.Currency      `gorm:"column:currency;type:text;not null;default:'GHS'"`
	Inventory    int                 `gorm:"column:inventory;not null;default:0"`
	Status       enums.ProductStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// CreateInput is the vendor payload for a new catalog listing.
type CreateInput struct {
	Name         string  `json:"name" validate:"required,min=2,max=160"`
	Description  *string `json:"description,omitempty" validate:"omitempty,min=10"`
	Category     string  `json:"category" validate:"required,ghana_category"`
	Subcategory  *string `json:"subcategory,omitempty" validate:"omitempty,min=2"`
	SKU          string  `json:"sku" validate:"required,min=2,max=64"`
	PricePesewas int64   `json:"price_pesewas" validate:"required,gt=0"`
	Inventory    int     `json:"inventory" validate:"gte=0"`
	Publish      bool    `json:"publish"`
}

// UpdateInput carries partial edits to an existing listing. Nil fields are
// left untouched.
type UpdateInput struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2,max=160"`
	Description  *string `json:"description,omitempty" validate:"omitempty,min=10"`
	Category     *string `json:"category,omitempty" validate:"omitempty,ghana_category"`
	Subcategory  *string `json:"subcategory,omitempty" validate:"omitempty,min=2"`
	PricePesewas *int64  `json:"price_pesewas,omitempty" validate:"omitempty,gt=0"`
	Inventory    *int    `json:"inventory,omitempty" validate:"omitempty,gte=0"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

// ProductSummary is the catalog projection returned to clients.
type ProductSummary struct {
	ID           uuid.UUID           `json:"id"`
	VendorID     uuid.UUID           `json:"vendor_id"`
	Name         string              `json:"name"`
	Slug         string              `json:"slug"`
	Description  *string             `json:"description,omitempty"`
	Category     string              `json:"category"`
	Subcategory  *string             `json:"subcategory,omitempty"`
	SKU          string              `json:"sku"`
	PricePesewas int64               `json:"price_pesewas"`
	Currency     enums.Currency      `json:"currency"`
	Inventory    int                 `json:"inventory"`
	Status       enums.ProductStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// NewProductSummary projects the persisted model into the API shape.
func NewProductSummary(product *models.Product) ProductSummary {
	return ProductSummary{
		ID:           product.ID,
		VendorID:     product.VendorID,
		Name:         product.Name,
		Slug:         product.Slug,
		Description:  product.Description,
		Category:     product.Category,
		Subcategory:  product.Subcategory,
		SKU:          product.SKU,
		PricePesewas: product.PricePesewas,
		Currency:     product.Currency,
		Inventory:    product.Inventory,
		Status:       product.Status,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

// ProductList is one page of catalog entries plus the cursor for the next page.
type ProductList struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ListFilters describe the supported filter knobs for catalog browsing.
type ListFilters struct {
	VendorID      *uuid.UUID
	Category      string
	Status        *enums.ProductStatus
	PublishedOnly bool
	Query         string
}

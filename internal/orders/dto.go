package orders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// ItemInput is one purchased product line in a create-order request.
type ItemInput struct {
	ProductID        uuid.UUID `json:"product_id" validate:"required"`
	VendorID         uuid.UUID `json:"vendor_id" validate:"required"`
	Name             string    `json:"name" validate:"required"`
	SKU              string    `json:"sku"`
	Quantity         int       `json:"quantity" validate:"required,min=1"`
	UnitPricePesewas int64     `json:"unit_price_pesewas" validate:"required,min=1"`
}

// CreateInput is the create-order request payload. Totals are always computed
// server-side from the items and the delivery region.
type CreateInput struct {
	CustomerID      *uuid.UUID      `json:"-"`
	Email           string          `json:"email" validate:"required,email"`
	Phone           *string         `json:"phone,omitempty" validate:"omitempty,ghana_phone"`
	Items           []ItemInput     `json:"items" validate:"required,min=1,dive"`
	DeliveryRegion  string          `json:"delivery_region" validate:"required,ghana_region"`
	DeliveryAddress json.RawMessage `json:"delivery_address" validate:"required"`
}

// Totals is the server-computed money breakdown for an order.
type Totals struct {
	SubtotalPesewas    int64 `json:"subtotal_pesewas"`
	TaxPesewas         int64 `json:"tax_pesewas"`
	DeliveryFeePesewas int64 `json:"delivery_fee_pesewas"`
	TotalPesewas       int64 `json:"total_pesewas"`
}

// ItemDTO is the JSON projection of one order line.
type ItemDTO struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	VendorID         uuid.UUID `json:"vendor_id"`
	Name             string    `json:"name"`
	SKU              string    `json:"sku,omitempty"`
	Quantity         int       `json:"quantity"`
	UnitPricePesewas int64     `json:"unit_price_pesewas"`
	TotalPesewas     int64     `json:"total_pesewas"`
}

// OrderDTO is the JSON projection of an order with its lines.
type OrderDTO struct {
	ID               uuid.UUID                `json:"id"`
	OrderNumber      string                   `json:"order_number"`
	CustomerID       *uuid.UUID               `json:"customer_id,omitempty"`
	Email            string                   `json:"email"`
	Phone            *string                  `json:"phone,omitempty"`
	Totals           Totals                   `json:"totals"`
	Currency         enums.Currency           `json:"currency"`
	Status           enums.OrderStatus        `json:"status"`
	PaymentStatus    enums.OrderPaymentStatus `json:"payment_status"`
	DeliveryRegion   string                   `json:"delivery_region"`
	DeliveryAddress  json.RawMessage          `json:"delivery_address,omitempty"`
	PaymentReference *string                  `json:"payment_reference,omitempty"`
	Items            []ItemDTO                `json:"items"`
	CreatedAt        time.Time                `json:"created_at"`
}

// FromModel projects an order row into its JSON shape.
func FromModel(order *models.Order) *OrderDTO {
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDTO{
			ID:               item.ID,
			ProductID:        item.ProductID,
			VendorID:         item.VendorID,
			Name:             item.Name,
			SKU:              item.SKU,
			Quantity:         item.Quantity,
			UnitPricePesewas: item.UnitPricePesewas,
			TotalPesewas:     item.TotalPesewas,
		})
	}
	return &OrderDTO{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		Email:       order.Email,
		Phone:       order.Phone,
		Totals: Totals{
			SubtotalPesewas:    order.SubtotalPesewas,
			TaxPesewas:         order.TaxPesewas,
			DeliveryFeePesewas: order.DeliveryFeePesewas,
			TotalPesewas:       order.TotalPesewas,
		},
		Currency:         order.Currency,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		DeliveryRegion:   order.DeliveryRegion,
		DeliveryAddress:  order.DeliveryAddress,
		PaymentReference: order.PaymentReference,
		Items:            items,
		CreatedAt:        order.CreatedAt,
	}
}

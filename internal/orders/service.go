package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/ghana"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order creation and read operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService wires order dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	region, ok := ghana.RegionByCode(input.DeliveryRegion)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery region")
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	var subtotal int64
	for _, in := range input.Items {
		if in.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if in.UnitPricePesewas <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item unit price must be positive")
		}
		lineTotal := in.UnitPricePesewas * int64(in.Quantity)
		subtotal += lineTotal
		items = append(items, models.OrderItem{
			ProductID:        in.ProductID,
			VendorID:         in.VendorID,
			Name:             in.Name,
			SKU:              in.SKU,
			Quantity:         in.Quantity,
			UnitPricePesewas: in.UnitPricePesewas,
			TotalPesewas:     lineTotal,
		})
	}

	totals := ComputeTotals(subtotal, region.DeliveryFeePesewas)

	order := &models.Order{
		OrderNumber:        NewOrderNumber(),
		CustomerID:         input.CustomerID,
		Email:              input.Email,
		Phone:              input.Phone,
		SubtotalPesewas:    totals.SubtotalPesewas,
		TaxPesewas:         totals.TaxPesewas,
		DeliveryFeePesewas: totals.DeliveryFeePesewas,
		TotalPesewas:       totals.TotalPesewas,
		Currency:           enums.CurrencyGHS,
		Status:             enums.OrderStatusPending,
		PaymentStatus:      enums.OrderPaymentStatusPending,
		DeliveryRegion:     region.Code,
		DeliveryAddress:    input.DeliveryAddress,
		Items:              items,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, order)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// ComputeTotals applies the statutory levies and the regional delivery fee to
// an item subtotal.
func ComputeTotals(subtotalPesewas, deliveryFeePesewas int64) Totals {
	tax := ghana.TotalTax(subtotalPesewas)
	return Totals{
		SubtotalPesewas:    subtotalPesewas,
		TaxPesewas:         tax,
		DeliveryFeePesewas: deliveryFeePesewas,
		TotalPesewas:       subtotalPesewas + tax + deliveryFeePesewas,
	}
}

// NewOrderNumber mints an order number from the current timestamp.
func NewOrderNumber() string {
	return fmt.Sprintf("GHB%d", time.Now().UnixMilli())
}

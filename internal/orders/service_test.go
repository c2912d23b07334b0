package orders

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
)

type stubOrderRepo struct {
	created   *models.Order
	createErr error
	found     *models.Order
	findErr   error
	list      *OrderList
	listErr   error
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = order
	return order, nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.found, nil
}

func (s *stubOrderRepo) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) FindByPaymentReference(ctx context.Context, reference string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.list == nil {
		return &OrderList{}, nil
	}
	return s.list, nil
}

func (s *stubOrderRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func validCreateInput() CreateInput {
	return CreateInput{
		Email:          "kofi@example.com",
		DeliveryRegion: "greater-accra",
		DeliveryAddress: json.RawMessage(
			`{"street":"12 Oxford St","city":"Accra","landmark":"Danquah Circle"}`,
		),
		Items: []ItemInput{
			{
				ProductID:        uuid.New(),
				VendorID:         uuid.New(),
				Name:             "Kente Throw Pillow",
				SKU:              "KTP-001",
				Quantity:         2,
				UnitPricePesewas: 4500,
			},
		},
	}
}

func TestCreateComputesTotalsServerSide(t *testing.T) {
	repo := &stubOrderRepo{}
	svc, err := NewService(repo, passthroughTx{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	order, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if order.SubtotalPesewas != 9000 {
		t.Fatalf("expected subtotal 9000, got %d", order.SubtotalPesewas)
	}
	// 17.5% combined levies on 9000 = 1575
	if order.TaxPesewas != 1575 {
		t.Fatalf("expected tax 1575, got %d", order.TaxPesewas)
	}
	if order.DeliveryFeePesewas != 500 {
		t.Fatalf("expected metro delivery fee 500, got %d", order.DeliveryFeePesewas)
	}
	if order.TotalPesewas != order.SubtotalPesewas+order.TaxPesewas+order.DeliveryFeePesewas {
		t.Fatalf("total %d does not balance", order.TotalPesewas)
	}
	if order.Status != enums.OrderStatusPending || order.PaymentStatus != enums.OrderPaymentStatusPending {
		t.Fatalf("new order must start pending, got %s/%s", order.Status, order.PaymentStatus)
	}
	if order.Currency != enums.CurrencyGHS {
		t.Fatalf("expected GHS, got %s", order.Currency)
	}
}

func TestCreateUsesRegionalDeliveryFee(t *testing.T) {
	repo := &stubOrderRepo{}
	svc, _ := NewService(repo, passthroughTx{})

	input := validCreateInput()
	input.DeliveryRegion = "ashanti"
	order, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.DeliveryFeePesewas != 1000 {
		t.Fatalf("expected regional delivery fee 1000, got %d", order.DeliveryFeePesewas)
	}
}

func TestCreateRejectsUnknownRegion(t *testing.T) {
	svc, _ := NewService(&stubOrderRepo{}, passthroughTx{})

	input := validCreateInput()
	input.DeliveryRegion = "atlantis"
	_, err := svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsEmptyAndInvalidItems(t *testing.T) {
	svc, _ := NewService(&stubOrderRepo{}, passthroughTx{})

	input := validCreateInput()
	input.Items = nil
	if _, err := svc.Create(context.Background(), input); err == nil {
		t.Fatal("expected error for empty items")
	}

	input = validCreateInput()
	input.Items[0].Quantity = 0
	if _, err := svc.Create(context.Background(), input); err == nil {
		t.Fatal("expected error for zero quantity")
	}

	input = validCreateInput()
	input.Items[0].UnitPricePesewas = -5
	if _, err := svc.Create(context.Background(), input); err == nil {
		t.Fatal("expected error for negative unit price")
	}
}

func TestCreateSetsLineTotals(t *testing.T) {
	repo := &stubOrderRepo{}
	svc, _ := NewService(repo, passthroughTx{})

	input := validCreateInput()
	input.Items = append(input.Items, ItemInput{
		ProductID:        uuid.New(),
		VendorID:         uuid.New(),
		Name:             "Shea Butter 500g",
		Quantity:         3,
		UnitPricePesewas: 1000,
	})

	order, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	for _, item := range order.Items {
		if item.TotalPesewas != item.UnitPricePesewas*int64(item.Quantity) {
			t.Fatalf("item %s line total does not balance", item.Name)
		}
	}
}

func TestGetRejectsNilID(t *testing.T) {
	svc, _ := NewService(&stubOrderRepo{}, passthroughTx{})

	_, err := svc.Get(context.Background(), uuid.Nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetMapsMissingOrderToNotFound(t *testing.T) {
	svc, _ := NewService(&stubOrderRepo{}, passthroughTx{})

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestComputeTotalsRoundsTaxHalfUp(t *testing.T) {
	cases := []struct {
		subtotal int64
		wantTax  int64
	}{
		{subtotal: 10000, wantTax: 1750},
		{subtotal: 100, wantTax: 18},   // 17.5 rounds up
		{subtotal: 1, wantTax: 0},      // 0.175 rounds down
		{subtotal: 3, wantTax: 1},      // 0.525 rounds up
		{subtotal: 0, wantTax: 0},
	}
	for _, tc := range cases {
		totals := ComputeTotals(tc.subtotal, 500)
		if totals.TaxPesewas != tc.wantTax {
			t.Fatalf("subtotal %d: expected tax %d, got %d", tc.subtotal, tc.wantTax, totals.TaxPesewas)
		}
		if totals.TotalPesewas != tc.subtotal+tc.wantTax+500 {
			t.Fatalf("subtotal %d: total does not balance", tc.subtotal)
		}
	}
}

func TestNewOrderNumberFormat(t *testing.T) {
	number := NewOrderNumber()
	if !strings.HasPrefix(number, "GHB") {
		t.Fatalf("expected GHB prefix, got %q", number)
	}
	if len(number) <= 3 {
		t.Fatalf("expected timestamp suffix, got %q", number)
	}
}

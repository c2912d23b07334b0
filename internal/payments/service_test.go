package payments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghbuys/marketplace-backend/internal/orders"
	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
	"github.com/ghbuys/marketplace-backend/pkg/paystack"
)

type stubPaymentRepo struct {
	created     *models.Payment
	byReference map[string]*models.Payment
	updates     map[uuid.UUID]map[string]any
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{
		byReference: map[string]*models.Payment{},
		updates:     map[uuid.UUID]map[string]any{},
	}
}

func (s *stubPaymentRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPaymentRepo) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	s.created = payment
	s.byReference[payment.Reference] = payment
	return payment, nil
}

func (s *stubPaymentRepo) FindByReference(ctx context.Context, reference string) (*models.Payment, error) {
	payment, ok := s.byReference[reference]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return payment, nil
}

func (s *stubPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPaymentRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) (*PaymentList, error) {
	return &PaymentList{}, nil
}

func (s *stubPaymentRepo) FindStalePendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Payment, error) {
	return nil, nil
}

func (s *stubPaymentRepo) SuccessfulTotals(ctx context.Context) (int64, int64, error) {
	return 0, 0, nil
}

func (s *stubPaymentRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates[id] = updates
	payment := s.byReference[s.findReference(id)]
	if payment != nil {
		if status, ok := updates["status"].(enums.PaymentStatus); ok {
			payment.Status = status
		}
	}
	return nil
}

func (s *stubPaymentRepo) findReference(id uuid.UUID) string {
	for ref, payment := range s.byReference {
		if payment.ID == id {
			return ref
		}
	}
	return ""
}

type stubOrdersRepo struct {
	orders  map[uuid.UUID]*models.Order
	updates map[uuid.UUID]map[string]any
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders:  map[uuid.UUID]*models.Order{},
		updates: map[uuid.UUID]map[string]any{},
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrdersRepo) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindByPaymentReference(ctx context.Context, reference string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) List(ctx context.Context, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates[id] = updates
	return nil
}

type stubChargeGateway struct {
	session     *paystack.InitializedTransaction
	charge      *paystack.MomoCharge
	lastInit    *paystack.InitializeParams
	lastCharge  *paystack.MomoChargeParams
	transaction *paystack.Transaction
	verifyCalls int
	lastRefund  *paystack.RefundParams
	refundErr   error
}

func (s *stubChargeGateway) InitializeTransaction(ctx context.Context, params paystack.InitializeParams) (*paystack.InitializedTransaction, error) {
	s.lastInit = &params
	if s.session == nil {
		return &paystack.InitializedTransaction{Reference: "pay_test", AuthorizationURL: "https://checkout.test/pay_test", AccessCode: "AC_test"}, nil
	}
	return s.session, nil
}

func (s *stubChargeGateway) ChargeMobileMoney(ctx context.Context, params paystack.MomoChargeParams) (*paystack.MomoCharge, error) {
	s.lastCharge = &params
	if s.charge == nil {
		return &paystack.MomoCharge{Reference: "momo_test", Status: "pay_offline"}, nil
	}
	return s.charge, nil
}

func (s *stubChargeGateway) VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error) {
	s.verifyCalls++
	if s.transaction == nil {
		return &paystack.Transaction{Reference: reference, Status: "pending"}, nil
	}
	return s.transaction, nil
}

func (s *stubChargeGateway) CreateRefund(ctx context.Context, params paystack.RefundParams) (*paystack.Refund, error) {
	s.lastRefund = &params
	if s.refundErr != nil {
		return nil, s.refundErr
	}
	return &paystack.Refund{ID: 311, Status: "pending", Amount: 11575, Transaction: params.Transaction}, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newPaymentService(t *testing.T, repo Repository, orderRepo orders.Repository, gw gateway) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:              repo,
		Orders:            orderRepo,
		Gateway:           gw,
		TransactionRunner: passthroughTx{},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func payableOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "GHB1700000000000",
		TotalPesewas:  11575,
		Currency:      enums.CurrencyGHS,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.OrderPaymentStatusPending,
	}
}

func TestInitializeChargesOrderTotal(t *testing.T) {
	repo := newStubPaymentRepo()
	orderRepo := newStubOrdersRepo()
	gw := &stubChargeGateway{}
	svc := newPaymentService(t, repo, orderRepo, gw)

	order := payableOrder()
	orderRepo.orders[order.ID] = order

	result, err := svc.Initialize(context.Background(), InitializeInput{
		OrderID: order.ID,
		Email:   "ama@example.com",
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if gw.lastInit.Amount != order.TotalPesewas {
		t.Fatalf("gateway must charge the order total, got %d", gw.lastInit.Amount)
	}
	if gw.lastInit.Metadata["order_id"] != order.ID.String() {
		t.Fatalf("expected order id in metadata, got %v", gw.lastInit.Metadata["order_id"])
	}
	if result.Reference != "pay_test" || result.AuthorizationURL == "" {
		t.Fatalf("unexpected session: %+v", result)
	}
	if repo.created.Status != enums.PaymentStatusPending {
		t.Fatalf("expected pending payment, got %s", repo.created.Status)
	}
	if orderRepo.updates[order.ID]["payment_reference"] != "pay_test" {
		t.Fatalf("order must carry the payment reference, got %v", orderRepo.updates[order.ID])
	}
}

func TestInitializeRejectsPaidOrder(t *testing.T) {
	repo := newStubPaymentRepo()
	orderRepo := newStubOrdersRepo()
	svc := newPaymentService(t, repo, orderRepo, &stubChargeGateway{})

	order := payableOrder()
	order.PaymentStatus = enums.OrderPaymentStatusPaid
	orderRepo.orders[order.ID] = order

	_, err := svc.Initialize(context.Background(), InitializeInput{OrderID: order.ID, Email: "a@b.com"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestInitializeMomoNormalizesPhone(t *testing.T) {
	repo := newStubPaymentRepo()
	orderRepo := newStubOrdersRepo()
	gw := &stubChargeGateway{}
	svc := newPaymentService(t, repo, orderRepo, gw)

	order := payableOrder()
	orderRepo.orders[order.ID] = order

	result, err := svc.InitializeMomo(context.Background(), MomoInput{
		OrderID:  order.ID,
		Email:    "kwame@example.com",
		Phone:    "0241234567",
		Provider: "mtn",
	})
	if err != nil {
		t.Fatalf("InitializeMomo: %v", err)
	}

	if gw.lastCharge.MobileMoney.Phone != "+233241234567" {
		t.Fatalf("expected international phone, got %s", gw.lastCharge.MobileMoney.Phone)
	}
	if gw.lastCharge.MobileMoney.Provider != enums.MomoProviderMTN.GatewayCode() {
		t.Fatalf("expected gateway provider code, got %s", gw.lastCharge.MobileMoney.Provider)
	}
	if result.Provider != enums.MomoProviderMTN {
		t.Fatalf("expected mtn provider, got %s", result.Provider)
	}
	if repo.created.Method != enums.PaymentMethodMobileMoney {
		t.Fatalf("expected momo method, got %s", repo.created.Method)
	}
	if !strings.Contains(result.Instructions, "MTN") {
		t.Fatalf("expected MTN instructions, got %q", result.Instructions)
	}
	if result.DisplayText == "" {
		t.Fatal("expected display text fallback")
	}
}

func TestInitializeMomoRejectsBadPhoneAndProvider(t *testing.T) {
	orderRepo := newStubOrdersRepo()
	svc := newPaymentService(t, newStubPaymentRepo(), orderRepo, &stubChargeGateway{})

	_, err := svc.InitializeMomo(context.Background(), MomoInput{
		OrderID:  uuid.New(),
		Email:    "a@b.com",
		Phone:    "12345",
		Provider: "mtn",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for phone, got %v", err)
	}

	_, err = svc.InitializeMomo(context.Background(), MomoInput{
		OrderID:  uuid.New(),
		Email:    "a@b.com",
		Phone:    "0241234567",
		Provider: "orange",
	})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for provider, got %v", err)
	}
}

func TestVerifyMarksPaymentAndOrderPaid(t *testing.T) {
	repo := newStubPaymentRepo()
	orderRepo := newStubOrdersRepo()
	order := payableOrder()
	orderRepo.orders[order.ID] = order

	payment := &models.Payment{
		ID:            uuid.New(),
		OrderID:       &order.ID,
		Reference:     "pay_verify",
		AmountPesewas: order.TotalPesewas,
		Status:        enums.PaymentStatusPending,
	}
	repo.byReference[payment.Reference] = payment

	gw := &stubChargeGateway{transaction: &paystack.Transaction{
		ID:        42,
		Reference: "pay_verify",
		Status:    "success",
		Channel:   "mobile_money",
		Fees:      120,
		PaidAt:    "2026-08-30T10:00:00Z",
	}}
	svc := newPaymentService(t, repo, orderRepo, gw)

	result, err := svc.Verify(context.Background(), "pay_verify")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if result.Status != enums.PaymentStatusSuccessful {
		t.Fatalf("expected successful, got %s", result.Status)
	}
	updates := repo.updates[payment.ID]
	if updates["status"] != enums.PaymentStatusSuccessful {
		t.Fatalf("expected successful status write, got %v", updates["status"])
	}
	if _, ok := updates["paid_at"]; !ok {
		t.Fatal("expected paid_at write")
	}
	orderUpdates := orderRepo.updates[order.ID]
	if orderUpdates["payment_status"] != enums.OrderPaymentStatusPaid {
		t.Fatalf("expected order paid, got %v", orderUpdates["payment_status"])
	}
	if orderUpdates["status"] != enums.OrderStatusConfirmed {
		t.Fatalf("expected order confirmed, got %v", orderUpdates["status"])
	}
}

func TestVerifyNeverDowngradesSuccessfulPayment(t *testing.T) {
	repo := newStubPaymentRepo()
	orderRepo := newStubOrdersRepo()

	payment := &models.Payment{
		ID:        uuid.New(),
		Reference: "pay_settled",
		Status:    enums.PaymentStatusSuccessful,
	}
	repo.byReference[payment.Reference] = payment

	gw := &stubChargeGateway{transaction: &paystack.Transaction{
		Reference: "pay_settled",
		Status:    "failed",
	}}
	svc := newPaymentService(t, repo, orderRepo, gw)

	result, err := svc.Verify(context.Background(), "pay_settled")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Status != enums.PaymentStatusSuccessful {
		t.Fatalf("settled payment must stay successful, got %s", result.Status)
	}
	if _, ok := repo.updates[payment.ID]; ok {
		t.Fatal("no update must be written for a settled payment")
	}
}

func TestVerifyRecordsFailureReason(t *testing.T) {
	repo := newStubPaymentRepo()
	orderRepo := newStubOrdersRepo()
	order := payableOrder()
	orderRepo.orders[order.ID] = order

	payment := &models.Payment{
		ID:        uuid.New(),
		OrderID:   &order.ID,
		Reference: "pay_declined",
		Status:    enums.PaymentStatusPending,
	}
	repo.byReference[payment.Reference] = payment

	gw := &stubChargeGateway{transaction: &paystack.Transaction{
		Reference:       "pay_declined",
		Status:          "failed",
		GatewayResponse: "Declined by issuer",
	}}
	svc := newPaymentService(t, repo, orderRepo, gw)

	if _, err := svc.Verify(context.Background(), "pay_declined"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	updates := repo.updates[payment.ID]
	if updates["failure_reason"] != "Declined by issuer" {
		t.Fatalf("expected failure reason recorded, got %v", updates["failure_reason"])
	}
	if orderRepo.updates[order.ID]["payment_status"] != enums.OrderPaymentStatusFailed {
		t.Fatalf("expected order payment failed, got %v", orderRepo.updates[order.ID])
	}
}

func TestVerifyUnknownReferenceIsNotFound(t *testing.T) {
	svc := newPaymentService(t, newStubPaymentRepo(), newStubOrdersRepo(), &stubChargeGateway{})

	_, err := svc.Verify(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMapGatewayStatus(t *testing.T) {
	cases := map[string]enums.PaymentStatus{
		"success":   enums.PaymentStatusSuccessful,
		"failed":    enums.PaymentStatusFailed,
		"abandoned": enums.PaymentStatusCancelled,
		"pending":   enums.PaymentStatusPending,
		"ongoing":   enums.PaymentStatusPending,
	}
	for raw, want := range cases {
		if got := mapGatewayStatus(raw); got != want {
			t.Fatalf("mapGatewayStatus(%q): expected %s, got %s", raw, want, got)
		}
	}
}

func TestRefundRequestsGatewayRefundForSettledPayment(t *testing.T) {
	repo := newStubPaymentRepo()
	payment := &models.Payment{
		ID:        uuid.New(),
		Reference: "pay_refund_1",
		Status:    enums.PaymentStatusSuccessful,
		Currency:  enums.CurrencyGHS,
	}
	repo.byReference[payment.Reference] = payment

	gw := &stubChargeGateway{}
	svc := newPaymentService(t, repo, newStubOrdersRepo(), gw)

	result, err := svc.Refund(context.Background(), "pay_refund_1", RefundInput{Reason: "order never delivered"})
	if err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if gw.lastRefund == nil || gw.lastRefund.Transaction != "pay_refund_1" {
		t.Fatalf("expected gateway refund for pay_refund_1, got %+v", gw.lastRefund)
	}
	if gw.lastRefund.MerchantNote != "order never delivered" {
		t.Fatalf("expected reason passthrough, got %q", gw.lastRefund.MerchantNote)
	}
	if gw.lastRefund.Currency != "GHS" {
		t.Fatalf("expected GHS refund, got %q", gw.lastRefund.Currency)
	}
	if result.RefundID != 311 || result.Reference != "pay_refund_1" {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, ok := repo.updates[payment.ID]; ok {
		t.Fatal("refund request must not touch the payment row")
	}
}

func TestRefundRejectsUnsettledPayment(t *testing.T) {
	repo := newStubPaymentRepo()
	payment := &models.Payment{
		ID:        uuid.New(),
		Reference: "pay_refund_2",
		Status:    enums.PaymentStatusPending,
	}
	repo.byReference[payment.Reference] = payment

	gw := &stubChargeGateway{}
	svc := newPaymentService(t, repo, newStubOrdersRepo(), gw)

	_, err := svc.Refund(context.Background(), "pay_refund_2", RefundInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if gw.lastRefund != nil {
		t.Fatal("gateway must not be asked to refund an unsettled payment")
	}
}

func TestRefundRejectsAlreadyRefundedPayment(t *testing.T) {
	repo := newStubPaymentRepo()
	payment := &models.Payment{
		ID:              uuid.New(),
		Reference:       "pay_refund_3",
		Status:          enums.PaymentStatusSuccessful,
		RefundProcessed: true,
	}
	repo.byReference[payment.Reference] = payment

	gw := &stubChargeGateway{}
	svc := newPaymentService(t, repo, newStubOrdersRepo(), gw)

	_, err := svc.Refund(context.Background(), "pay_refund_3", RefundInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if gw.lastRefund != nil {
		t.Fatal("gateway must not be asked to refund twice")
	}
}

func TestRefundUnknownReferenceIsNotFound(t *testing.T) {
	svc := newPaymentService(t, newStubPaymentRepo(), newStubOrdersRepo(), &stubChargeGateway{})

	_, err := svc.Refund(context.Background(), "missing", RefundInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

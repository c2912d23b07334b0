package payouts

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ghbuys/marketplace-backend/internal/vendors"
	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
	"github.com/ghbuys/marketplace-backend/pkg/paystack"
)

type stubPayoutRepo struct {
	created   []*models.VendorPayout
	existing  map[string]bool
	createErr error
	queued    []models.VendorPayout
	queuedErr error
	updates   map[uuid.UUID]map[string]any
	updateErr error
	list      *PayoutList
	listErr   error
}

func newStubPayoutRepo() *stubPayoutRepo {
	return &stubPayoutRepo{
		existing: map[string]bool{},
		updates:  map[uuid.UUID]map[string]any{},
	}
}

func (s *stubPayoutRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPayoutRepo) CreateIfAbsent(ctx context.Context, payout *models.VendorPayout) (bool, error) {
	if s.createErr != nil {
		return false, s.createErr
	}
	if s.existing[payout.Reference] {
		return false, nil
	}
	s.existing[payout.Reference] = true
	s.created = append(s.created, payout)
	return true, nil
}

func (s *stubPayoutRepo) FindByReference(ctx context.Context, reference string) (*models.VendorPayout, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPayoutRepo) FindQueued(ctx context.Context, limit int) ([]models.VendorPayout, error) {
	if s.queuedErr != nil {
		return nil, s.queuedErr
	}
	if limit < len(s.queued) {
		return s.queued[:limit], nil
	}
	return s.queued, nil
}

func (s *stubPayoutRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) (*PayoutList, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.list == nil {
		return &PayoutList{}, nil
	}
	return s.list, nil
}

func (s *stubPayoutRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates[id] = updates
	return nil
}

type stubVendorRepo struct {
	vendors        map[uuid.UUID]*models.Vendor
	salesByVendor  map[uuid.UUID]int64
	ordersByVendor map[uuid.UUID]int64
}

func newStubVendorRepo() *stubVendorRepo {
	return &stubVendorRepo{
		vendors:        map[uuid.UUID]*models.Vendor{},
		salesByVendor:  map[uuid.UUID]int64{},
		ordersByVendor: map[uuid.UUID]int64{},
	}
}

func (s *stubVendorRepo) WithTx(tx *gorm.DB) vendors.Repository { return s }

func (s *stubVendorRepo) Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	s.vendors[vendor.ID] = vendor
	return vendor, nil
}

func (s *stubVendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	vendor, ok := s.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vendor, nil
}

func (s *stubVendorRepo) FindByHandle(ctx context.Context, handle string) (*models.Vendor, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVendorRepo) FindByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVendorRepo) List(ctx context.Context, params pagination.Params, filters vendors.ListFilters) (*vendors.VendorList, error) {
	return &vendors.VendorList{}, nil
}

func (s *stubVendorRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubVendorRepo) CreateAdmin(ctx context.Context, admin *models.VendorAdmin) error {
	return nil
}

func (s *stubVendorRepo) FindAdminByUserID(ctx context.Context, userID uuid.UUID) (*models.VendorAdmin, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVendorRepo) IncrementSales(ctx context.Context, id uuid.UUID, amountPesewas int64, orderCount int64) error {
	s.salesByVendor[id] += amountPesewas
	s.ordersByVendor[id] += orderCount
	return nil
}

func (s *stubVendorRepo) CountByVerificationStatus(ctx context.Context) (map[enums.VendorVerificationStatus]int64, error) {
	return map[enums.VendorVerificationStatus]int64{}, nil
}

type stubTransferGateway struct {
	recipientErr   error
	transferErr    error
	lastRecipient  *paystack.RecipientParams
	lastTransfer   *paystack.TransferParams
	recipientCalls int
	transferCalls  int
}

func (s *stubTransferGateway) CreateTransferRecipient(ctx context.Context, params paystack.RecipientParams) (*paystack.Recipient, error) {
	s.recipientCalls++
	s.lastRecipient = &params
	if s.recipientErr != nil {
		return nil, s.recipientErr
	}
	return &paystack.Recipient{RecipientCode: "RCP_test"}, nil
}

func (s *stubTransferGateway) InitiateTransfer(ctx context.Context, params paystack.TransferParams) (*paystack.Transfer, error) {
	s.transferCalls++
	s.lastTransfer = &params
	if s.transferErr != nil {
		return nil, s.transferErr
	}
	return &paystack.Transfer{TransferCode: "TRF_test"}, nil
}

func newTestService(t *testing.T, repo Repository, vendorRepo vendors.Repository, gw gateway) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:    repo,
		Vendors: vendorRepo,
		Gateway: gw,
		Logger:  logger.New(logger.Options{ServiceName: "payouts-test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func strPtr(s string) *string { return &s }

func TestFanOutTxCreatesOnePayoutPerVendor(t *testing.T) {
	repo := newStubPayoutRepo()
	vendorRepo := newStubVendorRepo()
	svc := newTestService(t, repo, vendorRepo, &stubTransferGateway{})

	vendorA := uuid.New()
	vendorB := uuid.New()
	order := &models.Order{
		ID:       uuid.New(),
		Currency: enums.CurrencyGHS,
		Items: []models.OrderItem{
			{ID: uuid.New(), VendorID: vendorA, UnitPricePesewas: 10000, Quantity: 1},
			{ID: uuid.New(), VendorID: vendorB, UnitPricePesewas: 2000, Quantity: 3},
		},
	}

	created, err := svc.FanOutTx(context.Background(), nil, order, "pay_ref_1")
	if err != nil {
		t.Fatalf("FanOutTx: %v", err)
	}
	if created != 2 {
		t.Fatalf("expected 2 payouts, got %d", created)
	}

	for _, payout := range repo.created {
		if payout.Status != enums.PayoutStatusQueued {
			t.Fatalf("expected queued status, got %s", payout.Status)
		}
		if payout.GrossPesewas != payout.CommissionPesewas+payout.NetPesewas {
			t.Fatalf("split invariant broken for %s", payout.Reference)
		}
	}
	if vendorRepo.salesByVendor[vendorA] != 10000 {
		t.Fatalf("vendor A sales: expected 10000, got %d", vendorRepo.salesByVendor[vendorA])
	}
	if vendorRepo.ordersByVendor[vendorB] != 1 {
		t.Fatalf("vendor B orders: expected 1, got %d", vendorRepo.ordersByVendor[vendorB])
	}
}

func TestFanOutTxReplayIsAbsorbed(t *testing.T) {
	repo := newStubPayoutRepo()
	vendorRepo := newStubVendorRepo()
	svc := newTestService(t, repo, vendorRepo, &stubTransferGateway{})

	vendorID := uuid.New()
	order := &models.Order{
		ID:       uuid.New(),
		Currency: enums.CurrencyGHS,
		Items: []models.OrderItem{
			{ID: uuid.New(), VendorID: vendorID, UnitPricePesewas: 5000, Quantity: 1},
		},
	}

	if _, err := svc.FanOutTx(context.Background(), nil, order, "pay_ref_2"); err != nil {
		t.Fatalf("first fan-out: %v", err)
	}
	created, err := svc.FanOutTx(context.Background(), nil, order, "pay_ref_2")
	if err != nil {
		t.Fatalf("second fan-out: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected replay to create nothing, got %d", created)
	}
	if vendorRepo.salesByVendor[vendorID] != 5000 {
		t.Fatalf("sales counter must only move once, got %d", vendorRepo.salesByVendor[vendorID])
	}
}

func TestDispatchQueuedPrefersBankAccount(t *testing.T) {
	repo := newStubPayoutRepo()
	vendorRepo := newStubVendorRepo()
	gw := &stubTransferGateway{}
	svc := newTestService(t, repo, vendorRepo, gw)

	vendorID := uuid.New()
	vendorRepo.vendors[vendorID] = &models.Vendor{
		ID:                vendorID,
		Name:              "Accra Crafts",
		BankName:          strPtr("GCB Bank Limited"),
		BankAccountNumber: strPtr("1234567890"),
		BankAccountName:   strPtr("Accra Crafts Ltd"),
	}

	payoutID := uuid.New()
	repo.queued = []models.VendorPayout{{
		ID:         payoutID,
		VendorID:   vendorID,
		OrderID:    uuid.New(),
		Reference:  "payout_pay_3_" + vendorID.String(),
		NetPesewas: 9500,
		Currency:   enums.CurrencyGHS,
		Status:     enums.PayoutStatusQueued,
	}}

	dispatched, err := svc.DispatchQueued(context.Background(), 10)
	if err != nil {
		t.Fatalf("DispatchQueued: %v", err)
	}
	if dispatched != 1 {
		t.Fatalf("expected 1 dispatched, got %d", dispatched)
	}
	if gw.lastRecipient.Type != "ghipss" {
		t.Fatalf("expected bank recipient, got %s", gw.lastRecipient.Type)
	}
	if gw.lastRecipient.Name != "Accra Crafts Ltd" {
		t.Fatalf("expected account name, got %s", gw.lastRecipient.Name)
	}
	if gw.lastTransfer.Amount != 9500 {
		t.Fatalf("transfer must move the net amount, got %d", gw.lastTransfer.Amount)
	}
	updates := repo.updates[payoutID]
	if updates["status"] != enums.PayoutStatusProcessing {
		t.Fatalf("expected processing status, got %v", updates["status"])
	}
	if updates["transfer_code"] != "TRF_test" {
		t.Fatalf("expected transfer code recorded, got %v", updates["transfer_code"])
	}
}

func TestDispatchQueuedFallsBackToMomo(t *testing.T) {
	repo := newStubPayoutRepo()
	vendorRepo := newStubVendorRepo()
	gw := &stubTransferGateway{}
	svc := newTestService(t, repo, vendorRepo, gw)

	provider := enums.MomoProviderMTN
	vendorID := uuid.New()
	vendorRepo.vendors[vendorID] = &models.Vendor{
		ID:           vendorID,
		Name:         "Kumasi Textiles",
		MomoNumber:   strPtr("0241234567"),
		MomoProvider: &provider,
	}

	repo.queued = []models.VendorPayout{{
		ID:         uuid.New(),
		VendorID:   vendorID,
		OrderID:    uuid.New(),
		Reference:  "payout_pay_4_" + vendorID.String(),
		NetPesewas: 1900,
		Currency:   enums.CurrencyGHS,
		Status:     enums.PayoutStatusQueued,
	}}

	if _, err := svc.DispatchQueued(context.Background(), 10); err != nil {
		t.Fatalf("DispatchQueued: %v", err)
	}
	if gw.lastRecipient.Type != "mobile_money" {
		t.Fatalf("expected momo recipient, got %s", gw.lastRecipient.Type)
	}
	if gw.lastRecipient.AccountNumber != "0241234567" {
		t.Fatalf("expected momo number, got %s", gw.lastRecipient.AccountNumber)
	}
}

func TestDispatchQueuedMarksGatewayRejectionsFailed(t *testing.T) {
	repo := newStubPayoutRepo()
	vendorRepo := newStubVendorRepo()
	gw := &stubTransferGateway{transferErr: errors.New("insufficient balance")}
	svc := newTestService(t, repo, vendorRepo, gw)

	vendorID := uuid.New()
	vendorRepo.vendors[vendorID] = &models.Vendor{
		ID:                vendorID,
		Name:              "Tamale Goods",
		BankName:          strPtr("GCB Bank Limited"),
		BankAccountNumber: strPtr("1234567890"),
	}

	payoutID := uuid.New()
	repo.queued = []models.VendorPayout{{
		ID:         payoutID,
		VendorID:   vendorID,
		OrderID:    uuid.New(),
		Reference:  "payout_pay_5_" + vendorID.String(),
		NetPesewas: 800,
		Currency:   enums.CurrencyGHS,
		Status:     enums.PayoutStatusQueued,
	}}

	dispatched, err := svc.DispatchQueued(context.Background(), 10)
	if dispatched != 0 {
		t.Fatalf("expected 0 dispatched, got %d", dispatched)
	}
	if err == nil {
		t.Fatal("expected aggregated dispatch error")
	}
	updates := repo.updates[payoutID]
	if updates["status"] != enums.PayoutStatusFailed {
		t.Fatalf("expected failed status, got %v", updates["status"])
	}
	if updates["failure_reason"] != "insufficient balance" {
		t.Fatalf("expected failure reason recorded, got %v", updates["failure_reason"])
	}
}

func TestDispatchQueuedFailsPayoutWithoutDestination(t *testing.T) {
	repo := newStubPayoutRepo()
	vendorRepo := newStubVendorRepo()
	gw := &stubTransferGateway{}
	svc := newTestService(t, repo, vendorRepo, gw)

	vendorID := uuid.New()
	vendorRepo.vendors[vendorID] = &models.Vendor{ID: vendorID, Name: "No Destination"}

	payoutID := uuid.New()
	repo.queued = []models.VendorPayout{{
		ID:         payoutID,
		VendorID:   vendorID,
		OrderID:    uuid.New(),
		Reference:  "payout_pay_6_" + vendorID.String(),
		NetPesewas: 800,
		Currency:   enums.CurrencyGHS,
		Status:     enums.PayoutStatusQueued,
	}}

	if _, err := svc.DispatchQueued(context.Background(), 10); err == nil {
		t.Fatal("expected dispatch error")
	}
	if gw.recipientCalls != 0 {
		t.Fatal("gateway must not be called without a destination")
	}
	if repo.updates[payoutID]["status"] != enums.PayoutStatusFailed {
		t.Fatalf("expected failed status, got %v", repo.updates[payoutID]["status"])
	}
}

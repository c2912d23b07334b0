package payouts

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
)

func TestSplitGroupsItemsByVendor(t *testing.T) {
	vendorA := uuid.New()
	vendorB := uuid.New()
	items := []models.OrderItem{
		{ID: uuid.New(), VendorID: vendorA, UnitPricePesewas: 1000, Quantity: 2},
		{ID: uuid.New(), VendorID: vendorB, UnitPricePesewas: 500, Quantity: 1},
		{ID: uuid.New(), VendorID: vendorA, UnitPricePesewas: 300, Quantity: 1},
	}

	shares := Split(items, DefaultCommissionBPS)
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}

	byVendor := map[uuid.UUID]Share{}
	for _, share := range shares {
		byVendor[share.VendorID] = share
	}

	a := byVendor[vendorA]
	if a.GrossPesewas != 2300 {
		t.Fatalf("vendor A gross: expected 2300, got %d", a.GrossPesewas)
	}
	if len(a.ItemIDs) != 2 {
		t.Fatalf("vendor A items: expected 2, got %d", len(a.ItemIDs))
	}
	b := byVendor[vendorB]
	if b.GrossPesewas != 500 {
		t.Fatalf("vendor B gross: expected 500, got %d", b.GrossPesewas)
	}
}

func TestSplitCommissionRounding(t *testing.T) {
	cases := []struct {
		gross          int64
		bps            int
		wantCommission int64
	}{
		{gross: 10000, bps: 500, wantCommission: 500},
		{gross: 999, bps: 500, wantCommission: 50},  // 49.95 rounds up
		{gross: 101, bps: 500, wantCommission: 5},   // 5.05 rounds down
		{gross: 10, bps: 500, wantCommission: 1},    // 0.5 rounds up
		{gross: 1, bps: 500, wantCommission: 0},     // 0.05 rounds down
		{gross: 12345, bps: 250, wantCommission: 309}, // 308.625 rounds up
		{gross: 5000, bps: 0, wantCommission: 0},
	}

	for _, tc := range cases {
		got := Commission(tc.gross, tc.bps)
		if got != tc.wantCommission {
			t.Fatalf("Commission(%d, %d): expected %d, got %d", tc.gross, tc.bps, tc.wantCommission, got)
		}
	}
}

func TestSplitGrossAlwaysEqualsCommissionPlusNet(t *testing.T) {
	vendorID := uuid.New()
	for gross := int64(1); gross <= 1000; gross++ {
		items := []models.OrderItem{
			{ID: uuid.New(), VendorID: vendorID, UnitPricePesewas: gross, Quantity: 1},
		}
		shares := Split(items, DefaultCommissionBPS)
		if len(shares) != 1 {
			t.Fatalf("expected 1 share, got %d", len(shares))
		}
		share := shares[0]
		if share.CommissionPesewas+share.NetPesewas != share.GrossPesewas {
			t.Fatalf("gross %d: commission %d + net %d != gross", gross, share.CommissionPesewas, share.NetPesewas)
		}
	}
}

func TestSplitSharesSumToOrderTotal(t *testing.T) {
	items := []models.OrderItem{
		{ID: uuid.New(), VendorID: uuid.New(), UnitPricePesewas: 1999, Quantity: 3},
		{ID: uuid.New(), VendorID: uuid.New(), UnitPricePesewas: 333, Quantity: 7},
		{ID: uuid.New(), VendorID: uuid.New(), UnitPricePesewas: 1, Quantity: 1},
	}

	var total int64
	for _, item := range items {
		total += item.UnitPricePesewas * int64(item.Quantity)
	}

	var sum int64
	for _, share := range Split(items, DefaultCommissionBPS) {
		sum += share.CommissionPesewas + share.NetPesewas
	}
	if sum != total {
		t.Fatalf("expected shares to sum to %d, got %d", total, sum)
	}
}

func TestPayoutReferenceIsStable(t *testing.T) {
	vendorID := uuid.MustParse("3f1f9df2-7f9a-4f10-9e61-0a8f6f44f6aa")
	ref := PayoutReference("pay_abc123", vendorID)
	want := "payout_pay_abc123_" + vendorID.String()
	if ref != want {
		t.Fatalf("expected %q, got %q", want, ref)
	}
	if ref != PayoutReference("pay_abc123", vendorID) {
		t.Fatal("reference must be deterministic")
	}
}

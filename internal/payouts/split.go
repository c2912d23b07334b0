package payouts

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
)

// DefaultCommissionBPS is the platform's cut of each vendor's gross, in basis
// points.
const DefaultCommissionBPS = 500

// Share is one vendor's slice of a paid order.
type Share struct {
	VendorID          uuid.UUID
	GrossPesewas      int64
	CommissionPesewas int64
	NetPesewas        int64
	ItemIDs           []uuid.UUID
}

// PayoutReference derives the unique payout key for a vendor's share of a
// payment.
func PayoutReference(paymentReference string, vendorID uuid.UUID) string {
	return fmt.Sprintf("payout_%s_%s", paymentReference, vendorID)
}

// Split groups order items by vendor and carves the platform commission out
// of each vendor's gross. Commission rounds half-up on the gross, net is the
// exact remainder, so gross = commission + net always holds.
func Split(items []models.OrderItem, commissionBPS int) []Share {
	grouped := make(map[uuid.UUID]*Share)
	order := make([]uuid.UUID, 0)
	for _, item := range items {
		share, ok := grouped[item.VendorID]
		if !ok {
			share = &Share{VendorID: item.VendorID}
			grouped[item.VendorID] = share
			order = append(order, item.VendorID)
		}
		share.GrossPesewas += item.UnitPricePesewas * int64(item.Quantity)
		share.ItemIDs = append(share.ItemIDs, item.ID)
	}

	sort.Slice(order, func(i, j int) bool {
		return order[i].String() < order[j].String()
	})

	shares := make([]Share, 0, len(grouped))
	for _, vendorID := range order {
		share := grouped[vendorID]
		share.CommissionPesewas = Commission(share.GrossPesewas, commissionBPS)
		share.NetPesewas = share.GrossPesewas - share.CommissionPesewas
		shares = append(shares, *share)
	}
	return shares
}

// Commission computes the platform fee on a gross amount, rounding half-up.
func Commission(grossPesewas int64, commissionBPS int) int64 {
	gross := decimal.NewFromInt(grossPesewas)
	rate := decimal.NewFromInt(int64(commissionBPS)).Div(decimal.NewFromInt(10000))
	return gross.Mul(rate).Round(0).IntPart()
}

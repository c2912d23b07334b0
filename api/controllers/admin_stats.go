package controllers

import (
	"context"
	"net/http"

	"github.com/ghbuys/marketplace-backend/api/responses"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
)

type vendorStatsReader interface {
	CountByVerificationStatus(ctx context.Context) (map[enums.VendorVerificationStatus]int64, error)
}

type paymentStatsReader interface {
	SuccessfulTotals(ctx context.Context) (count int64, amountPesewas int64, err error)
}

// AdminStats reports marketplace headline numbers: vendor counts broken down
// by verification status plus the confirmed-payment revenue total.
func AdminStats(vendorRepo vendorStatsReader, paymentRepo paymentStatsReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if vendorRepo == nil || paymentRepo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats repositories unavailable"))
			return
		}

		vendorCounts, err := vendorRepo.CountByVerificationStatus(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentCount, revenuePesewas, err := paymentRepo.SuccessfulTotals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var totalVendors int64
		byStatus := make(map[string]int64, len(vendorCounts))
		for status, count := range vendorCounts {
			byStatus[string(status)] = count
			totalVendors += count
		}

		responses.WriteSuccess(w, map[string]any{
			"vendors": map[string]any{
				"total":     totalVendors,
				"by_status": byStatus,
			},
			"payments": map[string]any{
				"successful_count": paymentCount,
				"revenue_pesewas":  revenuePesewas,
			},
		})
	}
}

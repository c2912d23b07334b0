package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/api/middleware"
	"github.com/ghbuys/marketplace-backend/api/responses"
	"github.com/ghbuys/marketplace-backend/api/validators"
	payoutsvc "github.com/ghbuys/marketplace-backend/internal/payouts"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
)

func payoutFiltersFromQuery(r *http.Request) (payoutsvc.ListFilters, error) {
	var filters payoutsvc.ListFilters
	if raw := strings.TrimSpace(r.URL.Query().Get("vendor_id")); raw != "" {
		vendorID, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id")
		}
		filters.VendorID = &vendorID
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status := enums.PayoutStatus(raw)
		if !status.IsValid() {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid payout status")
		}
		filters.Status = &status
	}
	return filters, nil
}

func writePayoutPage(w http.ResponseWriter, list *payoutsvc.PayoutList) {
	items := make([]*payoutsvc.PayoutDTO, 0, len(list.Payouts))
	for i := range list.Payouts {
		items = append(items, payoutsvc.FromModel(&list.Payouts[i]))
	}
	responses.WriteSuccess(w, map[string]any{
		"payouts":     items,
		"next_cursor": list.NextCursor,
	})
}

// AdminPayoutList lists payouts across all vendors.
func AdminPayoutList(svc payoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payout service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		filters, err := payoutFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writePayoutPage(w, list)
	}
}

// VendorPayoutList lists the signed-in vendor's own payouts.
func VendorPayoutList(svc payoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payout service unavailable"))
			return
		}

		vendorID, err := uuid.Parse(middleware.VendorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "vendor context missing"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		filters := payoutsvc.ListFilters{VendorID: &vendorID}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.PayoutStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payout status"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writePayoutPage(w, list)
	}
}

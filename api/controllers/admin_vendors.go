package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/api/middleware"
	"github.com/ghbuys/marketplace-backend/api/responses"
	"github.com/ghbuys/marketplace-backend/api/validators"
	vendorsvc "github.com/ghbuys/marketplace-backend/internal/vendors"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
)

type vendorVerifyRequest struct {
	Status       string   `json:"status" validate:"required,oneof=approved rejected suspended"`
	Notes        string   `json:"notes" validate:"required,min=10"`
	Requirements []string `json:"requirements,omitempty"`
}

// AdminVendorVerify applies an admin decision to a pending vendor.
func AdminVendorVerify(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		vendorID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "vendorId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vendor id"))
			return
		}

		actorID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var body vendorVerifyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := enums.VendorVerificationStatus(body.Status)

		result, err := svc.Verify(r.Context(), vendorsvc.VerifyInput{
			VendorID:     vendorID,
			Status:       status,
			Notes:        body.Notes,
			Requirements: body.Requirements,
			ActorUserID:  actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminVendorsPending lists vendor applications awaiting review.
func AdminVendorsPending(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
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

		list, err := svc.ListPending(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]vendorsvc.VendorSummary, 0, len(list.Vendors))
		for i := range list.Vendors {
			items = append(items, vendorsvc.SummaryOf(&list.Vendors[i]))
		}

		responses.WriteSuccess(w, map[string]any{
			"vendors":     items,
			"next_cursor": list.NextCursor,
		})
	}
}

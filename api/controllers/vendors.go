package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/api/responses"
	"github.com/ghbuys/marketplace-backend/api/validators"
	vendorsvc "github.com/ghbuys/marketplace-backend/internal/vendors"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
)

// VendorRegister accepts a new vendor application.
func VendorRegister(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		var body vendorsvc.RegisterInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// VendorList returns verified vendors for the storefront.
func VendorList(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		filters := vendorsvc.ListFilters{
			Region:   strings.TrimSpace(r.URL.Query().Get("region")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Query:    validators.SanitizeString(r.URL.Query().Get("q"), 100),
		}

		list, err := svc.List(r.Context(), params, filters)
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

// VendorGet looks a vendor up by handle, or by id when the path segment
// parses as a UUID.
func VendorGet(svc vendorsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		param := strings.TrimSpace(chi.URLParam(r, "handle"))
		if param == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "vendor handle required"))
			return
		}

		if id, parseErr := uuid.Parse(param); parseErr == nil {
			found, getErr := svc.Get(r.Context(), id)
			if getErr != nil {
				responses.WriteError(r.Context(), logg, w, getErr)
				return
			}
			responses.WriteSuccess(w, vendorsvc.SummaryOf(found))
			return
		}

		found, err := svc.GetByHandle(r.Context(), param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendorsvc.SummaryOf(found))
	}
}

package controllers

import (
	"net/http"

	"github.com/ghbuys/marketplace-backend/api/responses"
	"github.com/ghbuys/marketplace-backend/pkg/ghana"
)

// ReferenceRegions returns the Ghana regions with delivery metadata.
func ReferenceRegions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"regions": ghana.Regions()})
	}
}

// ReferenceMomoProviders returns the supported mobile money providers.
func ReferenceMomoProviders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"providers": ghana.MomoProviders()})
	}
}

// ReferenceBanks returns the banks supported for vendor settlement.
func ReferenceBanks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"banks": ghana.Banks()})
	}
}

// ReferenceCategories returns the marketplace category tree.
func ReferenceCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"categories": ghana.Categories()})
	}
}

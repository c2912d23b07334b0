package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/api/responses"
	"github.com/ghbuys/marketplace-backend/api/validators"
	paystackwebhook "github.com/ghbuys/marketplace-backend/internal/webhooks/paystack"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
)

type webhookEventItem struct {
	ID        uuid.UUID `json:"id"`
	EventType string    `json:"event_type"`
	Reference *string   `json:"reference,omitempty"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminWebhookUnmatched lists webhook deliveries that carried a valid
// signature but matched no local payment or payout.
func AdminWebhookUnmatched(repo paystackwebhook.EventRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook event repository unavailable"))
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

		events, nextCursor, err := repo.ListUnmatched(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]webhookEventItem, 0, len(events))
		for _, event := range events {
			items = append(items, webhookEventItem{
				ID:        event.ID,
				EventType: event.EventType,
				Reference: event.Reference,
				Note:      event.Note,
				CreatedAt: event.CreatedAt,
			})
		}

		responses.WriteSuccess(w, map[string]any{
			"events":      items,
			"next_cursor": nextCursor,
		})
	}
}

package webhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ghbuys/marketplace-backend/api/responses"
	paystackwebhook "github.com/ghbuys/marketplace-backend/internal/webhooks/paystack"
	pkgerrors "github.com/ghbuys/marketplace-backend/pkg/errors"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
	"github.com/ghbuys/marketplace-backend/pkg/paystack"
)

type PaystackWebhookService interface {
	HandleEvent(ctx context.Context, digest string, raw []byte, event *paystackwebhook.Event) error
}

type paystackWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type paystackClient interface {
	SigningSecret() string
}

// PaystackWebhook handles gateway charge, transfer, and refund events. A
// missing or invalid signature is rejected with 400 so the gateway surfaces
// the misconfiguration instead of retrying forever.
func PaystackWebhook(svc PaystackWebhookService, client paystackClient, guard paystackWebhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if client == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "paystack client unavailable"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := r.Header.Get(paystack.SignatureHeader)
		if signature == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "paystack signature missing"))
			return
		}
		if !paystack.VerifySignature(client.SigningSecret(), payload, signature) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid paystack signature"))
			return
		}

		var event paystackwebhook.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode event"))
			return
		}

		digest := paystackwebhook.Digest(payload)

		alreadyProcessed, err := guard.CheckAndMark(ctx, digest)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			responses.WriteSuccess(w, map[string]bool{"received": true})
			return
		}

		if err := svc.HandleEvent(ctx, digest, payload, &event); err != nil {
			_ = guard.Delete(ctx, digest)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(ctx, fmt.Sprintf("paystack event %s processed", event.Event))
		}
		responses.WriteSuccess(w, map[string]bool{"received": true})
	}
}

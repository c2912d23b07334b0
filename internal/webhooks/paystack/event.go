package paystackwebhook

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Gateway event names this service reacts to.
const (
	EventChargeSuccess   = "charge.success"
	EventChargeFailed    = "charge.failed"
	EventTransferSuccess = "transfer.success"
	EventTransferFailed  = "transfer.failed"
	EventRefundProcessed = "refund.processed"
)

// Event is the envelope of a gateway webhook delivery.
type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

// EventData carries the transaction or transfer state inside an event.
type EventData struct {
	ID              int64           `json:"id"`
	Status          string          `json:"status"`
	Reference       string          `json:"reference"`
	Amount          int64           `json:"amount"`
	Message         *string         `json:"message"`
	GatewayResponse string          `json:"gateway_response"`
	PaidAt          string          `json:"paid_at"`
	Channel         string          `json:"channel"`
	Currency        string          `json:"currency"`
	Fees            int64           `json:"fees"`
	Authorization   json.RawMessage `json:"authorization,omitempty"`
	Customer        struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// Digest fingerprints a raw delivery body. The gateway does not assign event
// ids, so the body hash is the dedupe key.
func Digest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

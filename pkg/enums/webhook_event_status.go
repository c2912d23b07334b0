package enums

import "fmt"

// WebhookEventStatus records how a gateway event delivery was handled.
// Unmatched events are kept for manual reconciliation.
type WebhookEventStatus string

const (
	WebhookEventProcessed WebhookEventStatus = "processed"
	WebhookEventSkipped   WebhookEventStatus = "skipped"
	WebhookEventUnmatched WebhookEventStatus = "unmatched"
)

var validWebhookEventStatuses = []WebhookEventStatus{
	WebhookEventProcessed,
	WebhookEventSkipped,
	WebhookEventUnmatched,
}

// String implements fmt.Stringer.
func (w WebhookEventStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WebhookEventStatus.
func (w WebhookEventStatus) IsValid() bool {
	for _, candidate := range validWebhookEventStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWebhookEventStatus converts raw input into a WebhookEventStatus.
func ParseWebhookEventStatus(value string) (WebhookEventStatus, error) {
	for _, candidate := range validWebhookEventStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid webhook event status %q", value)
}

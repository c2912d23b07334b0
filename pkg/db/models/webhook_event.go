package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// WebhookEvent records every accepted gateway delivery. Unmatched events (a
// valid signature but no local payment for the reference) stay queryable for
// manual reconciliation.
type WebhookEvent struct {
	ID        uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Digest    string                   `gorm:"column:digest;not null;uniqueIndex"`
	EventType string                   `gorm:"column:event_type;not null;index"`
	Reference *string                  `gorm:"column:reference;index"`
	Status    enums.WebhookEventStatus `gorm:"column:status;type:text;not null"`
	Payload   json.RawMessage          `gorm:"column:payload;type:jsonb"`
	Note      *string                  `gorm:"column:note"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
}

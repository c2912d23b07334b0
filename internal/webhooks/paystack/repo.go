package paystackwebhook

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/enums"
	"github.com/ghbuys/marketplace-backend/pkg/pagination"
)

// EventRepository persists the webhook delivery audit trail.
type EventRepository interface {
	WithTx(tx *gorm.DB) EventRepository
	Record(ctx context.Context, event *models.WebhookEvent) error
	ListUnmatched(ctx context.Context, params pagination.Params) ([]models.WebhookEvent, string, error)
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository builds a webhook event repository bound to the provided DB.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) WithTx(tx *gorm.DB) EventRepository {
	if tx == nil {
		return r
	}
	return &eventRepository{db: tx}
}

// Record inserts the audit row. A digest collision means the delivery was
// already recorded and is silently ignored.
func (r *eventRepository) Record(ctx context.Context, event *models.WebhookEvent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "digest"}},
			DoNothing: true,
		}).
		Create(event).Error
}

// DeleteProcessedBefore prunes processed deliveries older than the cutoff.
// Unmatched rows are kept for the admin review queue.
func (r *eventRepository) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.WebhookEventProcessed, cutoff).
		Delete(&models.WebhookEvent{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *eventRepository) ListUnmatched(ctx context.Context, params pagination.Params) ([]models.WebhookEvent, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("status = ?", enums.WebhookEventUnmatched)
	if cursor != nil {
		qb = qb.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.WebhookEvent
	err = qb.Order("created_at DESC, id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[pageSize-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

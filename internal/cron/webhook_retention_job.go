package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/ghbuys/marketplace-backend/pkg/logger"
)

const webhookRetentionDays = 90

// WebhookRetentionJobParams configure the webhook audit trail cleanup.
type WebhookRetentionJobParams struct {
	Logger     *logger.Logger
	Repository webhookRetentionRepo
	Retention  int
}

type webhookRetentionRepo interface {
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewWebhookRetentionJob builds the job that prunes processed webhook
// deliveries. Unmatched rows stay until an operator resolves them.
func NewWebhookRetentionJob(params WebhookRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("webhook event repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = webhookRetentionDays
	}
	return &webhookRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type webhookRetentionJob struct {
	logg      *logger.Logger
	repo      webhookRetentionRepo
	retention int
	now       func() time.Time
}

func (j *webhookRetentionJob) Name() string { return "webhook-retention" }

func (j *webhookRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("webhook retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "webhook retention cleanup complete")
	return nil
}

package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghbuys/marketplace-backend/pkg/logger"
)

type fakeRetentionRepo struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakeRetentionRepo) DeleteProcessedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.err
}

func TestWebhookRetentionJobUsesConfiguredRetention(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	repo := &fakeRetentionRepo{deleted: 12}
	job, err := NewWebhookRetentionJob(WebhookRetentionJobParams{
		Logger:     logg,
		Repository: repo,
		Retention:  7,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "webhook-retention" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	want := time.Now().UTC().Add(-7 * 24 * time.Hour)
	if repo.cutoff.Before(want.Add(-time.Minute)) || repo.cutoff.After(want.Add(time.Minute)) {
		t.Fatalf("cutoff %v not near expected %v", repo.cutoff, want)
	}
}

func TestWebhookRetentionJobDefaultsRetention(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	repo := &fakeRetentionRepo{}
	job, err := NewWebhookRetentionJob(WebhookRetentionJobParams{
		Logger:     logg,
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	want := time.Now().UTC().Add(-webhookRetentionDays * 24 * time.Hour)
	if repo.cutoff.Before(want.Add(-time.Minute)) || repo.cutoff.After(want.Add(time.Minute)) {
		t.Fatalf("cutoff %v not near expected %v", repo.cutoff, want)
	}
}

func TestWebhookRetentionJobPropagatesError(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	repo := &fakeRetentionRepo{err: errors.New("delete failed")}
	job, err := NewWebhookRetentionJob(WebhookRetentionJobParams{
		Logger:     logg,
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected delete error to propagate")
	}
}

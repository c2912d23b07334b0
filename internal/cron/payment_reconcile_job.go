package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/ghbuys/marketplace-backend/internal/payments"
	"github.com/ghbuys/marketplace-backend/pkg/db/models"
	"github.com/ghbuys/marketplace-backend/pkg/logger"
)

const (
	reconcileStaleAfter = 30 * time.Minute
	reconcileBatchSize  = 50
)

// PaymentReconcileJobParams configure the stale payment sweep.
type PaymentReconcileJobParams struct {
	Logger     *logger.Logger
	Stale      stalePaymentReader
	Verifier   paymentVerifier
	StaleAfter time.Duration
	BatchSize  int
}

type stalePaymentReader interface {
	FindStalePendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Payment, error)
}

type paymentVerifier interface {
	Verify(ctx context.Context, reference string) (*payments.VerifyResult, error)
}

// NewPaymentReconcileJob builds the job that re-verifies payments stuck in
// pending. Webhook delivery is not guaranteed, so the sweep is the backstop
// that catches confirmations the gateway never managed to deliver.
func NewPaymentReconcileJob(params PaymentReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Stale == nil {
		return nil, fmt.Errorf("stale payment reader required")
	}
	if params.Verifier == nil {
		return nil, fmt.Errorf("payment verifier required")
	}
	staleAfter := params.StaleAfter
	if staleAfter <= 0 {
		staleAfter = reconcileStaleAfter
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = reconcileBatchSize
	}
	return &paymentReconcileJob{
		logg:       params.Logger,
		stale:      params.Stale,
		verifier:   params.Verifier,
		staleAfter: staleAfter,
		batchSize:  batchSize,
		now:        time.Now,
	}, nil
}

type paymentReconcileJob struct {
	logg       *logger.Logger
	stale      stalePaymentReader
	verifier   paymentVerifier
	staleAfter time.Duration
	batchSize  int
	now        func() time.Time
}

func (j *paymentReconcileJob) Name() string { return "payment-reconcile" }

func (j *paymentReconcileJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.staleAfter)
	stale, err := j.stale.FindStalePendingBefore(ctx, cutoff, j.batchSize)
	if err != nil {
		return fmt.Errorf("query stale payments: %w", err)
	}

	reconciled := 0
	failed := 0
	for _, payment := range stale {
		if _, err := j.verifier.Verify(ctx, payment.Reference); err != nil {
			failed++
			errCtx := j.logg.WithField(ctx, "reference", payment.Reference)
			j.logg.Error(errCtx, "reconcile stale payment", err)
			continue
		}
		reconciled++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":     cutoff,
		"scanned":    len(stale),
		"reconciled": reconciled,
		"failed":     failed,
	})
	j.logg.Info(logCtx, "payment reconcile sweep complete")
	return nil
}

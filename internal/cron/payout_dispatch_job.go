package cron

import (
	"context"
	"fmt"

	"github.com/ghbuys/marketplace-backend/pkg/logger"
)

const defaultDispatchBatchSize = 20

// PayoutDispatchJobParams configure the queued payout dispatcher.
type PayoutDispatchJobParams struct {
	Logger     *logger.Logger
	Dispatcher payoutDispatcher
	BatchSize  int
}

type payoutDispatcher interface {
	DispatchQueued(ctx context.Context, batchSize int) (int, error)
}

// NewPayoutDispatchJob builds the job that pushes queued vendor payouts to
// the transfer gateway.
func NewPayoutDispatchJob(params PayoutDispatchJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("payout dispatcher required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultDispatchBatchSize
	}
	return &payoutDispatchJob{
		logg:       params.Logger,
		dispatcher: params.Dispatcher,
		batchSize:  batchSize,
	}, nil
}

type payoutDispatchJob struct {
	logg       *logger.Logger
	dispatcher payoutDispatcher
	batchSize  int
}

func (j *payoutDispatchJob) Name() string { return "payout-dispatch" }

func (j *payoutDispatchJob) Run(ctx context.Context) error {
	dispatched, err := j.dispatcher.DispatchQueued(ctx, j.batchSize)
	if err != nil {
		return fmt.Errorf("dispatch queued payouts: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"batch_size": j.batchSize,
		"dispatched": dispatched,
	})
	j.logg.Info(logCtx, "payout dispatch loop complete")
	return nil
}

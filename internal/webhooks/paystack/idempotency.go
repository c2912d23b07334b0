package paystackwebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghbuys/marketplace-backend/pkg/redis"
)

// IdempotencyGuard fences duplicate webhook deliveries in Redis before any
// database work happens.
type IdempotencyGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

func NewIdempotencyGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &IdempotencyGuard{
		store: store,
		ttl:   ttl,
		scope: scope,
	}, nil
}

// CheckAndMark reports whether the digest was already seen, marking it seen
// otherwise.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, digest string) (bool, error) {
	if digest == "" {
		return false, errors.New("digest is required")
	}
	key := g.store.IdempotencyKey(g.scope, digest)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

// Delete clears the mark so a failed delivery can be retried.
func (g *IdempotencyGuard) Delete(ctx context.Context, digest string) error {
	if digest == "" {
		return errors.New("digest is required")
	}
	key := g.store.IdempotencyKey(g.scope, digest)
	return g.store.Del(ctx, key)
}

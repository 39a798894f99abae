package engine

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// NewHoldLimiter paces press-and-hold purchases at one attempt per interval
func NewHoldLimiter(interval time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(interval), 1)
}

// HoldPurchase repeats buy, paced by limiter, until it fails, limit attempts
// succeed (limit <= 0 means no limit) or ctx is done. Each attempt is an
// independent check-then-debit. Returns the number of successful buys and
// the error that stopped the run.
func HoldPurchase(ctx context.Context, limiter *rate.Limiter, limit int, buy func() error) (int, error) {
	n := 0
	for limit <= 0 || n < limit {
		if err := limiter.Wait(ctx); err != nil {
			return n, err
		}
		if err := buy(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

package controllers

import (
	"context"
	"time"

	"kitemate/src/utils"
)

// StartPlanDowngradeSweep periodically moves users whose cancelled
// subscription period has run out back to the free plan. Blocks until the
// context is cancelled.
func (c *Controller) StartPlanDowngradeSweep(ctx context.Context, interval time.Duration) error {
	logger := utils.LoggerFromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			downgraded, err := c.Billing.DowngradeExpired(ctx, time.Now().UTC())
			if err != nil {
				logger.WithError(err).Error("plan downgrade sweep failed")
				continue
			}
			if downgraded > 0 {
				logger.WithField("users", downgraded).Info("downgraded expired subscriptions")
			}
		}
	}
}

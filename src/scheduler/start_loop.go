package scheduler

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
)

// Runner is the ingestion surface the loop drives on every tick.
type Runner interface {
	IngestAll(ctx context.Context) model.IngestSummary
}

// StartLoop runs the combined ingestion once per configured period until
// the context is cancelled. A failed run degrades to "not ingested this
// run" and the loop keeps going; the next tick is the retry.
func StartLoop(ctx context.Context, runner Runner) error {
	config := GetConfig()

	if !config.SyncEnabled {
		logger.Warn("scheduled sync disabled, loop will not start")
		return nil
	}

	ticker := time.NewTicker(config.SyncPeriod) // Set up a ticker that fires periodically
	defer ticker.Stop()

	logger.WithField("period", config.SyncPeriod).Info("sync loop started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("sync loop stopped")
			return nil

		case <-ticker.C:
			logger.Info("sync loop tick")

			summary := runner.IngestAll(ctx)
			for _, result := range summary.Results {
				entry := logger.WithFields(map[string]interface{}{
					"runID":      summary.RunID,
					"instrument": result.Instrument,
					"stage":      result.Stage,
				})
				if result.Success {
					entry.Info("scheduled ingestion succeeded")
				} else {
					entry.WithField("message", result.Message).
						Warn("scheduled ingestion failed, will retry on next tick")
				}
			}
		}
	}
}

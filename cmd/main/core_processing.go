package main

import (
	"context"
	"time"

	"token-pulse/src/feed"
	"token-pulse/src/interfaces"
	"token-pulse/src/logger"
	"token-pulse/src/models"
	"token-pulse/src/utils"
)

const cleanupInterval = 10 * time.Minute

// -----------------------------------------------------------------------------

// archiveListener persists every published price to the tick archive.
func archiveListener(ctx context.Context, db interfaces.IDatabase, appLogger *logger.Logger) feed.Listener {
	return func(snap models.MFeedSnapshot) {
		ticks := ticksFromSnapshot(snap)
		if len(ticks) == 0 {
			return
		}
		if err := db.SavePriceTicksBulk(ctx, ticks); err != nil {
			appLogger.Error("Failed to archive tick %d: %v", snap.Tick, err)
		}
	}
}

// -----------------------------------------------------------------------------

func ticksFromSnapshot(snap models.MFeedSnapshot) []models.MPriceTick {
	var ticks []models.MPriceTick
	for _, col := range snap.Columns {
		for _, r := range col.Records {
			price := utils.ParseMagnitude(r.Price)
			if r.PreviousPrice != nil {
				price = *r.PreviousPrice
			}
			ticks = append(ticks, models.MPriceTick{
				TokenID:   r.ID,
				Symbol:    r.Symbol,
				Price:     price,
				Direction: r.PriceChangeDirection,
				Timestamp: snap.Timestamp,
			})
		}
	}
	return ticks
}

// -----------------------------------------------------------------------------

// newFeedTask builds the periodic tick loop. Failed steps are logged and the
// previous board stays live; old archive rows are pruned on a slower cadence.
func newFeedTask(config *models.MConfig, sim *feed.Simulator, db interfaces.IDatabase, appLogger *logger.Logger) *utils.PeriodicTask {
	var lastCleanup time.Time

	step := func(ctx context.Context) {
		start := time.Now()
		snap, err := sim.Step(ctx)
		if err != nil {
			if ctx.Err() == nil {
				appLogger.Error("Tick failed: %v", err)
			}
			return
		}
		appLogger.Debug("Tick %d done in %v", snap.Tick, time.Since(start))

		if time.Since(lastCleanup) >= cleanupInterval {
			lastCleanup = time.Now()
			if err := db.CleanupOldData(ctx); err != nil {
				appLogger.Warning("Archive cleanup failed: %v", err)
			}
		}
	}

	return utils.NewPeriodicTask("feed", utils.TickInterval(config.Feed.TickIntervalMs), step, logger.NewLogger(config, "FeedTask"))
}

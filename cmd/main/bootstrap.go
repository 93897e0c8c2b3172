package main

import (
	"context"

	"token-pulse/src/display"
	"token-pulse/src/feed"
	"token-pulse/src/interfaces"
	"token-pulse/src/logger"
)

// performInitialLoad seeds the board, restores saved display settings and
// registers the starting tokens.
func performInitialLoad(
	ctx context.Context,
	sim *feed.Simulator,
	settings *display.SettingsHolder,
	db interfaces.IDatabase,
	appLogger *logger.Logger,
) error {
	appLogger.Info("Fetching initial data...")
	snap, err := sim.Initialize(ctx)
	if err != nil {
		return err
	}

	if err := settings.Load(ctx); err != nil {
		// Defaults stay in effect
		appLogger.Warning("Could not restore display settings: %v", err)
	}

	if err := db.SaveTokens(ctx, snap.Columns); err != nil {
		appLogger.Warning("Could not register tokens: %v", err)
	}

	appLogger.Info("Initialization complete: %d columns, %d records.", snap.ProcessingMetrics.Columns, snap.ProcessingMetrics.Records)
	return nil
}

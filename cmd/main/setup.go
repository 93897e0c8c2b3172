package main

import (
	"context"
	"fmt"
	"time"

	datasource "token-pulse/src/data_source"
	"token-pulse/src/data_source/mock"
	"token-pulse/src/data_source/remote"
	"token-pulse/src/helpers"
	"token-pulse/src/interfaces"
	"token-pulse/src/logger"
	"token-pulse/src/models"
	"token-pulse/src/network"
	"token-pulse/src/observability"
	"token-pulse/src/storage"
)

const (
	dbInitRetries = 5
	dbInitDelay   = 500 * time.Millisecond
)

// -----------------------------------------------------------------------------

// setupMetrics returns nil when metrics are disabled; every recorder is nil safe.
func setupMetrics(config *models.MConfig) *observability.Metrics {
	if !config.Metrics.Enabled {
		return nil
	}
	return observability.NewMetrics(config.Metrics.Namespace)
}

// -----------------------------------------------------------------------------

// setupDatabase initializes the database connection based on config
func setupDatabase(ctx context.Context, config *models.MConfig, metrics *observability.Metrics, appLogger *logger.Logger) (interfaces.IDatabase, error) {
	dbLogger := logger.NewLogger(config, "Database")
	db, err := storage.NewDatabase(config, metrics, dbLogger)
	if err != nil {
		appLogger.Error("Failed to init db: %v", err)
		return nil, err
	}

	// Postgres may still be starting next to us
	err = helpers.RetryWithBackoff(ctx, "database initialize", dbInitRetries, dbInitDelay, appLogger, db.Initialize)
	if err != nil {
		appLogger.Error("Failed to migrate db: %v", err)
		db.Close()
		return nil, err
	}
	return db, nil
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig) interfaces.INetworkManager {
	networkLogger := logger.NewLogger(config, "NetworkManager")
	return network.NewAsyncNetworkManager(config, networkLogger)
}

// -----------------------------------------------------------------------------

// setupDataSources registers the mock source, plus the remote one when a
// URL is configured, and activates the configured source.
func setupDataSources(config *models.MConfig, appLogger *logger.Logger, networkManager interfaces.INetworkManager) (*datasource.MultiSourceManager, error) {
	appLogger.Info("Initializing data sources...")

	manager := datasource.NewMultiSourceManager([]interfaces.IFeedSource{
		mock.NewMockSource(config, logger.NewLogger(config, "MockSource")),
	}, logger.NewLogger(config, "MultiSourceManager"))

	if config.Feed.RemoteURL != "" {
		src := remote.NewRemoteSource(config.Feed.RemoteURL, networkManager, logger.NewLogger(config, "RemoteSource"))
		if err := manager.AddSource(src); err != nil {
			return nil, fmt.Errorf("registering remote source: %w", err)
		}
	}

	if err := manager.SetActive(config.Feed.Source); err != nil {
		return nil, fmt.Errorf("activating source '%s': %w", config.Feed.Source, err)
	}
	appLogger.Info("Active feed source: %s (available: %v)", manager.ActiveName(), manager.SourceNames())
	return manager, nil
}

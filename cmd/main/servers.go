package main

import (
	"context"
	"fmt"

	"token-pulse/src/display"
	"token-pulse/src/feed"
	"token-pulse/src/grpc_control"
	"token-pulse/src/logger"
	"token-pulse/src/models"
	"token-pulse/src/server"
	"token-pulse/src/utils"

	"golang.org/x/sync/errgroup"
)

// -----------------------------------------------------------------------------

// run wires every component and blocks until ctx is cancelled or one of the
// servers fails.
func run(ctx context.Context, config *models.MConfig, appLogger *logger.Logger) error {
	// 1. Setup Components
	metrics := setupMetrics(config)

	db, err := setupDatabase(ctx, config, metrics, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	networkManager := setupNetwork(config)
	sources, err := setupDataSources(config, appLogger, networkManager)
	if err != nil {
		return err
	}

	sim := feed.NewSimulator(sources, config.Feed.HistorySize, metrics, logger.NewLogger(config, "Simulator"))
	settings := display.NewSettingsHolder(db, metrics, logger.NewLogger(config, "Settings"))

	srv := server.NewFastAPIServer(config, sim, settings, metrics, logger.NewLogger(config, "FastAPIServer"))
	srv.DB = db

	// 2. Listeners see every published snapshot, including the initial one
	sim.AddListener(srv.Broadcast)
	sim.AddListener(archiveListener(ctx, db, appLogger))

	// 3. Bootstrap (Initial Load)
	if err := performInitialLoad(ctx, sim, settings, db, appLogger); err != nil {
		srv.Stop()
		return err
	}

	task := newFeedTask(config, sim, db, appLogger)
	control := grpc_control.NewControlService(sim, task, settings, sources, logger.NewLogger(config, "ControlService"))
	control.OnSettingsChanged = srv.Refresh

	// 4. Start Servers and the feed loop
	return startServers(ctx, config, srv, control, task, appLogger)
}

// -----------------------------------------------------------------------------

func startServers(
	ctx context.Context,
	config *models.MConfig,
	srv *server.FastAPIServer,
	control *grpc_control.ControlService,
	task *utils.PeriodicTask,
	appLogger *logger.Logger,
) error {
	g, gctx := errgroup.WithContext(ctx)

	// 1. API and WebSocket server
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Stop()
	})

	// 2. gRPC Control Server
	if config.GrpcPort != 0 {
		addr := fmt.Sprintf("%s:%d", config.GrpcHost, config.GrpcPort)
		g.Go(func() error {
			return grpc_control.Serve(gctx, addr, control, logger.NewLogger(config, "GrpcServer"))
		})
	} else {
		appLogger.Info("gRPC control server disabled")
	}

	// 3. Feed loop
	appLogger.Info("Starting feed loop...")
	g.Go(func() error {
		return task.Run(gctx)
	})

	return g.Wait()
}

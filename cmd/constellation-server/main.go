package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dd0wney/cluso-constellations/pkg/api"
	"github.com/dd0wney/cluso-constellations/pkg/config"
	"github.com/dd0wney/cluso-constellations/pkg/connections"
	"github.com/dd0wney/cluso-constellations/pkg/constellation"
	"github.com/dd0wney/cluso-constellations/pkg/discover"
	"github.com/dd0wney/cluso-constellations/pkg/logging"
	"github.com/dd0wney/cluso-constellations/pkg/metrics"
	"github.com/dd0wney/cluso-constellations/pkg/pubsub"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config and PORT)")
	backend := flag.String("store", "", "Store backend: memory, file, s3 or postgres")
	dataDir := flag.String("data", "", "Data directory for the file store")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *backend != "" {
		cfg.Store.Backend = *backend
	}
	if *dataDir != "" {
		cfg.Store.DataDir = *dataDir
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	logging.SetDefaultLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("server exited")
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	registry := metrics.NewRegistry()

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("store opened", logging.String("backend", cfg.Store.Backend))

	bus := pubsub.NewBus(cfg.Events.BufferSize)
	defer bus.Shutdown()

	catalog := discover.NewCatalog(discover.CatalogConfig{
		Builder:         constellation.NewBuilder(cfg.Build, logger, registry),
		Store:           store,
		Cache:           discover.NewGraphCache(cfg.Cache.Size),
		Bus:             bus,
		Logger:          logger,
		Metrics:         registry,
		WarmParallelism: cfg.Cache.WarmParallelism,
	})
	if err := catalog.Load(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := catalog.Warm(ctx); err != nil {
		logger.Warn("cache warm-up incomplete", logging.Error(err))
	}

	if cfg.Events.Enabled() {
		bridge := pubsub.NewBridge(bus, cfg.Events.Bridge, logger, registry)
		if err := bridge.Start(ctx); err != nil {
			return fmt.Errorf("failed to start event bridge: %w", err)
		}
		defer bridge.Close()

		go func() {
			if err := catalog.Listen(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("event listener stopped", logging.Error(err))
			}
		}()
	}

	server, err := api.NewServer(api.ServerOptions{
		Catalog:   catalog,
		Store:     store,
		Sessions:  connections.NewManager(cfg.Sessions.Max, nil, logger, registry),
		Config:    cfg.Server,
		Challenge: cfg.Challenge,
		Logger:    logger,
		Metrics:   registry,
	})
	if err != nil {
		return err
	}
	defer server.Close()

	return server.Run(ctx)
}

func openStore(ctx context.Context, cfg config.StoreConfig) (discover.Store, error) {
	switch cfg.Backend {
	case config.StoreMemory, "":
		return discover.NewMemoryStore(), nil
	case config.StoreFile:
		return discover.NewFileStore(cfg.DataDir)
	case config.StoreS3:
		return discover.NewS3Store(ctx, cfg.S3)
	case config.StorePostgres:
		return discover.NewPGStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

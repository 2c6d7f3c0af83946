package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buzzline-lab/buzzline/internal/core/analytics"
	corecfg "github.com/buzzline-lab/buzzline/internal/core/config"
	"github.com/buzzline-lab/buzzline/internal/core/storage"
	"github.com/buzzline-lab/buzzline/internal/core/storage/postgres"
	"github.com/buzzline-lab/buzzline/internal/feed"
	"github.com/buzzline-lab/buzzline/internal/migrations"
	"github.com/buzzline-lab/buzzline/internal/query"
	"github.com/buzzline-lab/buzzline/internal/render"
	"github.com/buzzline-lab/buzzline/internal/sentiment"
	"github.com/buzzline-lab/buzzline/internal/server"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "buzzline.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	reportInterval, err := time.ParseDuration(cfg.Report.EffectiveInterval())
	if err != nil {
		slog.Error("Invalid report interval", "value", cfg.Report.EffectiveInterval(), "error", err)
		os.Exit(1)
	}

	// 2. Initialize Storage (optional PostgreSQL record archive)
	var store storage.RecordStore
	var dbAdapter *postgres.Adapter
	if cfg.Database.Enabled {
		dbAdapter, err = postgres.NewAdapter(
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
		)
		if err != nil {
			slog.Error("Failed to initialize archive database", "error", err)
			os.Exit(1)
		}
		defer dbAdapter.Close()

		// 2.1. Run Database Migrations
		if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		store = dbAdapter
	} else {
		slog.Info("Record archive disabled by config")
	}

	// 3. Initialize Analytics Core
	classifier := sentiment.NewVADER()
	aggregator, err := analytics.NewAggregator(
		classifier,
		cfg.KeywordLoading.Keywords,
		cfg.Analytics.VolumeCapacity,
	)
	if err != nil {
		slog.Error("Failed to initialize aggregator", "error", err)
		os.Exit(1)
	}
	slog.Info("Analytics core initialized",
		"keywords", cfg.KeywordLoading.Keywords,
		"volume_capacity", cfg.Analytics.VolumeCapacity,
	)

	// 4. Initialize Feed (HTTP ingest) and Query (read API)
	feedSvc := feed.NewService(aggregator, store, cfg.Server.MaxBodySizeMB)
	querySvc := query.NewService(aggregator)

	// 5. Initialize Server
	var healthDB *sql.DB
	if dbAdapter != nil {
		healthDB = dbAdapter.DB()
	}
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), healthDB, cfg.Server.Mode)
	feedSvc.RegisterRoutes(srv.Engine)
	querySvc.RegisterRoutes(srv.Engine)

	// 6. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return srv.Run(gctx) })

	if cfg.Feed.KafkaEnabled() {
		kafkaFeed, err := feed.NewKafkaFeed(
			cfg.Feed.Brokers,
			cfg.Feed.Topic,
			cfg.Feed.GroupID,
			aggregator,
			store,
		)
		if err != nil {
			slog.Error("Failed to initialize kafka feed", "error", err)
			os.Exit(1)
		}
		g.Go(func() error { return kafkaFeed.Run(gctx) })
	}

	if cfg.Report.Enabled {
		reporter := render.NewReporter(aggregator, reportInterval)
		g.Go(func() error { return reporter.Start(gctx) })
	} else {
		slog.Info("Snapshot reporter disabled by config")
	}

	if err := g.Wait(); err != nil {
		slog.Error("Service stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}

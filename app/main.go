package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-watch/app/api"
	"github.com/lysyi3m/rss-watch/app/cfg"
	"github.com/lysyi3m/rss-watch/app/database"
	"github.com/lysyi3m/rss-watch/app/feed"
	"github.com/lysyi3m/rss-watch/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting RSS Watch", "version", appCfg.Version, "timezone", time.Local.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Connected to database", "path", db.Path())

	feedRepo := database.NewFeedRepository(db)
	keywordRepo := database.NewKeywordRepository(db)
	entryRepo := database.NewEntryRepository(db)

	seedLoader := feed.NewSeedLoader(appCfg.SeedFile)
	seed, err := seedLoader.Run()
	if err != nil {
		slog.Error("Failed to load seed file", "path", appCfg.SeedFile, "error", err)
		os.Exit(1)
	}
	syncSeed(ctx, seed, feedRepo, keywordRepo)

	go func() {
		err := seedLoader.Watch(ctx, func(seed *feed.Seed) {
			syncSeed(ctx, seed, feedRepo, keywordRepo)
		})
		if err != nil {
			slog.Warn("Seed file watcher stopped", "path", seedLoader.Path(), "error", err)
		}
	}()

	httpClient := &http.Client{
		Timeout: appCfg.GetFetchTimeout(),
	}
	fetcher := feed.NewFetcher(httpClient, feed.NewParser(), appCfg.UserAgent, appCfg.GetFetchTimeout())
	cycle := tasks.NewCycle(feedRepo, keywordRepo, entryRepo, fetcher, appCfg.WorkerCount)

	scheduler := tasks.NewScheduler(cycle, appCfg.GetSchedulerInterval(), appCfg.SerializeCycles)
	if err := scheduler.Start(); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(feedRepo, keywordRepo, entryRepo, scheduler, appCfg.BaseUrl, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	scheduler.Stop()

	slog.Info("RSS Watch stopped")
}

func syncSeed(ctx context.Context, seed *feed.Seed, feedRepo database.FeedRepositoryInterface, keywordRepo database.KeywordRepositoryInterface) {
	if len(seed.Feeds) == 0 && len(seed.Keywords) == 0 {
		return
	}

	task := tasks.NewSyncSeedTask(seed, feedRepo, keywordRepo)
	task.Start()
	if err := task.Execute(ctx); err != nil {
		slog.Error("Task failed", "type", string(task.GetType()), "id", task.GetID(), "error", err)
	}
}

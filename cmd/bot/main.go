package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mayra0000/ETSChatbot/config"
	"github.com/mayra0000/ETSChatbot/internal/bot"
	"github.com/mayra0000/ETSChatbot/internal/content"
	"github.com/mayra0000/ETSChatbot/internal/db"
	"github.com/mayra0000/ETSChatbot/internal/engine"
	"github.com/mayra0000/ETSChatbot/internal/metrics"
	"github.com/mayra0000/ETSChatbot/internal/server"
	"github.com/mayra0000/ETSChatbot/internal/session"
	"github.com/mayra0000/ETSChatbot/pkg/logger"
)

func main() {
	l := logger.New()
	l.Infow("Starting ETS triage bot...")

	cfg, err := config.Load()
	if err != nil {
		l.Fatalw("Failed to load config", "error", err)
	}
	if cfg.Development {
		l = logger.NewDevelopment()
	}

	store := session.NewStore()
	catalog := content.NewCatalog()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry, func() float64 { return float64(store.Len()) })

	eng := engine.New(store, catalog, l, m)

	// Optional snapshot database, with connection retry.
	snapshotCtx, stopSnapshots := context.WithCancel(context.Background())
	defer stopSnapshots()
	if cfg.SnapshotEnabled() {
		var snapshots *db.SnapshotStore
		for i := 0; i < 5; i++ {
			snapshots, err = db.NewSnapshotStore(cfg)
			if err == nil {
				break
			}
			l.Errorw("Failed to connect to snapshot database, retrying...", "error", err)
			time.Sleep(time.Duration(i+1) * time.Second)
		}
		if snapshots == nil {
			l.Fatalw("Failed to connect to snapshot database after multiple attempts", "error", err)
		}
		defer snapshots.Close()

		if err := snapshots.InitSchema(snapshotCtx); err != nil {
			l.Fatalw("Failed to prepare snapshot schema", "error", err)
		}
		go db.NewSnapshotter(store, snapshots, cfg.Snapshot.Interval, l).Run(snapshotCtx)
		l.Infow("Session snapshots enabled", "interval", cfg.Snapshot.Interval)
	} else {
		l.Infow("Session snapshots disabled, running in memory only")
	}

	telegramBot, err := bot.NewTelegramBot(cfg.Telegram.Token, cfg.Telegram.Debug, eng, catalog, l)
	if err != nil {
		l.Fatalw("Failed to create Telegram bot", "error", err)
	}

	if err := telegramBot.Start(context.Background()); err != nil {
		l.Fatalw("Failed to start Telegram bot", "error", err)
	}
	l.Infow("Telegram bot started successfully")

	httpServer := server.NewServer(cfg.Server.Port, registry, l)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatalw("Failed to start HTTP server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Infow("Shutting down bot...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	stopSnapshots()
	if err := httpServer.Stop(ctx); err != nil {
		l.Errorw("Error during HTTP server shutdown", "error", err)
	}
	if err := telegramBot.Stop(ctx); err != nil {
		l.Errorw("Error during bot shutdown", "error", err)
	}

	l.Infow("Bot stopped successfully")
}

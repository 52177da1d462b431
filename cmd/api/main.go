package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/closerops/salesboard/internal/api/router"
	"github.com/closerops/salesboard/internal/appointments"
	"github.com/closerops/salesboard/internal/board"
	appconfig "github.com/closerops/salesboard/internal/config"
	"github.com/closerops/salesboard/internal/observability/metrics"
	"github.com/closerops/salesboard/internal/schedule"
	"github.com/closerops/salesboard/pkg/logging"
)

func main() {
	// Load .env in development; ignore absence.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	if cfg.Env == "development" {
		logger = logging.NewText(cfg.LogLevel)
	}
	logger.Info("starting salesboard API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	var repo interface {
		appointments.Repository
		appointments.RosterStore
	}
	if cfg.UseMemoryStore {
		logger.Warn("using in-process store, board state is not shared across instances")
		repo = appointments.NewInMemoryRepository()
	} else {
		redisOptions := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(redisOptions)
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			logger.Error("redis not available", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		cancelPing()
		repo = appointments.NewRedisRepository(redisClient, logger)
	}
	boardMetrics := metrics.NewBoardMetrics(prometheus.DefaultRegisterer)

	roster := schedule.DefaultRoster()
	if cfg.RosterJSON != "" {
		var configured []schedule.StaffMember
		if err := json.Unmarshal([]byte(cfg.RosterJSON), &configured); err != nil {
			logger.Error("invalid ROSTER_JSON", "error", err)
			os.Exit(1)
		}
		roster = configured
	}

	hub := board.NewHub(logger, boardMetrics)
	b := board.New(board.Config{
		Repository:  repo,
		RosterStore: repo,
		Roster:      roster,
		DayStart:    schedule.TimeOfDay(cfg.BoardDayStart),
		DayEnd:      schedule.TimeOfDay(cfg.BoardDayEnd),
		SlotMinutes: cfg.BoardSlotMinutes,
		Logger:      logger,
		Metrics:     boardMetrics,
		OnRefresh:   hub.Refresh,
	})
	hub.Bind(b)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := b.Start(ctx); err != nil {
		logger.Error("board start failed", "error", err)
		os.Exit(1)
	}
	defer b.Stop()

	r := router.New(&router.Config{
		Logger:             logger,
		BoardHandler:       board.NewHandler(b, logger),
		LiveHub:            hub,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

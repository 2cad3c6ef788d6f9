package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ctchen222/tictactoe/internal/api/controller"
	apirepository "ctchen222/tictactoe/internal/api/repository"
	"ctchen222/tictactoe/internal/api/service"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/config"
	"ctchen222/tictactoe/internal/db"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/leaderboard"
	"ctchen222/tictactoe/internal/logger"
	"ctchen222/tictactoe/internal/repository"
	"ctchen222/tictactoe/internal/server"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/telemetry"
)

const defaultConfigPath = "./config.yml"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Init(os.Stdout, level)

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("error shutting down telemetry", "error", err)
		}
	}()

	// Initialize SQLite DB
	DB, err := db.OpenSQLite(ctx, cfg.Storage.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to initialize sqlite db: %w", err)
	}
	defer DB.Close()

	// Initialize Redis when a component needs it
	var publishers []events.Publisher
	leaderboardRepo := repository.NewSQLiteLeaderboardRepository(DB)
	if cfg.Storage.Backend == config.BackendRedis || cfg.Redis.PublishEvents {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer rdb.Close()

		if cfg.Storage.Backend == config.BackendRedis {
			leaderboardRepo = repository.NewRedisLeaderboardRepository(rdb)
		}
		if cfg.Redis.PublishEvents {
			publishers = append(publishers, events.NewRedisPublisher(rdb))
		}
	}
	slog.InfoContext(ctx, "storage ready", "leaderboard.backend", cfg.Storage.Backend, "events.redis", cfg.Redis.PublishEvents)

	// Create services
	userService := service.NewUserService(apirepository.NewUserRepository(DB), cfg.Auth)
	leaderboardService := leaderboard.NewService(leaderboardRepo)
	sessions, err := session.NewManager(leaderboardService, bot.NewSource(cfg.Bot.Seed), publishers...)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	// Create the Gin-based server
	srv := server.NewServer(
		userService,
		controller.NewUserController(userService),
		controller.NewSessionController(sessions),
		controller.NewLeaderboardController(leaderboardService),
		sessions,
	)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Record an unfinished session before the process goes away.
	if summary, err := sessions.End(shutdownCtx); err == nil {
		slog.Info("active session recorded on shutdown", "session.id", summary.SessionID, "saved", summary.Saved)
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exiting")
	return nil
}

// configPath prefers CONFIG_PATH, then ./config.yml when present. An empty
// result means configuration comes from the environment alone.
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

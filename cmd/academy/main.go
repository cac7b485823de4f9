// Package main is the entry point of the academy hub: the state engine,
// local persistence, cloud snapshot sync, and the REST API used by the
// front desk and the check-in totem of a Brazilian Jiu-Jitsu academy.
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

	"github.com/joho/godotenv"

	"github.com/treebjj/academy-hub/config"
	"github.com/treebjj/academy-hub/internal/domain/user"
	"github.com/treebjj/academy-hub/internal/engine"
	"github.com/treebjj/academy-hub/internal/infrastructure/external/docstore"
	"github.com/treebjj/academy-hub/internal/infrastructure/messaging"
	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/localstore"
	redisstore "github.com/treebjj/academy-hub/internal/infrastructure/persistence/redis"
	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/sqlite"
	"github.com/treebjj/academy-hub/internal/infrastructure/scheduler"
	syncadapter "github.com/treebjj/academy-hub/internal/infrastructure/sync"
	httpserver "github.com/treebjj/academy-hub/internal/interface/http"
	"github.com/treebjj/academy-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration
	// ─────────────────────────────────────────────────────────────────────────
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Logging
	// ─────────────────────────────────────────────────────────────────────────
	slogger := setupSlog(cfg)
	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	})

	slogger.Info("starting academy hub",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"store", string(cfg.Store.Backend),
		"sync", cfg.Sync.Enabled,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Local slot store
	// ─────────────────────────────────────────────────────────────────────────
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open slot store: %w", err)
	}
	defer closeStore()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Event bus
	// ─────────────────────────────────────────────────────────────────────────
	busConfig := messaging.DefaultConfig()
	busConfig.Logger = slogger
	bus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		_ = bus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. Operator accounts
	// ─────────────────────────────────────────────────────────────────────────
	var accounts []*user.User
	if cfg.Admin.Password != "" {
		admin, err := user.NewUser("admin", cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password, user.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}
		accounts = append(accounts, admin)
	} else {
		slogger.Warn("ADMIN_PASSWORD not set, login is disabled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. State engine
	// ─────────────────────────────────────────────────────────────────────────
	app, err := engine.New(engine.Config{
		Store:    store,
		Bus:      bus,
		Logger:   log,
		Accounts: accounts,
	})
	if err != nil {
		return fmt.Errorf("failed to build state engine: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. Cloud sync (optional)
	// ─────────────────────────────────────────────────────────────────────────
	cfg.Features.SetEnabled(config.FeatureCloudSync, cfg.Sync.Enabled)

	var adapter *syncadapter.Adapter
	jobRunner := scheduler.New(slogger, nil)

	if cfg.Sync.Enabled {
		docConfig := docstore.DefaultConfig(cfg.Sync.Endpoint)
		docConfig.APIKey = cfg.Sync.APIKey
		docConfig.Timeout = cfg.Sync.RequestTimeout
		docConfig.Logger = slogger

		adapter, err = syncadapter.New(syncadapter.Config{
			Source:        app,
			Remote:        docstore.NewClient(docConfig),
			Store:         store,
			Bus:           bus,
			Logger:        slogger,
			DebounceDelay: cfg.Sync.DebounceDelay,
			PollInterval:  cfg.Sync.PollInterval,
		})
		if err != nil {
			return fmt.Errorf("failed to build sync adapter: %w", err)
		}
		defer adapter.Stop()

		if err := adapter.Start(ctx); err != nil {
			return fmt.Errorf("failed to start sync adapter: %w", err)
		}

		if err := jobRunner.Register(adapter.PullJob(), adapter.PollSchedule()); err != nil {
			return fmt.Errorf("failed to register pull job: %w", err)
		}
		if err := jobRunner.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			_ = jobRunner.Stop()
		}()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(httpConfig, httpserver.Dependencies{
		Engine: app,
		Sync:   adapter,
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	slogger.Info("academy hub is running",
		"address", httpConfig.Address(),
		"students", len(app.Students()),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. Graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		slogger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		slogger.Error("service error", "error", err)
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slogger.Error("failed to stop HTTP server gracefully", "error", err)
		return err
	}

	slogger.Info("shutdown completed")
	return nil
}

// openStore builds the configured slot store and returns a close func.
func openStore(cfg *config.Config) (localstore.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreSQLite:
		s, err := sqlite.NewStore(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.StoreRedis:
		redisConfig := redisstore.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			KeyPrefix:    cfg.Redis.KeyPrefix,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}
		s, err := redisstore.NewStore(redisConfig)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	default:
		s, err := localstore.NewFileStore(cfg.Store.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
}

// setupSlog configures the structured logger used by infrastructure.
func setupSlog(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

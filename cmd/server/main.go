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

	"dragons-den/internal/cooldown"
	"dragons-den/internal/gamedata"
	"dragons-den/internal/middleware"
	"dragons-den/internal/player"
	"dragons-den/internal/server"
	"dragons-den/internal/shared/config"
	"dragons-den/internal/shared/database"
	"dragons-den/internal/shared/logger"
	"dragons-den/internal/shared/redis"
	"dragons-den/internal/world"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init()
	log := slog.With("component", "main")

	if err := run(log); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := config.GlobalConfig
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	var cooldowns cooldown.Store
	if rdb != nil {
		defer rdb.Close()
		cooldowns = cooldown.NewRedisStore(rdb.Client)
	} else {
		cooldowns = cooldown.NewMemoryStore(time.Now)
	}

	catalog, err := gamedata.Load(cfg.Game.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load game catalog: %w", err)
	}

	worldCfg := world.DefaultConfig(cfg.Game.WorldSeed)
	worldCfg.Width = cfg.Game.WorldWidth
	worldCfg.Height = cfg.Game.WorldHeight
	registry := world.Generate(worldCfg)
	log.Info("World generated",
		"seed", worldCfg.Seed,
		"locations", len(registry.Locations()),
		"ruins", registry.RuinCount(),
	)

	playerService := player.NewService(player.NewRepository(db, slog.Default()), player.Options{
		Catalog:   catalog,
		World:     registry,
		Cooldowns: cooldowns,
		Durations: map[cooldown.Kind]time.Duration{
			cooldown.KindMinions: cfg.Game.MinionCooldown,
			cooldown.KindExplore: cfg.Game.ExploreCooldown,
		},
	}, slog.Default())

	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	defer limiter.Close()

	mux := server.NewRoutes(db, playerService, catalog, registry, slog.Default()).Setup()
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.Handler(mux, middleware.NewCORS(cfg.Frontend), limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Dragon's Den server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"frontend_url", cfg.Frontend.URL,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

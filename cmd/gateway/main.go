package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/acreblitz/fieldgate/internal/adapters/http"
	"github.com/acreblitz/fieldgate/internal/adapters/johndeere"
	"github.com/acreblitz/fieldgate/internal/adapters/valkey"
	"github.com/acreblitz/fieldgate/internal/adapters/weather"
	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/core/ports"
	"github.com/acreblitz/fieldgate/internal/core/registry"
	"github.com/acreblitz/fieldgate/internal/core/usecases"
	"github.com/acreblitz/fieldgate/internal/pkg/config"
	"github.com/acreblitz/fieldgate/internal/pkg/logging"
	"github.com/acreblitz/fieldgate/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("fieldgate")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache
	var cache *valkey.Cache
	if cfg.Valkey.Enabled {
		cache, err = valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, running without cache", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Providers. Token rotation is logged here; persistence belongs to the
	// platform backend that stores connections.
	reg := registry.New()
	onRotated := ports.RefreshTokenRotated(func(_ context.Context, p domain.Provider, _ string) {
		slog.Info("refresh token rotated", "provider", p)
	})
	johndeere.Register(reg, johndeere.Config{
		ClientID:            cfg.JohnDeere.ClientID,
		ClientSecret:        cfg.JohnDeere.ClientSecret,
		RedirectURI:         cfg.JohnDeere.RedirectURI,
		ApplicationID:       cfg.JohnDeere.ApplicationID,
		AuthorizeURL:        cfg.JohnDeere.AuthorizeURL,
		TokenURL:            cfg.JohnDeere.TokenURL,
		RevokeURL:           cfg.JohnDeere.RevokeURL,
		APIBaseURL:          cfg.JohnDeere.APIBaseURL,
		ConnectionsTemplate: cfg.JohnDeere.ConnectionsTemplate,
	}, onRotated)

	// ports.CacheService is satisfied by *valkey.Cache; a nil interface keeps
	// the services cache-free when valkey is down.
	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}

	deps := &http.Dependencies{
		Registry:   reg,
		Auth:       usecases.NewAuthService(reg),
		Fields:     usecases.NewFieldService(reg, cacheSvc),
		Boundaries: usecases.NewBoundaryService(reg, cacheSvc),
		WorkPlans:  usecases.NewWorkPlanService(reg, cacheSvc),
		Weather:    weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.UserAgent, cacheSvc),
		Cache:      cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "FieldGate API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.acreblitz.com",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Refresh-Token",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("gateway starting", "addr", addr, "providers", reg.Known())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

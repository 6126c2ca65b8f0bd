package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	internalhttp "github.com/EternisAI/bot-tracker/internal/api/http"
	"github.com/EternisAI/bot-tracker/internal/api/http/middleware"
	"github.com/EternisAI/bot-tracker/internal/broadcasts"
	"github.com/EternisAI/bot-tracker/internal/instances"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var AppVersion = "1.0.0"

func main() {
	InitConfig()

	slog.Info("Bot Tracker Server", "version", AppVersion)

	if config.Broadcast.OwnerKey == defaultOwnerKey {
		slog.Warn("Using the fallback owner key, set OWNER_KEY before exposing this server")
	}

	registry := instances.NewRegistry(
		instances.WithActiveWindow(config.Registry.ActiveWindow),
		instances.WithRetention(config.Registry.Retention),
	)
	broadcastLog := broadcasts.NewLog(config.Broadcast.OwnerKey,
		broadcasts.WithCapacity(config.Broadcast.Capacity),
	)

	services := &internalhttp.Services{
		Registry:   registry,
		Broadcasts: broadcastLog,
		Version:    AppVersion,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	if err := engine.SetTrustedProxies(ParseCommaSeparated(config.Http.TrustedProxies)); err != nil {
		slog.Error("Invalid trusted proxies", "error", err)
		os.Exit(1)
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  ParseCommaSeparated(config.Cors.AllowOrigins),
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(gin.Recovery())
	engine.Use(middleware.RateLimit(config.Http.RateLimit.RequestsPerSecond, config.Http.RateLimit.Burst))
	internalhttp.SetupRoute(engine, services)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Http.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		slog.Error("Server error", "error", err)
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}

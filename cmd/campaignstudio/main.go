// Package main is the entry point for the campaign studio server.
// It loads configuration, wires the AI providers and session store, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"campaignstudio/internal/ai"
	"campaignstudio/internal/config"
	"campaignstudio/internal/handlers"
	"campaignstudio/internal/metrics"
	"campaignstudio/internal/render"
	"campaignstudio/internal/router"
	"campaignstudio/internal/session"
)

func main() {
	// Structured logger for the whole process.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load a local .env file if present; real environments set vars directly.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"text_model", cfg.GeminiModel,
	)

	// Session store: Valkey when configured, in-memory otherwise.
	// In non-development environments, session cookies are Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	var sessionStore session.Store
	if cfg.HasValkey() {
		valkeyClient, err := session.ConnectValkey(context.Background(), cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		sessionStore = session.NewValkeyStore(valkeyClient, session.DefaultTTL, secureCookies)
		slog.Info("valkey session store connected", "host", cfg.ValkeyHost)
	} else {
		sessionStore = session.NewMemoryStore(session.DefaultTTL, secureCookies)
		slog.Info("using in-memory session store")
	}

	// Initialize the HTML template renderer. In dev mode, templates load
	// assets from CDN; in production they use local static files.
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// AI providers: Gemini for campaign text, Imagen for variant visuals.
	aiRegistry := ai.NewRegistry("gemini", map[string]ai.ProviderConfig{
		"gemini": {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
	})
	aiRegistry.SetImager(ai.NewImagen(ai.ImagenConfig{
		APIKey:    cfg.CloudAPIKey,
		ProjectID: cfg.CloudProjectID,
		Region:    cfg.CloudRegion,
		Models:    cfg.ImagenModels,
	}))

	slog.Info("ai providers initialized",
		"text_provider", aiRegistry.ActiveName(),
		"image_generation", aiRegistry.SupportsImageGeneration(),
	)

	studio := handlers.NewStudio(aiRegistry, sessionStore, metrics.New(), renderer)
	r := router.New(sessionStore, studio)

	// WriteTimeout must accommodate the image endpoint, which may walk the
	// whole Imagen fallback chain before answering.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

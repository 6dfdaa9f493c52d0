// ShopNest storefront gateway. One instance serves one shopper's
// session: it holds the cart and wishlist, persists guest state in a
// local database, and reconciles it with the ShopNest backend at
// sign-in. The UI and agent clients talk to it over a local HTTP API
// and an MCP endpoint.
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

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/backend"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/cart"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/config"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/handler"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/localstore"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/middleware"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/session"
	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/wishlist"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := initLogger()

	// Load configuration
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("storefront_id", cfg.StorefrontID),
		slog.String("environment", cfg.Environment),
		slog.String("backend_url", cfg.Storefront.BackendURL),
		slog.String("state_path", cfg.Storefront.StatePath),
	)

	// Local state database: guest buckets, persisted identities, theme
	local, err := localstore.Open(cfg.Storefront.StatePath)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer local.Close()

	sessions := session.New(local, logger)
	be := backend.NewClient(cfg.Storefront.BackendURL, cfg.Storefront.GatewayKey)

	// Cart and wishlist subscribe to session transitions, so they must
	// exist before Restore fires the persisted identities through.
	cartSvc := cart.New(be, local, sessions, logger)
	defer cartSvc.Close()
	wishSvc := wishlist.New(be, local, sessions, logger)
	defer wishSvc.Close()

	sessions.Restore()

	h := handler.New(sessions, cartSvc, wishSvc, be, local, logger)

	// Setup routes
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// Middleware chain: recovery → logging → agent negotiation → handler
	// Recovery must be outermost to catch panics from logging middleware
	httpHandler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.Agent(logger),
	)(mux)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Channel for server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
		)
		serverErr <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	// Drain queued uploads before the deferred Close tears them down.
	cartSvc.Flush()
	wishSvc.Flush()

	logger.Info("server stopped")
	return nil
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format for GCP Cloud Logging compatibility.
// Development uses text format for readability.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source location in debug mode
		AddSource: level == slog.LevelDebug,
	}

	// JSON for production (Cloud Logging compatible), text for development
	if os.Getenv("ENVIRONMENT") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

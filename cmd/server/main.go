/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the savings engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, then flags)
  2. Initialize logger and tracer provider
  3. Create API handler, optionally loading a demo scenario
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (overrides PORT)
  -scenario  Demo scenario to load at startup (overrides DEFAULT_SCENARIO)

ENVIRONMENT:
  PORT, LOG_LEVEL, LOG_JSON, ALLOWED_ORIGINS, OTEL_ENDPOINT,
  OTEL_SERVICE_NAME, DEFAULT_SCENARIO. See config/config.go.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Flush pending spans
  4. Exit

EXAMPLES:
  # Start with the Lifetime ISA demo loaded
  ./server -scenario=lifetime-isa

  # Run on different port, exporting traces
  OTEL_ENDPOINT=localhost:4318 ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - config/config.go: Settings
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/savings-engine/api"
	"github.com/warp/savings-engine/config"
	"github.com/warp/savings-engine/logging"
	"github.com/warp/savings-engine/tracing"
)

func main() {
	cfg := config.Load()

	// Flags
	port := flag.String("port", cfg.Port, "HTTP server port")
	scenario := flag.String("scenario", cfg.DefaultScenario, "Demo scenario to load at startup")
	flag.Parse()
	cfg.Port = *port
	cfg.DefaultScenario = *scenario

	logger := logging.New(logging.Config{
		Level:     logging.ParseLevel(cfg.LogLevel),
		Component: "app",
		JSON:      cfg.LogJSON,
		Output:    os.Stdout,
	})
	logging.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", logging.FieldError, err.Error())
		os.Exit(1)
	}

	// Tracing
	shutdownTracing, err := tracing.Init(context.Background(), cfg.OTELServiceName, cfg.OTELEndpoint)
	if err != nil {
		logger.Error("failed to initialize tracing", logging.FieldError, err.Error())
		os.Exit(1)
	}

	// Initialize handler
	handler := api.NewHandler(logger)
	if cfg.DefaultScenario != "" {
		if err := handler.Load(context.Background(), cfg.DefaultScenario); err != nil {
			logger.Warn("failed to load startup scenario",
				"scenario", cfg.DefaultScenario,
				logging.FieldError, err.Error(),
			)
		}
	}

	// Create router
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	// Create server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			"addr", "http://localhost"+cfg.Addr(),
			"otel_endpoint", cfg.OTELEndpoint,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", logging.FieldError, err.Error())
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", logging.FieldError, err.Error())
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("failed to flush traces", logging.FieldError, err.Error())
	}

	logger.Info("server stopped")
}

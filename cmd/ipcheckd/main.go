package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	checkpkg "github.com/MuratOzte/securekit/internal/check"
	"github.com/MuratOzte/securekit/internal/config"
	"github.com/MuratOzte/securekit/internal/data"
	checkhandler "github.com/MuratOzte/securekit/internal/handler/check"
	"github.com/MuratOzte/securekit/internal/handler/health"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logging
	logLevel := getLogLevel(os.Getenv("LOG_LEVEL"))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("service starting", "log_level", logLevel.String())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// Set Gin mode based on log level
	if logLevel == slog.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(ginLogger(logger))
	router.Use(gin.Recovery())

	// Select the lookup backend: local MMDB when configured, vpnapi.io
	// otherwise. The vpnapi client supports key hot reload from the env
	// file so a rotated key does not require a restart.
	var lookup data.InfoLookup
	source := "vpnapi"
	if cfg.MMDBPath != "" {
		reader, err := data.NewMmdbReader(cfg.MMDBPath)
		if err != nil {
			slog.Error("failed to open MMDB", "path", cfg.MMDBPath, "error", err)
			os.Exit(1)
		}
		lookup = reader
		source = "mmdb"
		slog.Info("MMDB loaded", "path", cfg.MMDBPath)
	} else {
		client := data.NewVPNAPIClient(cfg.APIKey)
		lookup = client

		watcher, err := config.Watch(config.EnvFile, func() {
			key, err := config.ReloadAPIKey()
			if err != nil {
				slog.Warn("env file changed but API key is unusable", "error", err)
				return
			}
			client.SetAPIKey(key)
			slog.Info("API key reloaded from env file")
		})
		if err != nil {
			slog.Warn("env file watch unavailable", "error", err)
		} else {
			defer watcher.Close()
		}
	}
	defer lookup.Close()

	// Register health endpoints
	healthHandler := health.NewHandler(source, nil)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Register API endpoints
	checkHandler := checkhandler.NewHandler(checkpkg.NewChecker(lookup))
	api := router.Group("/api/v1")
	{
		api.GET("/check/:ip", checkHandler.Check)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("service started", "port", cfg.Port, "source", source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("service shutting down")

	// Graceful shutdown with 30s timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("service stopped")
}

// getLogLevel converts string log level to slog.Level
func getLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ginLogger creates a Gin middleware that logs using slog
func ginLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		attrs := []any{
			"method", method,
			"path", path,
			"status", statusCode,
			"duration_ms", duration.Milliseconds(),
		}

		if len(c.Errors) > 0 {
			logger.Error("request completed with errors", append(attrs, "errors", c.Errors.String())...)
		} else if statusCode >= 500 {
			logger.Error("request completed", attrs...)
		} else if statusCode >= 400 {
			logger.Warn("request completed", attrs...)
		} else {
			logger.Info("request completed", attrs...)
		}
	}
}

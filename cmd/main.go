package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "iptvsite/docs"
	"iptvsite/internal/app"
	"iptvsite/internal/config"
	"iptvsite/internal/logger"
	"iptvsite/internal/telemetry"
	"iptvsite/internal/utils/helpers"

	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// @title IPTV Site API
// @version 1.0
// @description Storefront content and admin back office API.
// @BasePath /
func main() {
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		os.Exit(1)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		logger.Log.Warn("config", zap.String("warning", w))
	}
	if err != nil {
		logger.Log.Fatal("invalid config", zap.Error(err))
	}
	helpers.Detailed = !cfg.IsProduction()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Log.Fatal("tracing init failed", zap.Error(err))
	}

	a, err := app.InitApp(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("app init failed", zap.Error(err))
	}
	defer a.Close()

	handler := corsFor(cfg).Handler(a.Router)
	if cfg.OTelEndpoint != "" {
		handler = otelhttp.NewHandler(handler, cfg.ServiceName)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Log.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Log.Warn("tracer shutdown failed", zap.Error(err))
	}
}

// loadConfig reports failures on stderr since the logger is built from the config.
func loadConfig(stderr io.Writer) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(stderr, "config load failed:", err)
		return nil, err
	}
	return cfg, nil
}

// corsFor reflects any origin in development. In production only the storefront
// and local dev origins may send credentials.
func corsFor(cfg *config.Config) *cors.Cors {
	opts := cors.Options{
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
	}
	if cfg.IsProduction() {
		opts.AllowedOrigins = []string{cfg.FrontendURL, "http://localhost:3000", "http://127.0.0.1:3000"}
	} else {
		opts.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(opts)
}

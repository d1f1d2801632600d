package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/orza-agritech/web/orza-sync/pkg/safego"
)

// NOTE: The App struct and NewApp function are defined in providers.go for Wire.
// This file should only contain methods for the App struct, like Run().

// Run starts the background machinery of the sync engine and blocks until a
// shutdown signal arrives or ctx is cancelled: the notification poller, and an
// optional metrics listener. Queries and mutations themselves are pull-based
// and need no server loop.
func (a *App) Run(ctx context.Context) error {
	version := "unknown"
	serviceName := "orza-sync"
	if a.configProvider != nil && a.configProvider.Get() != nil {
		configApp := a.configProvider.Get().App
		if configApp.Version != "" {
			version = configApp.Version
		}
		if configApp.ServiceName != "" {
			serviceName = configApp.ServiceName
		}
	}
	a.logger.Info(ctx, "Starting sync engine", "service_name", serviceName, "version", version)

	var metricsServer *http.Server
	if addr := a.configProvider.Get().App.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.Handler())
		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{"status":"OK"}`)
		})
		metricsServer = &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		safego.Execute(ctx, a.logger, "MetricsListener", func() {
			a.logger.Info(ctx, "Metrics endpoint listening", "addr", addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error(ctx, "Metrics listener error", "error", err.Error())
			}
		})
	}

	a.notifications.StartPolling(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		a.logger.Info(context.Background(), "Shutdown signal received, initiating graceful shutdown...", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info(context.Background(), "Application context cancelled, initiating graceful shutdown...")
	}

	shutdownTimeout := 10 * time.Second
	if a.configProvider != nil && a.configProvider.Get() != nil {
		configApp := a.configProvider.Get().App
		if configApp.ShutdownTimeoutSeconds > 0 {
			shutdownTimeout = time.Duration(configApp.ShutdownTimeoutSeconds) * time.Second
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.notifications.StopPolling()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error(context.Background(), "Metrics listener graceful shutdown failed", "error", err.Error())
		}
	}

	a.logger.Info(context.Background(), "Sync engine shut down gracefully.")
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/entrhq/adpilot/pkg/browser"
	"github.com/entrhq/adpilot/pkg/config"
	"github.com/entrhq/adpilot/pkg/logging"
	"github.com/entrhq/adpilot/pkg/metrics"
	"github.com/entrhq/adpilot/pkg/progress"
	"github.com/entrhq/adpilot/pkg/publisher"
	"github.com/entrhq/adpilot/pkg/server"
	"github.com/entrhq/adpilot/pkg/task"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init(cfg.Server.Environment)
	defer func() { _ = logging.Sync() }()

	factory := browser.NewFactory(cfg.Browser)
	if err := factory.Initialize(); err != nil {
		logging.Error("failed to initialize browser engine", zap.Error(err))
		os.Exit(1)
	}
	defer func() { _ = factory.Shutdown() }()

	manager, err := browser.NewManager(factory, cfg.Browser)
	if err != nil {
		logging.Error("failed to create session manager", zap.Error(err))
		os.Exit(1)
	}

	pub := publisher.New(
		publisher.NewBrowserSource(manager),
		publisher.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Backoff:     cfg.Retry.Backoff,
		},
		cfg.Capture.Dir,
	)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := progress.NewHub(metrics.HubObserver{}, cfg.Stream.SubscriberBuffer)
	go hub.Run(hubCtx)

	coordinator := task.NewCoordinator(pub, hub, metrics.TaskObserver{})

	handler := server.NewHandler(coordinator, hub, cfg.Uploads.Dir)
	router := server.NewRouter(handler, cfg.Server.Environment)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logging.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("forced shutdown", zap.Error(err))
	}

	// Let in-flight publications reach a terminal state before the browser
	// engine goes away.
	coordinator.Wait()
	stopHub()

	logging.Info("server stopped")
}

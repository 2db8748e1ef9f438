package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/app"
	"github.com/Barathimeena/AirRoute-Hub/internal/config"
	"github.com/Barathimeena/AirRoute-Hub/internal/handlers"
	"github.com/Barathimeena/AirRoute-Hub/internal/logging"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/Barathimeena/AirRoute-Hub/internal/notification"
	"github.com/Barathimeena/AirRoute-Hub/internal/router"
	"github.com/Barathimeena/AirRoute-Hub/internal/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialise: %v", err)
	}
	defer a.Close()

	temporalClient, err := a.TemporalClient()
	if err != nil {
		logrus.Fatal(err)
	}
	defer temporalClient.Close()
	logrus.WithField("host", cfg.Temporal.HostPort).Info("Connected to Temporal")

	// Single-process mode hosts the workflow worker and the reminder
	// sweeper next to the API
	if cfg.Server.EmbeddedWorker {
		w := a.NewWorker(temporalClient)
		if err := w.Start(); err != nil {
			logrus.Fatalf("Failed to start worker: %v", err)
		}
		defer w.Stop()

		sweeper, err := a.Sweeper()
		if err != nil {
			logrus.Fatalf("Failed to create sweeper: %v", err)
		}
		if err := sweeper.Start(ctx); err != nil {
			logrus.Fatalf("Failed to start sweeper: %v", err)
		}
		defer sweeper.Shutdown()

		go func() {
			if err := a.RunMailConsumer(ctx); err != nil {
				logrus.WithError(err).Error("Mail consumer stopped")
			}
		}()
	}

	svc := a.Service(temporalClient)

	hub := websocket.NewHub(a.Clock, func(ctx context.Context, bookingID string) (*models.Countdown, error) {
		return svc.Countdown(ctx, bookingID)
	})
	go hub.Run(ctx)

	if a.Redis != nil {
		go func() {
			if err := notification.Relay(ctx, a.Redis, cfg.Redis.NotificationChannel, hub); err != nil {
				logrus.WithError(err).Error("Notification relay stopped")
			}
		}()
	} else {
		a.Notifications.Subscribe(hub)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.SetupRouter(handlers.NewHandler(svc), hub),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("API server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("Server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
		return
	}
	logrus.Info("Server stopped")
}

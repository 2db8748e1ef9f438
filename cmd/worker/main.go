package main

import (
	"context"

	"github.com/Barathimeena/AirRoute-Hub/internal/app"
	"github.com/Barathimeena/AirRoute-Hub/internal/config"
	"github.com/Barathimeena/AirRoute-Hub/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"go.temporal.io/sdk/worker"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialise: %v", err)
	}
	defer a.Close()

	logrus.WithField("host", cfg.Temporal.HostPort).Info("Connecting to Temporal...")
	c, err := a.TemporalClient()
	if err != nil {
		logrus.Fatal(err)
	}
	defer c.Close()
	logrus.Info("Connected to Temporal")

	w := a.NewWorker(c)

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

	logrus.WithField("queue", cfg.Temporal.TaskQueue).Info("Starting Temporal worker...")
	if err := w.Run(worker.InterruptCh()); err != nil {
		logrus.Errorf("Worker failed: %v", err)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sports-edge/internal/health"
	"github.com/yourusername/sports-edge/internal/metrics"
	"github.com/yourusername/sports-edge/internal/publisher"
	"github.com/yourusername/sports-edge/internal/scheduler"
	"github.com/yourusername/sports-edge/internal/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Scan on the polling interval, publish results and serve health, metrics and opportunities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"sports":      cfg.Scan.Sports,
		"interval_s":  cfg.Schedule.PollingIntervalSeconds,
	}).Info("Edge scanner starting")

	p, err := buildPipeline(ctx, cfg.Scan.Sports)
	if err != nil {
		return err
	}
	defer p.Close()

	var (
		pub   scheduler.Publisher
		redis health.DatabasePinger
	)
	if cfg.Redis.Enabled {
		client := publisher.NewRedisClient(&cfg.Redis)
		defer client.Close()

		redisPub := publisher.NewRedisPublisher(client, &cfg.Redis, p.scanner.Calculator().StakeFor, appLog)
		if err := redisPub.Ping(ctx); err != nil {
			appLog.WithError(err).Warn("Redis not reachable at startup; publishing will be retried each cycle")
		}
		pub, redis = redisPub, redisPub
	}

	store := service.NewResultStore()

	healthCfg := health.Config{
		ServiceName: "edge-scanner",
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		DB:          p.db,
		Redis:       redis,
		Results:     store,
	}
	if cfg.Metrics.Enabled {
		healthCfg.Metrics = metrics.Handler()
		healthCfg.MetricsPath = cfg.Metrics.Path
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return err
	}

	sched := scheduler.NewScheduler(p.scanner, p.feed, store, pub, appLog)

	// First cycle runs immediately so /opportunities has data before the first tick
	if _, err := sched.RunOnce(ctx); err != nil {
		appLog.WithError(err).Warn("Initial scan failed")
	}

	if err := sched.ScheduleScanPolling(cfg.Schedule.PollingIntervalSeconds); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
	healthServer.SetReady(false)

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Scheduler did not stop cleanly")
	}

	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Health server did not stop cleanly")
	}

	appLog.Info("Edge scanner stopped")
	return nil
}

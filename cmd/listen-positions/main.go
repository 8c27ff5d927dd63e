// Command listen-positions prints position snapshots published on
// mm_position_updates for a bounded time.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mmtools/broker"
	"mmtools/internal/config"
	"mmtools/internal/logger"
	"mmtools/internal/metrics"
	"mmtools/listener"

	"go.uber.org/zap"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	redisURL := flag.String("redis-url", settings.RedisURL, "Redis URL")
	logLevel := flag.String("log-level", settings.LogLevel, "Log level")
	metricsAddr := flag.String("metrics-addr", settings.MetricsAddr, "Serve Prometheus metrics on this address")
	timeout := flag.Int("timeout", 60, "Listen timeout in seconds")
	flag.Parse()

	log := logger.New(*logLevel)
	defer log.Sync()

	if err := run(*redisURL, *metricsAddr, time.Duration(*timeout)*time.Second, log); err != nil {
		log.Error("listener failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(redisURL, metricsAddr string, budget time.Duration, log *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("connecting to redis", zap.String("url", redisURL))
	rdb, err := broker.Connect(ctx, redisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("connected to redis")

	if srv := metrics.Serve(metricsAddr); srv != nil {
		defer srv.Close()
	}

	fmt.Printf("Listening for position updates for %s...\n", budget)
	reason, err := listener.ListenPositions(ctx, rdb, budget, os.Stdout, log)
	if err != nil {
		return err
	}

	switch reason {
	case listener.StopTimeout:
		fmt.Println("\nTimeout reached. Exiting.")
	case listener.StopInterrupted:
		fmt.Println("\nListener stopped by user")
	}
	return nil
}

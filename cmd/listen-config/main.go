// Command listen-config prints every message published on mm_config until
// interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

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
	flag.Parse()

	log := logger.New(*logLevel)
	defer log.Sync()

	if err := run(*redisURL, *metricsAddr, log); err != nil {
		log.Error("listener failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(redisURL, metricsAddr string, log *zap.Logger) error {
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

	if err := listener.ListenConfig(ctx, rdb, os.Stdout, log); err != nil {
		return err
	}

	fmt.Println("\nExiting...")
	return nil
}

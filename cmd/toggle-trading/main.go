// Command toggle-trading flips enable_trading in an existing configuration
// record without touching any other field.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"mmtools/broker"
	"mmtools/internal/config"
	"mmtools/internal/logger"
	"mmtools/mmconfig"

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
	symbol := flag.String("symbol", "BTC", "Trading symbol to configure")
	enable := flag.Bool("enable", false, "Enable trading (default)")
	disable := flag.Bool("disable", false, "Disable trading")
	flag.Parse()

	log := logger.New(*logLevel)
	defer log.Sync()

	state, conflict := tradingState(*enable, *disable)
	if conflict {
		log.Warn("both --enable and --disable given, disabling")
	}

	if err := run(*redisURL, *symbol, state, log); err != nil {
		if errors.Is(err, mmconfig.ErrNotFound) {
			reportMissing(os.Stdout, *symbol)
			log.Error("no configuration stored", zap.String("symbol", *symbol))
		} else {
			log.Error("toggle trading failed", zap.Error(err))
		}
		log.Sync()
		os.Exit(1)
	}
}

// tradingState resolves --enable and --disable. Without either flag trading
// is enabled. --disable wins over --enable; conflict reports that both were
// given.
func tradingState(enable, disable bool) (state, conflict bool) {
	return !disable, enable && disable
}

func reportMissing(w io.Writer, symbol string) {
	fmt.Fprintf(w, "No configuration found for %s. Please run send-config first.\n", symbol)
}

func run(redisURL, symbol string, enable bool, log *zap.Logger) error {
	ctx := context.Background()

	log.Info("connecting to redis", zap.String("url", redisURL))
	rdb, err := broker.Connect(ctx, redisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("connected to redis")

	t, err := mmconfig.NewStore(rdb).SetTrading(ctx, symbol, enable)
	if err != nil {
		return err
	}

	fmt.Printf("Updated configuration for %s: enable_trading %t -> %t\n", symbol, t.Old, t.New)
	fmt.Printf("Configuration: %s\n", t.Record)
	return nil
}

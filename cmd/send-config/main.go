// Command send-config stores a freshly built configuration record under
// config:<SYMBOL>, replacing whatever was there.
package main

import (
	"context"
	"flag"
	"fmt"
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
	levels := flag.Int("levels", 1, "Number of quote levels to configure")
	enableTrading := flag.Bool("enable-trading", false, "Enable actual trading")
	vaultAddress := flag.String("vault-address", "", "Ethereum address of the vault to use for trading")
	template := flag.String("template", "", "YAML file overriding the default risk parameters")
	publish := flag.Bool("publish", false, "Also publish the configuration on the mm_config channel")
	flag.Parse()

	log := logger.New(*logLevel)
	defer log.Sync()

	if err := run(*redisURL, *symbol, *levels, *enableTrading, *vaultAddress, *template, *publish, log); err != nil {
		log.Error("send config failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(redisURL, symbol string, levels int, enableTrading bool, vaultAddress, template string, publish bool, log *zap.Logger) error {
	params := config.DefaultRiskParams()
	if template != "" {
		p, err := config.LoadTemplate(template)
		if err != nil {
			return err
		}
		params = p
	}

	rec, err := mmconfig.Build(symbol, levels, enableTrading, vaultAddress, params)
	if err != nil {
		return err
	}
	if vaultAddress != "" {
		log.Info("using vault address", zap.String("vault_address", vaultAddress))
	}

	ctx := context.Background()

	log.Info("connecting to redis", zap.String("url", redisURL))
	rdb, err := broker.Connect(ctx, redisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("connected to redis")

	store := mmconfig.NewStore(rdb)
	data, err := store.Put(ctx, rec)
	if err != nil {
		return err
	}
	log.Info("stored configuration", zap.String("symbol", symbol), zap.String("key", broker.ConfigKey(symbol)))

	if publish {
		n, err := store.Publish(ctx, data)
		if err != nil {
			return err
		}
		log.Info("published configuration", zap.String("channel", broker.ConfigChannel), zap.Int64("receivers", n))
	}

	fmt.Printf("Configuration: %s\n", data)
	fmt.Println("\nQuote Levels:")
	for _, l := range rec.QuoteLevels {
		fmt.Printf("  Level %d: Spread Multiplier = %gx, Size Multiplier = %gx\n", l.Level, l.SpreadMultiplier, l.SizeMultiplier)
	}

	return nil
}

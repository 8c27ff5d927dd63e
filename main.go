package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"mmtools/broker"
	"mmtools/internal/config"
	"mmtools/internal/logger"
	"mmtools/internal/metrics"
	"mmtools/mmconfig"
	"mmtools/scheduler"
	"mmtools/tg"
	"mmtools/types"

	"go.uber.org/zap"
)

func main() {
	path := flag.String("config", "config.yaml", "Scheduler configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*path)
	if err != nil {
		logger.New("info").Fatal("load config", zap.Error(err))
	}

	settings, err := config.LoadSettings()
	if err != nil {
		logger.New("info").Fatal("load settings", zap.Error(err))
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = settings.RedisURL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = settings.LogLevel
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = settings.MetricsAddr
	}

	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("scheduler stopped", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg *types.Config, log *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("connecting to redis", zap.String("url", cfg.RedisURL))
	rdb, err := broker.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("connected to redis")

	if srv := metrics.Serve(cfg.MetricsAddr); srv != nil {
		defer srv.Close()
		log.Info("metrics up", zap.String("addr", cfg.MetricsAddr))
	}

	store := mmconfig.NewStore(rdb)

	stored, err := store.Symbols(ctx)
	if err != nil {
		return err
	}
	log.Info("stored configurations", zap.Strings("symbols", stored))

	sched := scheduler.New(store, tg.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatIDs), log)
	for _, w := range cfg.Windows {
		if err := sched.Add(ctx, w); err != nil {
			return err
		}
	}

	log.Info("trading window scheduler started", zap.Int("jobs", sched.Jobs()))
	sched.Run(ctx)
	log.Info("shutting down")
	return nil
}

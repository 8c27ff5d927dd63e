package broker

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	ConfigChannel   = "mm_config"
	PositionChannel = "mm_position_updates"

	configKeyPrefix = "config:"
)

// ConfigKey is the key holding the configuration record for symbol.
func ConfigKey(symbol string) string {
	return configKeyPrefix + symbol
}

// ConfigKeyPattern matches every configuration record key.
func ConfigKeyPattern() string {
	return configKeyPrefix + "*"
}

// Connect opens a client for url and verifies the server answers PING.
// The caller owns the returned client and must Close it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	// a dead broker must fail the run, not be retried
	opts.MaxRetries = -1

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", url, err)
	}

	return rdb, nil
}

package config

import (
	"strings"

	"github.com/spf13/viper"
)

const DefaultRedisURL = "redis://localhost:6379"

// Settings are the values shared by every tool. They seed the command-line
// flag defaults, so an explicit flag always wins over the environment.
type Settings struct {
	RedisURL    string `mapstructure:"redis_url"`
	LogLevel    string `mapstructure:"log_level"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// LoadSettings reads MM_REDIS_URL, MM_LOG_LEVEL and MM_METRICS_ADDR from the
// environment.
func LoadSettings() (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("mm")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("redis_url", DefaultRedisURL)
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", "")

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

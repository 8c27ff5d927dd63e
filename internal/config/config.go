package config

import (
	"errors"
	"fmt"
	"os"

	"mmtools/types"

	"gopkg.in/yaml.v3"
)

func LoadConfig(path string) (*types.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg types.Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if len(cfg.Windows) == 0 {
		return nil, errors.New("no trading windows configured")
	}
	for i, w := range cfg.Windows {
		if w.Symbol == "" {
			return nil, fmt.Errorf("window %d: empty symbol", i)
		}
		if w.EnableAt == "" && w.DisableAt == "" {
			return nil, fmt.Errorf("window %s: neither enable_at nor disable_at set", w.Symbol)
		}
	}

	return &cfg, nil
}

// DefaultRiskParams are the values the market maker is normally started
// with.
func DefaultRiskParams() types.RiskParams {
	return types.RiskParams{
		DailyReturnBps:            200,
		NotionalPerSide:           150.0,
		DailyPnlStopLoss:          200.0,
		TrailingTakeProfit:        0.05,
		TrailingStopLoss:          0.02,
		HedgeOnlyMode:             false,
		ForceQuoteRefreshInterval: 100,
		MaxLongUSD:                10000.0,
		MaxShortUSD:               10000.0,
	}
}

// LoadTemplate reads risk parameters from a YAML file. Keys missing from the
// file keep their DefaultRiskParams value.
func LoadTemplate(path string) (types.RiskParams, error) {
	params := DefaultRiskParams()

	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("read template: %w", err)
	}

	if len(data) == 0 {
		return params, errors.New("empty template")
	}

	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("parse yaml: %w", err)
	}

	return params, nil
}

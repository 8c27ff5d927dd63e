package mmconfig

import (
	"errors"
	"fmt"

	"mmtools/types"
)

// QuoteLevels returns n levels numbered from 1. The spread widens linearly
// with the level and the size shrinks as 1.5/level.
func QuoteLevels(n int) []types.QuoteLevel {
	levels := make([]types.QuoteLevel, 0, n)
	for i := 1; i <= n; i++ {
		levels = append(levels, types.QuoteLevel{
			Level:            i,
			SpreadMultiplier: float64(i),
			SizeMultiplier:   1.5 / float64(i),
		})
	}
	return levels
}

// Build assembles the record the sender stores for symbol. The result only
// depends on the arguments.
func Build(symbol string, levels int, enableTrading bool, vaultAddress string, params types.RiskParams) (*types.ConfigRecord, error) {
	if symbol == "" {
		return nil, errors.New("empty symbol")
	}
	if levels < 1 {
		return nil, fmt.Errorf("levels must be at least 1, got %d", levels)
	}

	return &types.ConfigRecord{
		Symbol:                    symbol,
		DailyReturnBps:            params.DailyReturnBps,
		NotionalPerSide:           params.NotionalPerSide,
		DailyPnlStopLoss:          params.DailyPnlStopLoss,
		TrailingTakeProfit:        params.TrailingTakeProfit,
		TrailingStopLoss:          params.TrailingStopLoss,
		HedgeOnlyMode:             params.HedgeOnlyMode,
		ForceQuoteRefreshInterval: params.ForceQuoteRefreshInterval,
		MaxLongUSD:                params.MaxLongUSD,
		MaxShortUSD:               params.MaxShortUSD,
		EnableTrading:             enableTrading,
		QuoteLevels:               QuoteLevels(levels),
		VaultAddress:              vaultAddress,
	}, nil
}

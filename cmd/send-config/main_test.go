package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"mmtools/types"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRunStoresRecord(t *testing.T) {
	mr := miniredis.RunT(t)

	require.NoError(t, run("redis://"+mr.Addr(), "ETH", 2, false, "", "", false, zaptest.NewLogger(t)))

	stored, err := mr.Get("config:ETH")
	require.NoError(t, err)

	var rec types.ConfigRecord
	require.NoError(t, json.Unmarshal([]byte(stored), &rec))
	assert.Equal(t, "ETH", rec.Symbol)
	assert.False(t, rec.EnableTrading)
	assert.Equal(t, []types.QuoteLevel{
		{Level: 1, SpreadMultiplier: 1, SizeMultiplier: 1.5},
		{Level: 2, SpreadMultiplier: 2, SizeMultiplier: 0.75},
	}, rec.QuoteLevels)
}

func TestRunWithTemplateAndVault(t *testing.T) {
	mr := miniredis.RunT(t)
	tmpl := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(tmpl, []byte("notional_per_side: 75\n"), 0o644))

	require.NoError(t, run("redis://"+mr.Addr(), "BTC", 1, true, "0xvault", tmpl, true, zaptest.NewLogger(t)))

	stored, err := mr.Get("config:BTC")
	require.NoError(t, err)

	var rec types.ConfigRecord
	require.NoError(t, json.Unmarshal([]byte(stored), &rec))
	assert.Equal(t, 75.0, rec.NotionalPerSide)
	assert.Equal(t, 10000.0, rec.MaxLongUSD)
	assert.True(t, rec.EnableTrading)
	assert.Equal(t, "0xvault", rec.VaultAddress)
}

func TestRunRejectsZeroLevelsBeforeConnecting(t *testing.T) {
	err := run("redis://127.0.0.1:1", "BTC", 0, false, "", "", false, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "levels")
}

package types

// Config is the scheduler daemon configuration read from config.yaml.
type Config struct {
	RedisURL         string          `yaml:"redis_url"`
	LogLevel         string          `yaml:"log_level"`
	MetricsAddr      string          `yaml:"metrics_addr"`
	TelegramBotToken string          `yaml:"telegram_bot_token"`
	TelegramChatIDs  []int64         `yaml:"telegram_chat_ids"`
	Windows          []TradingWindow `yaml:"windows"`
}

// TradingWindow enables trading for Symbol at EnableAt and disables it at
// DisableAt. Both are standard five-field cron expressions evaluated in UTC.
type TradingWindow struct {
	Symbol    string `yaml:"symbol"`
	EnableAt  string `yaml:"enable_at"`
	DisableAt string `yaml:"disable_at"`
}

// RiskParams are the numeric defaults the sender puts into a new record.
type RiskParams struct {
	DailyReturnBps            int     `yaml:"daily_return_bps"`
	NotionalPerSide           float64 `yaml:"notional_per_side"`
	DailyPnlStopLoss          float64 `yaml:"daily_pnl_stop_loss"`
	TrailingTakeProfit        float64 `yaml:"trailing_take_profit"`
	TrailingStopLoss          float64 `yaml:"trailing_stop_loss"`
	HedgeOnlyMode             bool    `yaml:"hedge_only_mode"`
	ForceQuoteRefreshInterval int64   `yaml:"force_quote_refresh_interval"`
	MaxLongUSD                float64 `yaml:"max_long_usd"`
	MaxShortUSD               float64 `yaml:"max_short_usd"`
}

type QuoteLevel struct {
	Level            int     `json:"level"`
	SpreadMultiplier float64 `json:"spread_multiplier"`
	SizeMultiplier   float64 `json:"size_multiplier"`
}

// ConfigRecord is the document stored under config:<SYMBOL> and read by the
// market maker.
type ConfigRecord struct {
	Symbol                    string       `json:"symbol"`
	DailyReturnBps            int          `json:"daily_return_bps"`
	NotionalPerSide           float64      `json:"notional_per_side"`
	DailyPnlStopLoss          float64      `json:"daily_pnl_stop_loss"`
	TrailingTakeProfit        float64      `json:"trailing_take_profit"`
	TrailingStopLoss          float64      `json:"trailing_stop_loss"`
	HedgeOnlyMode             bool         `json:"hedge_only_mode"`
	ForceQuoteRefreshInterval int64        `json:"force_quote_refresh_interval"`
	MaxLongUSD                float64      `json:"max_long_usd"`
	MaxShortUSD               float64      `json:"max_short_usd"`
	EnableTrading             bool         `json:"enable_trading"`
	QuoteLevels               []QuoteLevel `json:"quote_levels"`
	VaultAddress              string       `json:"vault_address,omitempty"`
}

type Position struct {
	Symbol        string  `json:"symbol"`
	Size          float64 `json:"size"`
	EntryPrice    float64 `json:"entry_price"`
	CurrentPrice  float64 `json:"current_price"`
	UnrealizedPnl float64 `json:"unrealized_pnl"`
	NotionalUSD   float64 `json:"notional_usd"`
}

// PositionSummary is the snapshot the market maker publishes on
// mm_position_updates.
type PositionSummary struct {
	Timestamp          uint64     `json:"timestamp"`
	Positions          []Position `json:"positions"`
	TotalPnl           float64    `json:"total_pnl"`
	TotalLongExposure  float64    `json:"total_long_exposure"`
	TotalShortExposure float64    `json:"total_short_exposure"`
}

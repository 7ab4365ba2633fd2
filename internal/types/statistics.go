package types

// BacktestResult is the outcome of one run. Every ratio is a fraction
// (0.12 means 12%).
type BacktestResult struct {
	TotalReturn      float64       `yaml:"total_return" json:"total_return"`
	Sharpe           float64       `yaml:"sharpe" json:"sharpe"`
	MaxDrawdown      float64       `yaml:"max_drawdown" json:"max_drawdown"`
	TradeCount       int           `yaml:"trade_count" json:"trade_count"`
	BuyAndHoldReturn float64       `yaml:"buy_and_hold_return" json:"buy_and_hold_return"`
	TradesOnlyReturn float64       `yaml:"trades_only_return" json:"trades_only_return"`
	Frequency        Frequency     `yaml:"frequency" json:"frequency"`
	Equity           []EquityPoint `yaml:"equity" json:"equity"`
	Trades           []Trade       `yaml:"trades" json:"trades"`
}

// TradeStats summarises the ledger of a run for reporting.
type TradeStats struct {
	// Count of closed trades.
	NumberOfTrades int `yaml:"number_of_trades" json:"number_of_trades"`
	// Count of trades with positive pnl.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades" json:"number_of_winning_trades"`
	// Count of trades with negative pnl.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades" json:"number_of_losing_trades"`
	// Winning trades over all trades, 0 without trades.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// Entry plus exit fees over all trades.
	TotalFees float64 `yaml:"total_fees" json:"total_fees"`
	// Sum of closed trade pnl.
	RealizedPnL float64 `yaml:"realized_pnl" json:"realized_pnl"`
	// Final equity minus initial cash minus realized pnl.
	UnrealizedPnL float64 `yaml:"unrealized_pnl" json:"unrealized_pnl"`
	// Largest single trade pnl.
	MaximumProfit float64 `yaml:"maximum_profit" json:"maximum_profit"`
	// Smallest single trade pnl.
	MaximumLoss float64 `yaml:"maximum_loss" json:"maximum_loss"`
	// Mean holding time in bars.
	AvgDurationInBars float64 `yaml:"avg_duration_in_bars" json:"avg_duration_in_bars"`
}

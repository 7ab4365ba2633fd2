package types

import "time"

// Trade is one closed round trip. Fees are in cash units.
type Trade struct {
	EntryTime      time.Time `yaml:"entry_time" json:"entry_time"`
	ExitTime       time.Time `yaml:"exit_time" json:"exit_time"`
	EntryPrice     float64   `yaml:"entry_price" json:"entry_price"`
	ExitPrice      float64   `yaml:"exit_price" json:"exit_price"`
	Size           float64   `yaml:"size" json:"size"`
	PnL            float64   `yaml:"pnl" json:"pnl"`
	ReturnPct      float64   `yaml:"return_pct" json:"return_pct"`
	DurationInBars int       `yaml:"duration_in_bars" json:"duration_in_bars"`
	EntryFee       float64   `yaml:"entry_fee" json:"entry_fee"`
	ExitFee        float64   `yaml:"exit_fee" json:"exit_fee"`
}

// EquityPoint is the portfolio value at the close of a bar.
type EquityPoint struct {
	Time   time.Time `yaml:"time" json:"time"`
	Equity float64   `yaml:"equity" json:"equity"`
}

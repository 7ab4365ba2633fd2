package engine

import (
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// SimulatorConfig holds the execution model of a run.
type SimulatorConfig struct {
	InitCash      float64
	Slippage      float64
	CommissionFee commission_fee.CommissionFee
}

// Simulation is the raw output of the position simulator.
type Simulation struct {
	Trades []types.Trade
	Equity []types.EquityPoint
}

type positionState int

const (
	stateFlat positionState = iota
	stateLong
)

type openPosition struct {
	entryIndex int
	entryTime  time.Time
	entryPrice float64
	size       float64
	entryFee   float64
}

// Simulate runs a long-only, single-position, fully invested simulation.
// Entries fill at price*(1+slippage) and exits at price*(1-slippage), each
// paying the commission on its notional. Signals that do not change the
// state are ignored. A position still open at the end is marked to market
// but produces no trade.
func Simulate(times []time.Time, prices []float64, signals types.SignalSeries, config SimulatorConfig) (Simulation, error) {
	n := len(prices)
	if n == 0 {
		return Simulation{}, errors.New(errors.ErrCodeEmptyInput, "price series is empty")
	}

	if len(times) != n || len(signals.Entries) != n || len(signals.Exits) != n {
		return Simulation{}, errors.Newf(errors.ErrCodeLengthMismatch,
			"series lengths differ: times=%d prices=%d entries=%d exits=%d",
			len(times), n, len(signals.Entries), len(signals.Exits))
	}

	commission := config.CommissionFee
	if commission == nil {
		commission = commission_fee.NewZeroCommissionFee()
	}

	cash := config.InitCash
	state := stateFlat

	var (
		position openPosition
		trades   []types.Trade
	)

	equity := make([]types.EquityPoint, n)

	for i, price := range prices {
		switch {
		case state == stateFlat && signals.Entries[i]:
			entryPrice := price * (1 + config.Slippage)
			notional := commission.MaxNotional(cash)
			position = openPosition{
				entryIndex: i,
				entryTime:  times[i],
				entryPrice: entryPrice,
				size:       notional / entryPrice,
				entryFee:   commission.Calculate(notional),
			}
			cash = 0
			state = stateLong
		case state == stateLong && signals.Exits[i]:
			trade := closePosition(position, i, times[i], price*(1-config.Slippage), commission)
			trades = append(trades, trade)
			cash = decimal.NewFromFloat(trade.Size).
				Mul(decimal.NewFromFloat(trade.ExitPrice)).
				Sub(decimal.NewFromFloat(trade.ExitFee)).
				InexactFloat64()
			state = stateFlat
		}

		value := cash
		if state == stateLong {
			value = position.size * price
		}

		equity[i] = types.EquityPoint{Time: times[i], Equity: value}
	}

	return Simulation{Trades: trades, Equity: equity}, nil
}

func closePosition(position openPosition, index int, exitTime time.Time, exitPrice float64, commission commission_fee.CommissionFee) types.Trade {
	size := decimal.NewFromFloat(position.size)
	entryFee := decimal.NewFromFloat(position.entryFee)
	exitNotional := size.Mul(decimal.NewFromFloat(exitPrice))
	exitFee := decimal.NewFromFloat(commission.Calculate(exitNotional.InexactFloat64()))
	cost := size.Mul(decimal.NewFromFloat(position.entryPrice))

	pnl := exitNotional.Sub(cost).Sub(entryFee).Sub(exitFee)

	returnPct := 0.0
	if invested := cost.Add(entryFee); !invested.IsZero() {
		returnPct = pnl.Div(invested).InexactFloat64()
	}

	return types.Trade{
		EntryTime:      position.entryTime,
		ExitTime:       exitTime,
		EntryPrice:     position.entryPrice,
		ExitPrice:      exitPrice,
		Size:           position.size,
		PnL:            pnl.InexactFloat64(),
		ReturnPct:      returnPct,
		DurationInBars: index - position.entryIndex,
		EntryFee:       position.entryFee,
		ExitFee:        exitFee.InexactFloat64(),
	}
}

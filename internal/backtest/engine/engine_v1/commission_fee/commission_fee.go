package commission_fee

type CommissionFee interface {
	// Calculate the commission fee for a trade of the given notional value, in cash units
	Calculate(notional float64) float64
	// MaxNotional returns the largest notional whose cost plus fee fits in cash
	MaxNotional(cash float64) float64
}

type Broker string

const (
	// BrokerPercentage charges the run's fee rate on every fill's notional.
	BrokerPercentage Broker = "percentage"
	BrokerZero       Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerPercentage,
	BrokerZero,
}

// GetCommissionFeeHandler returns the fee model of a broker. Unknown brokers
// fall back to the percentage model.
func GetCommissionFeeHandler(broker Broker, rate float64) CommissionFee {
	switch broker {
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewPercentageCommissionFee(rate)
	}
}

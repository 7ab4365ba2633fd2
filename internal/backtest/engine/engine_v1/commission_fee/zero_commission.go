package commission_fee

// ZeroCommissionFee implements CommissionFee interface with zero commission.
type ZeroCommissionFee struct{}

// NewZeroCommissionFee creates a new zero commission fee.
func NewZeroCommissionFee() CommissionFee {
	return &ZeroCommissionFee{}
}

// Calculate returns 0 for any notional.
func (c *ZeroCommissionFee) Calculate(notional float64) float64 {
	return 0.0
}

// MaxNotional returns the whole cash balance.
func (c *ZeroCommissionFee) MaxNotional(cash float64) float64 {
	return max(cash, 0)
}

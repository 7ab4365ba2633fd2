package commission_fee

// PercentageCommissionFee charges a fixed fraction of notional.
type PercentageCommissionFee struct {
	rate float64
}

func NewPercentageCommissionFee(rate float64) CommissionFee {
	return &PercentageCommissionFee{rate: rate}
}

func (c *PercentageCommissionFee) Calculate(notional float64) float64 {
	if notional <= 0 {
		return 0
	}

	return notional * c.rate
}

func (c *PercentageCommissionFee) MaxNotional(cash float64) float64 {
	if cash <= 0 {
		return 0
	}

	return cash / (1 + c.rate)
}

package types

// Frequency is the bar spacing of a series.
type Frequency string

const (
	FrequencyDaily  Frequency = "1D"
	FrequencyHourly Frequency = "1H"
)

// BarsPerYear is the annualisation factor used by the Sharpe ratio.
func (f Frequency) BarsPerYear() float64 {
	if f == FrequencyDaily {
		return 365
	}

	return 24 * 365
}

// IsValid reports whether f is a supported frequency.
func (f Frequency) IsValid() bool {
	return f == FrequencyDaily || f == FrequencyHourly
}

package types

// SignalSeries holds per-bar entry and exit flags of equal length.
type SignalSeries struct {
	Entries []bool `yaml:"entries" json:"entries"`
	Exits   []bool `yaml:"exits" json:"exits"`
}

// NewSignalSeries returns an all-false series of length n.
func NewSignalSeries(n int) SignalSeries {
	return SignalSeries{
		Entries: make([]bool, n),
		Exits:   make([]bool, n),
	}
}

// Len returns the number of bars.
func (s SignalSeries) Len() int {
	return len(s.Entries)
}

// Resolve clears exits on bars that also carry an entry. Entry wins.
func (s SignalSeries) Resolve() SignalSeries {
	for i := range s.Entries {
		if i < len(s.Exits) && s.Entries[i] && s.Exits[i] {
			s.Exits[i] = false
		}
	}

	return s
}

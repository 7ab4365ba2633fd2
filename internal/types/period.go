package types

import (
	"regexp"
	"strconv"
)

// Period selects a window of history ending at the latest tick.
type Period string

const (
	PeriodOneWeek     Period = "1w"
	PeriodOneMonth    Period = "1m"
	PeriodThreeMonths Period = "3m"
	PeriodSixMonths   Period = "6m"
	PeriodOneYear     Period = "1y"
	PeriodYearToDate  Period = "ytd"
	PeriodAll         Period = "all"
)

var (
	multiYearPattern = regexp.MustCompile(`^([2-9]|10)y$`)
	calendarYear     = regexp.MustCompile(`^\d{4}$`)
)

var fixedPeriodDays = map[Period]int{
	PeriodOneWeek:     7,
	PeriodOneMonth:    30,
	PeriodThreeMonths: 90,
	PeriodSixMonths:   180,
	PeriodOneYear:     365,
}

// LookbackDays returns the window length of a relative period. Multi-year
// tags use 365-day years.
func (p Period) LookbackDays() (int, bool) {
	if days, ok := fixedPeriodDays[p]; ok {
		return days, true
	}

	if m := multiYearPattern.FindStringSubmatch(string(p)); m != nil {
		years, _ := strconv.Atoi(m[1])

		return years * 365, true
	}

	return 0, false
}

// CalendarYear returns the year when the period names a single calendar year.
func (p Period) CalendarYear() (int, bool) {
	if !calendarYear.MatchString(string(p)) {
		return 0, false
	}

	year, err := strconv.Atoi(string(p))
	if err != nil {
		return 0, false
	}

	return year, true
}

// IsValid reports whether the tag is recognised. An empty period means all.
func (p Period) IsValid() bool {
	if p == "" || p == PeriodAll || p == PeriodYearToDate {
		return true
	}

	if _, ok := p.LookbackDays(); ok {
		return true
	}

	_, ok := p.CalendarYear()

	return ok
}

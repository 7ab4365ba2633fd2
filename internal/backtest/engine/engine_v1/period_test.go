package engine

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type PeriodFilterTestSuite struct {
	suite.Suite
}

func TestPeriodFilterSuite(t *testing.T) {
	suite.Run(t, new(PeriodFilterTestSuite))
}

func dailyTicks(start time.Time, n int) []types.Tick {
	ticks := make([]types.Tick, n)
	for i := range ticks {
		ticks[i] = types.Tick{
			Time:      start.AddDate(0, 0, i),
			Indicator: float64(i),
			Price:     100 + float64(i),
		}
	}

	return ticks
}

func (suite *PeriodFilterTestSuite) TestAllKeepsEverything() {
	ticks := dailyTicks(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10)

	for _, period := range []types.Period{"", types.PeriodAll} {
		filtered, err := FilterByPeriod(ticks, period)
		suite.NoError(err)
		suite.Equal(ticks, filtered)
	}
}

func (suite *PeriodFilterTestSuite) TestOneWeekOnThirtyDays() {
	ticks := dailyTicks(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 30)
	latest := ticks[len(ticks)-1].Time

	filtered, err := FilterByPeriod(ticks, types.PeriodOneWeek)
	suite.NoError(err)
	suite.Len(filtered, 8)

	for _, tick := range filtered {
		suite.False(tick.Time.Before(latest.AddDate(0, 0, -7)))
	}

	suite.Equal(latest, filtered[len(filtered)-1].Time)
}

func (suite *PeriodFilterTestSuite) TestRelativeWindowIsSuffix() {
	ticks := dailyTicks(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 800)

	for _, period := range []types.Period{types.PeriodOneMonth, types.PeriodThreeMonths, types.PeriodSixMonths, types.PeriodOneYear, "2y"} {
		filtered, err := FilterByPeriod(ticks, period)
		suite.NoError(err)

		days, _ := period.LookbackDays()
		expected := days + 1
		if expected > len(ticks) {
			expected = len(ticks)
		}

		suite.Len(filtered, expected, "period %s", period)
		suite.Equal(ticks[len(ticks)-expected:], filtered)
	}
}

func (suite *PeriodFilterTestSuite) TestYearToDate() {
	ticks := dailyTicks(time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC), 30)

	filtered, err := FilterByPeriod(ticks, types.PeriodYearToDate)
	suite.NoError(err)
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), filtered[0].Time)

	for _, tick := range filtered {
		suite.Equal(2024, tick.Time.Year())
	}
}

func (suite *PeriodFilterTestSuite) TestCalendarYear() {
	ticks := dailyTicks(time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC), 500)

	filtered, err := FilterByPeriod(ticks, "2023")
	suite.NoError(err)
	suite.Len(filtered, 365)
	suite.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), filtered[0].Time)
	suite.Equal(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), filtered[len(filtered)-1].Time)
}

func (suite *PeriodFilterTestSuite) TestEmptyWindow() {
	ticks := dailyTicks(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10)

	filtered, err := FilterByPeriod(ticks, "2019")
	suite.Nil(filtered)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyPeriod))

	filtered, err = FilterByPeriod(nil, types.PeriodAll)
	suite.Nil(filtered)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyPeriod))
}

func (suite *PeriodFilterTestSuite) TestUnknownPeriod() {
	ticks := dailyTicks(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 10)

	_, err := FilterByPeriod(ticks, "2w")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

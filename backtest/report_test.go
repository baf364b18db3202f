package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunValidation(t *testing.T) {
	assert := assert.New(t)
	bars := testBars(100, 105, 110)

	_, err := Run(bars, nil, Config{})
	assert.ErrorIs(err, ErrNoStrategy)

	_, err = Run(bars, crossStrategy(), Config{StartDate: "not a date"})
	assert.Error(err)

	_, err = Run(bars, crossStrategy(), Config{StartDate: "2030-01-01"})
	assert.ErrorIs(err, ErrNoBars)

	_, err = Run(nil, crossStrategy(), Config{})
	assert.ErrorIs(err, ErrNoBars)
}

func TestRunAppliesDefaults(t *testing.T) {
	assert := assert.New(t)
	bars := testBars(100, 105, 108, 112, 115, 112, 108, 105)

	report, err := Run(bars, crossStrategy(), Config{})
	assert.NoError(err)
	assert.Equal(float64(DefaultCapital), report.Config.InitialCapital)
	assert.Equal(DefaultSimulations, report.Config.Simulations)
	assert.Equal(len(bars), report.DataRange.Bars)
	assert.Equal(bars[0].Date, report.DataRange.Start)
	assert.Equal(bars[len(bars)-1].Date, report.DataRange.End)
}

func TestRunDateRangeFilter(t *testing.T) {
	assert := assert.New(t)
	bars := testBars(100, 105, 108, 112, 115, 112, 108, 105)

	report, err := Run(bars, crossStrategy(), Config{
		StartDate: "2020-01-03",
		EndDate:   "2020-01-06",
	})
	assert.NoError(err)
	assert.Equal(4, report.DataRange.Bars)
	assert.Len(report.EquityCurve, 4)
}

func TestRunDeterministic(t *testing.T) {
	assert := assert.New(t)
	bars := testBars(100, 105, 108, 112, 115, 112, 108, 105, 111, 114, 109, 104, 112, 116, 108)
	cfg := Config{InitialCapital: 10000, Simulations: 50, Seed: 11}

	first, err := Run(bars, crossStrategy(), cfg)
	assert.NoError(err)
	second, err := Run(bars, crossStrategy(), cfg)
	assert.NoError(err)

	assert.Equal(first.Trades, second.Trades)
	assert.Equal(first.EquityCurve, second.EquityCurve)
	assert.Equal(first.Metrics, second.Metrics)
	assert.Equal(first.MonteCarlo, second.MonteCarlo)
}

func TestRunQuietStrategyOnTrendingData(t *testing.T) {
	assert := assert.New(t)

	// a steady uptrend never prints an oversold RSI, the strategy stays
	// flat and the report degrades gracefully
	bars := linearBars(300, 100, 160)
	strat, ok := Preset("RSI Mean Reversion")
	assert.True(ok)

	report, err := Run(bars, strat, Config{InitialCapital: 10000})
	assert.NoError(err)
	assert.Empty(report.Trades)
	assert.Equal(Metrics{}, report.Metrics)
	assert.Equal(MonteCarloResult{}, report.MonteCarlo)
	assert.Len(report.EquityCurve, 300)
	assert.GreaterOrEqual(report.Metrics.TotalReturnPct, 0.0)
}

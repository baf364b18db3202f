package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pnlTrades(pnls ...float64) []Trade {
	trades := make([]Trade, len(pnls))
	for i, pnl := range pnls {
		trades[i] = Trade{PnL: pnl, Side: Long}
	}
	return trades
}

func TestMonteCarloGates(t *testing.T) {
	assert := assert.New(t)
	enough := pnlTrades(10, -5, 8, -3, 12)

	// too few trades to resample
	small := MonteCarlo(pnlTrades(10, -5, 8), 10000, 100, 1)
	assert.Equal(MonteCarloResult{}, small)

	assert.Equal(MonteCarloResult{}, MonteCarlo(enough, 10000, 0, 1))
	assert.Equal(MonteCarloResult{}, MonteCarlo(enough, 0, 100, 1))
}

func TestMonteCarloShape(t *testing.T) {
	assert := assert.New(t)
	trades := pnlTrades(100, -50, 80, -30, 120, -60, 40, -20)

	result := MonteCarlo(trades, 10000, 200, 42)

	assert.Equal(200, result.Simulations)
	assert.Len(result.Drawdowns, 200)
	assert.Len(result.BandLow, len(trades))
	assert.Len(result.BandMid, len(trades))
	assert.Len(result.BandHigh, len(trades))

	for i := 1; i < len(result.Drawdowns); i++ {
		assert.LessOrEqual(result.Drawdowns[i-1], result.Drawdowns[i])
	}
	assert.LessOrEqual(result.MedianDrawdown, result.P95Drawdown)
	assert.LessOrEqual(result.P95Drawdown, result.WorstDrawdown)

	for i := range result.BandLow {
		assert.LessOrEqual(result.BandLow[i], result.BandMid[i])
		assert.LessOrEqual(result.BandMid[i], result.BandHigh[i])
	}

	// ordering cannot change the final equity, every path ends in the
	// same place
	sum := 0.0
	for _, trade := range trades {
		sum += trade.PnL
	}
	last := len(trades) - 1
	assert.InDelta(10000+sum, result.BandLow[last], 1e-9)
	assert.InDelta(10000+sum, result.BandHigh[last], 1e-9)
}

func TestMonteCarloDeterministicForSeed(t *testing.T) {
	assert := assert.New(t)
	trades := pnlTrades(100, -50, 80, -30, 120, -60)

	a := MonteCarlo(trades, 10000, 100, 7)
	b := MonteCarlo(trades, 10000, 100, 7)
	assert.Equal(a, b)
}

func TestMonteCarloAllWinnersNeverRuin(t *testing.T) {
	assert := assert.New(t)
	trades := pnlTrades(10, 20, 30, 40, 50)

	result := MonteCarlo(trades, 10000, 100, 1)
	assert.Zero(result.RiskOfRuinPct)
	assert.Zero(result.WorstDrawdown)
}

func TestMonteCarloRuinGrowsWithLossSize(t *testing.T) {
	assert := assert.New(t)

	ruin := func(loss float64) float64 {
		trades := pnlTrades(60, -loss, 60, -loss, 60, -loss)
		return MonteCarlo(trades, 100, 500, 3).RiskOfRuinPct
	}

	mild := ruin(10)
	heavy := ruin(60)
	crushing := ruin(90)

	assert.LessOrEqual(mild, heavy)
	assert.LessOrEqual(heavy, crushing)
	assert.Zero(mild)
	assert.Positive(crushing)
}

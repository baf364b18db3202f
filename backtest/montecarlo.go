package backtest

import (
	"math/rand"
	"sort"
)

const (
	// DefaultSimulations is used when a config leaves the trial count at zero
	DefaultSimulations = 1000
	// a simulated path whose drawdown reaches this percent counts as ruin
	ruinThresholdPct = 50.0
	// resampling fewer realized trades is not statistically meaningful
	minMonteCarloTrades = 5
)

// MonteCarloResult summarizes the resampled drawdown distribution. A zero
// value (Simulations == 0) means the trade sample was too small to resample.
type MonteCarloResult struct {
	Simulations int `json:"simulations"`

	Drawdowns      []float64 `json:"drawdowns,omitempty"`
	MedianDrawdown float64   `json:"median_drawdown_pct"`
	P95Drawdown    float64   `json:"p95_drawdown_pct"`
	WorstDrawdown  float64   `json:"worst_drawdown_pct"`
	RiskOfRuinPct  float64   `json:"risk_of_ruin_pct"`

	// 5th/50th/95th percentile equity per trade step, for fan charts
	BandLow  []float64 `json:"band_low,omitempty"`
	BandMid  []float64 `json:"band_mid,omitempty"`
	BandHigh []float64 `json:"band_high,omitempty"`
}

// MonteCarlo permutes the realized trade P&L sequence simulations times and
// replays each ordering against the initial capital, estimating how badly
// the same outcomes could have drawn down in a different order. Magnitudes
// are fixed from history, only the order is resampled; serial correlation
// in returns is deliberately ignored (pure reshuffle, not a block
// bootstrap). Each trial gets its own generator seeded from seed + trial so
// runs are reproducible even if trials were spread across goroutines.
func MonteCarlo(trades []Trade, initialCapital float64, simulations int, seed int64) MonteCarloResult {
	if len(trades) < minMonteCarloTrades || simulations <= 0 || initialCapital <= 0 {
		return MonteCarloResult{}
	}

	pnls := make([]float64, len(trades))
	for i, trade := range trades {
		pnls[i] = trade.PnL
	}

	drawdowns := make([]float64, simulations)
	steps := len(pnls)
	// equity observed at each trade step across every simulated path
	stepEquity := make([][]float64, steps)
	for i := range stepEquity {
		stepEquity[i] = make([]float64, simulations)
	}

	ruined := 0
	for trial := 0; trial < simulations; trial++ {
		rng := rand.New(rand.NewSource(seed + int64(trial)))
		order := rng.Perm(steps)

		equity := initialCapital
		peak := equity
		maxDD := 0.0
		for step, idx := range order {
			equity += pnls[idx]
			if equity > peak {
				peak = equity
			}
			if peak > 0 {
				dd := (peak - equity) / peak * 100
				if dd > maxDD {
					maxDD = dd
				}
			}
			stepEquity[step][trial] = equity
		}

		drawdowns[trial] = maxDD
		if maxDD >= ruinThresholdPct {
			ruined++
		}
	}

	sort.Float64s(drawdowns)

	result := MonteCarloResult{
		Simulations:    simulations,
		Drawdowns:      drawdowns,
		MedianDrawdown: percentile(drawdowns, 0.50),
		P95Drawdown:    percentile(drawdowns, 0.95),
		WorstDrawdown:  drawdowns[len(drawdowns)-1],
		RiskOfRuinPct:  float64(ruined) / float64(simulations) * 100,
		BandLow:        make([]float64, steps),
		BandMid:        make([]float64, steps),
		BandHigh:       make([]float64, steps),
	}

	for step := range stepEquity {
		sort.Float64s(stepEquity[step])
		result.BandLow[step] = percentile(stepEquity[step], 0.05)
		result.BandMid[step] = percentile(stepEquity[step], 0.50)
		result.BandHigh[step] = percentile(stepEquity[step], 0.95)
	}

	return result
}

// percentile reads a quantile from an ascending sorted slice
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * q)
	return sorted[idx]
}

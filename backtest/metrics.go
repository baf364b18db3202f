package backtest

import (
	"encoding/json"
	"math"
	"sort"
)

const (
	// annualized risk-free rate backing the Sharpe/Sortino excess return
	riskFreeRate = 0.02
	tradingDays  = 252
	// a drawdown has to clear this noise floor to count toward duration
	drawdownNoiseFloor = 0.1
	// calendar spans shorter than this are floored to keep CAGR finite
	minYears = 0.1
)

// Metrics is the flat record of performance statistics derived from the
// trade list and equity curve. A run with no trades yields the zero value.
type Metrics struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`

	TotalReturnPct float64 `json:"total_return_pct"`
	CAGR           float64 `json:"cagr"`
	AvgTradePct    float64 `json:"avg_trade_pct"`
	BestTradePct   float64 `json:"best_trade_pct"`
	WorstTradePct  float64 `json:"worst_trade_pct"`

	MaxDrawdownPct  float64 `json:"max_drawdown_pct"`
	MaxDrawdownBars int     `json:"max_drawdown_bars"`
	VaR95           float64 `json:"var_95"`
	CVaR95          float64 `json:"cvar_95"`

	SharpeRatio  float64 `json:"sharpe_ratio"`
	SortinoRatio float64 `json:"sortino_ratio"`
	CalmarRatio  float64 `json:"calmar_ratio"`

	ProfitFactor float64 `json:"profit_factor"`
	Expectancy   float64 `json:"expectancy"`
	AvgWinPct    float64 `json:"avg_win_pct"`
	AvgLossPct   float64 `json:"avg_loss_pct"`
	WinLossRatio float64 `json:"win_loss_ratio"`

	MaxWinStreak  int `json:"max_win_streak"`
	MaxLossStreak int `json:"max_loss_streak"`

	AvgHoldingDays float64 `json:"avg_holding_days"`
	ExposurePct    float64 `json:"exposure_pct"`

	BestMonth     string  `json:"best_month"`
	BestMonthPct  float64 `json:"best_month_pct"`
	WorstMonth    string  `json:"worst_month"`
	WorstMonthPct float64 `json:"worst_month_pct"`

	RecoveryFactor float64 `json:"recovery_factor"`
}

// MarshalJSON special-cases the profit factor, which is +Inf when a run has
// gross profit and no gross loss and cannot be encoded as a JSON number
func (m Metrics) MarshalJSON() ([]byte, error) {
	type alias Metrics
	out := struct {
		alias
		ProfitFactor interface{} `json:"profit_factor"`
	}{alias: alias(m), ProfitFactor: m.ProfitFactor}
	if math.IsInf(m.ProfitFactor, 1) {
		out.ProfitFactor = "inf"
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON
func (m *Metrics) UnmarshalJSON(data []byte) error {
	type alias Metrics
	in := struct {
		*alias
		ProfitFactor json.RawMessage `json:"profit_factor"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if string(in.ProfitFactor) == `"inf"` {
		m.ProfitFactor = math.Inf(1)
		return nil
	}
	if len(in.ProfitFactor) > 0 {
		return json.Unmarshal(in.ProfitFactor, &m.ProfitFactor)
	}
	return nil
}

// ComputeMetrics derives the performance record from a finished simulation.
// With no trades it returns the zero value, defined behavior rather than an
// error so empty strategies still produce a complete report.
func ComputeMetrics(trades []Trade, curve []EquityPoint, cfg Config) Metrics {
	if len(trades) == 0 || len(curve) == 0 {
		return Metrics{}
	}

	var m Metrics
	m.TotalTrades = len(trades)

	initial := cfg.InitialCapital
	final := curve[len(curve)-1].Equity
	if initial > 0 {
		m.TotalReturnPct = (final - initial) / initial * 100
	}

	years := curve[len(curve)-1].Date.Sub(curve[0].Date).Hours() / 24 / 365.25
	if years < minYears {
		years = minYears
	}
	if initial > 0 && final > 0 {
		m.CAGR = (math.Pow(final/initial, 1/years) - 1) * 100
	}

	returns := make([]float64, len(trades))
	grossProfit, grossLoss := 0.0, 0.0
	winStreak, lossStreak := 0, 0
	totalHolding := 0
	monthly := map[string]float64{}
	best, worst := math.Inf(-1), math.Inf(1)

	for i, trade := range trades {
		returns[i] = trade.PnLPct
		best = math.Max(best, trade.PnLPct)
		worst = math.Min(worst, trade.PnLPct)
		m.AvgTradePct += trade.PnLPct
		m.Expectancy += trade.PnL
		totalHolding += trade.HoldingDays
		monthly[trade.ExitDate.Format("2006-01")] += trade.PnLPct

		if trade.PnL > 0 {
			m.WinningTrades++
			grossProfit += trade.PnL
			m.AvgWinPct += trade.PnLPct
			winStreak++
			lossStreak = 0
			m.MaxWinStreak = maxInt(m.MaxWinStreak, winStreak)
		} else if trade.PnL < 0 {
			m.LosingTrades++
			grossLoss += -trade.PnL
			m.AvgLossPct += -trade.PnLPct
			lossStreak++
			winStreak = 0
			m.MaxLossStreak = maxInt(m.MaxLossStreak, lossStreak)
		} else {
			winStreak, lossStreak = 0, 0
		}
	}

	n := float64(len(trades))
	m.AvgTradePct /= n
	m.Expectancy /= n
	m.BestTradePct = best
	m.WorstTradePct = worst
	m.WinRate = float64(m.WinningTrades) / n * 100
	m.AvgHoldingDays = float64(totalHolding) / n

	if m.WinningTrades > 0 {
		m.AvgWinPct /= float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLossPct /= float64(m.LosingTrades)
	}
	if m.AvgLossPct > 0 {
		m.WinLossRatio = m.AvgWinPct / m.AvgLossPct
	}

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		m.ProfitFactor = math.Inf(1)
	}

	m.MaxDrawdownPct, m.MaxDrawdownBars = drawdownStats(curve)
	m.VaR95, m.CVaR95 = tailStats(returns)
	m.SharpeRatio = sharpe(returns, m.AvgHoldingDays)
	m.SortinoRatio = sortino(returns, m.AvgHoldingDays)

	if m.MaxDrawdownPct > 0 {
		m.CalmarRatio = m.CAGR / m.MaxDrawdownPct
		m.RecoveryFactor = m.TotalReturnPct / m.MaxDrawdownPct
	}

	span := curve[len(curve)-1].Date.Sub(curve[0].Date).Hours() / 24
	if span > 0 {
		m.ExposurePct = math.Min(float64(totalHolding)/span*100, 100)
	}

	m.BestMonth, m.BestMonthPct, m.WorstMonth, m.WorstMonthPct = monthExtremes(monthly)

	return m
}

// drawdownStats returns the deepest drawdown percent and the longest
// contiguous run of bars spent beyond the noise floor
func drawdownStats(curve []EquityPoint) (maxPct float64, maxBars int) {
	run := 0
	for _, point := range curve {
		maxPct = math.Max(maxPct, point.DrawdownPct)
		if point.DrawdownPct > drawdownNoiseFloor {
			run++
			maxBars = maxInt(maxBars, run)
		} else {
			run = 0
		}
	}
	return maxPct, maxBars
}

// tailStats returns the historical VaR-95 (5th percentile trade return) and
// CVaR (mean of the tail at or below it)
func tailStats(returns []float64) (var95, cvar95 float64) {
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	idx := int(float64(len(sorted)) * 0.05)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	var95 = sorted[idx]

	for _, r := range sorted[:idx+1] {
		cvar95 += r
	}
	cvar95 /= float64(idx + 1)
	return var95, cvar95
}

// sharpe annualizes the per-trade excess return by the average holding span
func sharpe(returns []float64, avgHoldingDays float64) float64 {
	mean, dev := meanStdDev(returns)
	if dev == 0 {
		return 0
	}
	dailyRiskFree := riskFreeRate / tradingDays * 100
	return (mean - dailyRiskFree) / dev * annualizer(avgHoldingDays)
}

// sortino divides by downside-only deviation, the deviation of losing trades
func sortino(returns []float64, avgHoldingDays float64) float64 {
	mean, _ := meanStdDev(returns)

	losses := []float64{}
	for _, r := range returns {
		if r < 0 {
			losses = append(losses, r)
		}
	}

	// no losing trades, avoid dividing by zero
	downside := 0.01
	if len(losses) > 0 {
		_, downside = meanStdDev(losses)
		if downside == 0 {
			downside = 0.01
		}
	}

	dailyRiskFree := riskFreeRate / tradingDays * 100
	return (mean - dailyRiskFree) / downside * annualizer(avgHoldingDays)
}

func annualizer(avgHoldingDays float64) float64 {
	if avgHoldingDays < 1 {
		avgHoldingDays = 1
	}
	return math.Sqrt(tradingDays / avgHoldingDays)
}

// meanStdDev is the mean and sample standard deviation
func meanStdDev(values []float64) (mean, dev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	if len(values) < 2 {
		return mean, 0
	}
	for _, v := range values {
		dev += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(dev / float64(len(values)-1))
}

func monthExtremes(monthly map[string]float64) (bestMonth string, bestPct float64, worstMonth string, worstPct float64) {
	bestPct, worstPct = math.Inf(-1), math.Inf(1)
	months := make([]string, 0, len(monthly))
	for month := range monthly {
		months = append(months, month)
	}
	sort.Strings(months)

	for _, month := range months {
		if monthly[month] > bestPct {
			bestMonth, bestPct = month, monthly[month]
		}
		if monthly[month] < worstPct {
			worstMonth, worstPct = month, monthly[month]
		}
	}
	return bestMonth, bestPct, worstMonth, worstPct
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

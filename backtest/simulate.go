package backtest

import (
	"math"
	"strings"
	"time"
)

// Exit reasons set by the risk-management checks and the end-of-series
// force close. Rule-driven exits carry the matched rule description instead.
const (
	ExitStopLoss   = "stop_loss"
	ExitTakeProfit = "take_profit"
	ExitEndOfData  = "end_of_data"
)

// Trade is one closed round trip, immutable once emitted
type Trade struct {
	EntryDate    time.Time `json:"entry_date"`
	ExitDate     time.Time `json:"exit_date"`
	EntryPrice   float64   `json:"entry_price"`
	ExitPrice    float64   `json:"exit_price"`
	Quantity     float64   `json:"quantity"`
	Side         string    `json:"side"`
	PnL          float64   `json:"pnl"`
	PnLPct       float64   `json:"pnl_pct"`
	HoldingDays  int       `json:"holding_days"`
	EntryReasons []string  `json:"entry_reasons"`
	ExitReason   string    `json:"exit_reason"`
	MaxFavorable float64   `json:"max_favorable_pct"`
	MaxAdverse   float64   `json:"max_adverse_pct"`
	Commission   float64   `json:"commission"`
}

// EquityPoint is one mark-to-market sample of the equity curve
type EquityPoint struct {
	Date        time.Time `json:"date"`
	Equity      float64   `json:"equity"`
	Drawdown    float64   `json:"drawdown"`
	DrawdownPct float64   `json:"drawdown_pct"`
}

// position is the Open state of the simulation walk
type position struct {
	entryDate    time.Time
	entryPrice   float64
	quantity     float64
	cost         float64
	commission   float64
	stopPrice    float64
	targetPrice  float64
	trailing     bool
	trailingPct  float64
	highestClose float64
	mfePct       float64
	maePct       float64
	reasons      []string
}

// Simulate walks the bar series once, driving a flat/open state machine
// from the strategy's entry/exit rules and risk policy. It emits one trade
// per closed position and exactly one equity point per bar.
func Simulate(bars Series, strat *Strategy, cfg Config) ([]Trade, []EquityPoint) {
	trades := []Trade{}
	curve := make([]EquityPoint, 0, len(bars))

	capital := cfg.InitialCapital
	peak := capital
	var pos *position

	closeTrade := func(bar Bar, fill float64, reason string) {
		proceeds := fill * pos.quantity
		exitCommission := proceeds * cfg.CommissionPct / 100
		capital += proceeds - exitCommission

		commission := pos.commission + exitCommission
		pnl := proceeds - pos.cost - commission
		pnlPct := 0.0
		if pos.cost > 0 {
			pnlPct = pnl / pos.cost * 100
		}

		trades = append(trades, Trade{
			EntryDate:    pos.entryDate,
			ExitDate:     bar.Date,
			EntryPrice:   pos.entryPrice,
			ExitPrice:    fill,
			Quantity:     pos.quantity,
			Side:         Long,
			PnL:          pnl,
			PnLPct:       pnlPct,
			HoldingDays:  int(bar.Date.Sub(pos.entryDate).Hours() / 24),
			EntryReasons: pos.reasons,
			ExitReason:   reason,
			MaxFavorable: pos.mfePct,
			MaxAdverse:   pos.maePct,
			Commission:   commission,
		})
		pos = nil
	}

	for i, bar := range bars {
		if pos == nil {
			if triggered, reasons := EvaluateAll(strat.EntryRules, bars, i); triggered {
				pos = openPosition(bars, i, strat, cfg, capital, reasons)
				if pos != nil {
					capital -= pos.cost + pos.commission
				}
			}
		} else {
			// intrabar excursions count even on the exit bar
			pos.mfePct = math.Max(pos.mfePct, (bar.High-pos.entryPrice)/pos.entryPrice*100)
			pos.maePct = math.Min(pos.maePct, (bar.Low-pos.entryPrice)/pos.entryPrice*100)

			if pos.trailing {
				pos.stopPrice = pos.highestClose * (1 - pos.trailingPct/100)
			}

			switch {
			// stops and targets can trigger intrabar, judged on high/low.
			// When both would fire in one bar the stop wins.
			case pos.stopPrice > 0 && bar.Low <= pos.stopPrice:
				closeTrade(bar, pos.stopPrice*(1-cfg.SlippagePct/100), ExitStopLoss)
			case pos.targetPrice > 0 && bar.High >= pos.targetPrice:
				closeTrade(bar, pos.targetPrice*(1-cfg.SlippagePct/100), ExitTakeProfit)
			default:
				if triggered, reasons := EvaluateAll(strat.ExitRules, bars, i); triggered {
					closeTrade(bar, bar.Close*(1-cfg.SlippagePct/100), strings.Join(reasons, " & "))
				}
			}

			if pos != nil {
				pos.highestClose = math.Max(pos.highestClose, bar.Close)
			}
		}

		equity := capital
		if pos != nil {
			equity += pos.quantity * bar.Close
		}
		peak = math.Max(peak, equity)
		drawdown := peak - equity
		drawdownPct := 0.0
		if peak > 0 {
			drawdownPct = drawdown / peak * 100
		}
		curve = append(curve, EquityPoint{Date: bar.Date, Equity: equity, Drawdown: drawdown, DrawdownPct: drawdownPct})
	}

	// every opened trade yields exactly one record
	if pos != nil {
		lastBar := bars[len(bars)-1]
		closeTrade(lastBar, lastBar.Close*(1-cfg.SlippagePct/100), ExitEndOfData)
	}

	return trades, curve
}

// openPosition fills a new long at the bar close, slippage against the
// trader, and derives the stop/target thresholds the open state will watch.
// Returns nil when nothing can be bought.
func openPosition(bars Series, index int, strat *Strategy, cfg Config, capital float64, reasons []string) *position {
	bar := bars[index]
	fill := bar.Close * (1 + cfg.SlippagePct/100)
	if fill <= 0 || capital <= 0 {
		return nil
	}

	allocation := math.Min(positionSize(strat, capital), capital)
	quantity := allocation / fill
	if quantity <= 0 {
		return nil
	}
	cost := fill * quantity

	pos := &position{
		entryDate:    bar.Date,
		entryPrice:   fill,
		quantity:     quantity,
		cost:         cost,
		commission:   cost * cfg.CommissionPct / 100,
		highestClose: bar.Close,
		reasons:      reasons,
	}

	switch strat.Risk.StopKind {
	case StopPercent:
		pos.stopPrice = fill * (1 - strat.Risk.StopValue/100)
	case StopTrailing:
		pos.trailing = true
		pos.trailingPct = strat.Risk.StopValue
		pos.stopPrice = bar.Close * (1 - strat.Risk.StopValue/100)
	case StopATR:
		if atr, ok := Value(KindATR, bars, index, IndicatorParams{}); ok {
			pos.stopPrice = fill - atr*strat.Risk.StopValue
		}
	}

	switch strat.Risk.TargetKind {
	case TargetPercent:
		pos.targetPrice = fill * (1 + strat.Risk.TargetValue/100)
	case TargetRMultiple:
		// an R multiple needs an initial risk distance, so it is inactive
		// when no stop price exists
		if pos.stopPrice > 0 {
			pos.targetPrice = fill + (fill-pos.stopPrice)*strat.Risk.TargetValue
		}
	}

	return pos
}

// positionSize converts the strategy's sizing mode to a currency amount.
// Kelly sizing is reserved and sizes like fixed percent.
func positionSize(strat *Strategy, equity float64) float64 {
	switch strat.Sizing {
	case SizeFixed:
		return strat.SizeValue
	case SizePercent, SizeKelly:
		return equity * strat.SizeValue / 100
	}
	return equity
}

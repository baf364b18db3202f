package backtest

import (
	"fmt"
	"math"
	"strings"
)

// equals comparisons use an absolute tolerance
const equalsTolerance = 0.01

// Evaluate reports whether one rule is triggered at the given bar index.
// Rules whose indicator is undefined at the index (or, for crossovers, at
// index-1) are simply not triggered, never an error.
func Evaluate(rule Rule, bars Series, index int) bool {
	left, ok := Value(rule.Indicator, bars, index, rule.Params)
	if !ok {
		return false
	}

	right, ok := rightHandSide(rule, bars, index)
	if !ok {
		return false
	}

	switch rule.Operator {
	case OpAbove:
		return left > right
	case OpBelow:
		return left < right
	case OpEquals:
		return math.Abs(left-right) <= equalsTolerance
	case OpCrossAbove, OpCrossBelow:
		// edge trigger: the prior relation must be on one side and the
		// current relation flipped
		if index < 1 {
			return false
		}
		prevLeft, ok := Value(rule.Indicator, bars, index-1, rule.Params)
		if !ok {
			return false
		}
		prevRight, ok := rightHandSide(rule, bars, index-1)
		if !ok {
			return false
		}
		if rule.Operator == OpCrossAbove {
			return prevLeft < prevRight && left >= right
		}
		return prevLeft > prevRight && left <= right
	}

	return false
}

func rightHandSide(rule Rule, bars Series, index int) (float64, bool) {
	if rule.Compare != "" {
		return Value(rule.Compare, bars, index, rule.CompareParams)
	}
	return rule.Value, true
}

// EvaluateAll combines a rule set with AND semantics. It short-circuits to
// not-triggered on the first failing rule; when every rule passes it also
// returns the human-readable description of each for trade annotation.
// An empty rule set never triggers.
func EvaluateAll(rules []Rule, bars Series, index int) (bool, []string) {
	if len(rules) == 0 {
		return false, nil
	}

	matched := make([]string, 0, len(rules))
	for _, rule := range rules {
		if !Evaluate(rule, bars, index) {
			return false, nil
		}
		matched = append(matched, rule.Describe())
	}
	return true, matched
}

// Describe renders a rule the way it reads in a trade log,
// e.g. "rsi(14) crosses_below 30.0" or "sma(50) crosses_above sma(200)".
func (r Rule) Describe() string {
	var b strings.Builder
	b.WriteString(describeIndicator(r.Indicator, r.Params))
	b.WriteString(" ")
	b.WriteString(string(r.Operator))
	b.WriteString(" ")
	if r.Compare != "" {
		b.WriteString(describeIndicator(r.Compare, r.CompareParams))
	} else {
		b.WriteString(fmt.Sprintf("%.1f", r.Value))
	}
	return b.String()
}

func describeIndicator(kind IndicatorKind, params IndicatorParams) string {
	p := withDefaults(kind, params)
	switch kind {
	case KindMACD, KindMACDSignal, KindMACDHist:
		return fmt.Sprintf("%s(%d,%d,%d)", kind, p.Fast, p.Slow, p.Signal)
	case KindBBUpper, KindBBMiddle, KindBBLower:
		return fmt.Sprintf("%s(%d,%.1f)", kind, p.Period, p.StdDev)
	case KindSupertrend:
		return fmt.Sprintf("%s(%d,%.1f)", kind, p.Period, p.Multiplier)
	case KindPrice, KindVolume, KindOBVTrend, KindIchimokuCloud:
		return string(kind)
	default:
		return fmt.Sprintf("%s(%d)", kind, p.Period)
	}
}

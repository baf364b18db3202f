package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateThresholdOperators(t *testing.T) {
	assert := assert.New(t)
	bars := testBars(100, 105, 110)

	above := Rule{Indicator: KindPrice, Operator: OpAbove, Value: 104}
	assert.True(Evaluate(above, bars, 1))
	assert.False(Evaluate(above, bars, 0))

	below := Rule{Indicator: KindPrice, Operator: OpBelow, Value: 104}
	assert.True(Evaluate(below, bars, 0))
	assert.False(Evaluate(below, bars, 2))

	equals := Rule{Indicator: KindPrice, Operator: OpEquals, Value: 105.005}
	assert.True(Evaluate(equals, bars, 1))
	equals.Value = 105.5
	assert.False(Evaluate(equals, bars, 1))
}

func TestEvaluateCrossoverEdgeTrigger(t *testing.T) {
	assert := assert.New(t)

	// value sits at 25 then jumps to 35 across a 30 threshold
	bars := testBars(25, 25, 25, 35, 35)
	rule := Rule{Indicator: KindPrice, Operator: OpCrossAbove, Value: 30}

	assert.False(Evaluate(rule, bars, 2), "no trigger before the flip")
	assert.True(Evaluate(rule, bars, 3), "trigger on the flip bar")
	assert.False(Evaluate(rule, bars, 4), "edge only, no re-trigger while above")

	down := Rule{Indicator: KindPrice, Operator: OpCrossBelow, Value: 30}
	fall := testBars(35, 35, 25, 25)
	assert.True(Evaluate(down, fall, 2))
	assert.False(Evaluate(down, fall, 3))
}

func TestEvaluateCrossoverNeedsPriorBar(t *testing.T) {
	assert := assert.New(t)
	bars := testBars(35)

	rule := Rule{Indicator: KindPrice, Operator: OpCrossAbove, Value: 30}
	assert.False(Evaluate(rule, bars, 0))
}

func TestEvaluateIndicatorVersusIndicator(t *testing.T) {
	assert := assert.New(t)

	// price dips under its own 3-bar average then recovers through it
	bars := testBars(100, 100, 100, 90, 101, 102)
	rule := Rule{
		Indicator:     KindPrice,
		Operator:      OpCrossAbove,
		Compare:       KindSMA,
		CompareParams: IndicatorParams{Period: 3},
	}

	// at index 3 price 90 < sma 96.67, at index 4 price 101 > sma 97
	assert.False(Evaluate(rule, bars, 3))
	assert.True(Evaluate(rule, bars, 4))
	assert.False(Evaluate(rule, bars, 5))
}

func TestEvaluateUndefinedIndicatorIsNotTriggered(t *testing.T) {
	assert := assert.New(t)
	bars := testBars(100, 101, 102)

	rule := Rule{Indicator: KindRSI, Params: IndicatorParams{Period: 14}, Operator: OpAbove, Value: 0}
	assert.False(Evaluate(rule, bars, 2))
}

func TestEvaluateAllSemantics(t *testing.T) {
	assert := assert.New(t)
	bars := testBars(100, 105, 110)

	triggered, reasons := EvaluateAll(nil, bars, 2)
	assert.False(triggered)
	assert.Nil(reasons)

	rules := []Rule{
		{Indicator: KindPrice, Operator: OpAbove, Value: 104},
		{Indicator: KindVolume, Operator: OpAbove, Value: 500},
	}
	triggered, reasons = EvaluateAll(rules, bars, 2)
	assert.True(triggered)
	assert.Equal([]string{"price above 104.0", "volume above 500.0"}, reasons)

	rules[1].Value = 5000
	triggered, reasons = EvaluateAll(rules, bars, 2)
	assert.False(triggered)
	assert.Nil(reasons)
}

func TestDescribe(t *testing.T) {
	assert := assert.New(t)

	rsi := Rule{Indicator: KindRSI, Params: IndicatorParams{Period: 14}, Operator: OpCrossBelow, Value: 30}
	assert.Equal("rsi(14) crosses_below 30.0", rsi.Describe())

	cross := Rule{
		Indicator:     KindSMA,
		Params:        IndicatorParams{Period: 50},
		Operator:      OpCrossAbove,
		Compare:       KindSMA,
		CompareParams: IndicatorParams{Period: 200},
	}
	assert.Equal("sma(50) crosses_above sma(200)", cross.Describe())

	macd := Rule{Indicator: KindMACD, Operator: OpAbove, Compare: KindMACDSignal}
	assert.Equal("macd(12,26,9) above macd_signal(12,26,9)", macd.Describe())
}

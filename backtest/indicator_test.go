package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testBars builds a daily series from closes, highs/lows one point around
func testBars(closes ...float64) Series {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make(Series, len(closes))
	for i, close := range closes {
		open := close
		if i > 0 {
			open = closes[i-1]
		}
		bars[i] = Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   open,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 1000,
		}
	}
	return bars
}

// linearBars rises (or falls) linearly from first to last over n bars
func linearBars(n int, first, last float64) Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = first + (last-first)*float64(i)/float64(n-1)
	}
	return testBars(closes...)
}

func TestValueInsufficientHistory(t *testing.T) {
	assert := assert.New(t)
	bars := testBars(100, 101, 102, 103, 104)

	// RSI(14) needs 15 bars
	_, ok := Value(KindRSI, bars, 4, IndicatorParams{Period: 14})
	assert.False(ok)

	// but SMA(3) is defined
	sma, ok := Value(KindSMA, bars, 4, IndicatorParams{Period: 3})
	assert.True(ok)
	assert.InDelta(103.0, sma, 1e-9)
}

func TestValueLookAheadSafety(t *testing.T) {
	assert := assert.New(t)
	bars := linearBars(60, 100, 130)

	for _, kind := range []IndicatorKind{KindRSI, KindSMA, KindEMA, KindATR, KindVWAP, KindSupertrend} {
		at := 40
		full, okFull := Value(kind, bars, at, IndicatorParams{})

		// mutate everything after the index, the value must not move
		mutated := append(Series(nil), bars...)
		for i := at + 1; i < len(mutated); i++ {
			mutated[i].Close *= 10
			mutated[i].High *= 10
			mutated[i].Low *= 10
			mutated[i].Volume = 1
		}
		afterMutation, okMutated := Value(kind, mutated, at, IndicatorParams{})

		truncated, okTruncated := Value(kind, bars[:at+1], at, IndicatorParams{})

		assert.Equal(okFull, okMutated, "kind %v", kind)
		assert.Equal(okFull, okTruncated, "kind %v", kind)
		assert.Equal(full, afterMutation, "kind %v", kind)
		assert.Equal(full, truncated, "kind %v", kind)
	}
}

func TestValueOutOfRange(t *testing.T) {
	assert := assert.New(t)
	bars := testBars(100, 101)

	_, ok := Value(KindPrice, bars, -1, IndicatorParams{})
	assert.False(ok)
	_, ok = Value(KindPrice, bars, 2, IndicatorParams{})
	assert.False(ok)
	_, ok = Value(IndicatorKind("nope"), bars, 1, IndicatorParams{})
	assert.False(ok)
}

func TestPriceAndVolumeKinds(t *testing.T) {
	assert := assert.New(t)
	bars := testBars(100, 110, 120)

	price, ok := Value(KindPrice, bars, 1, IndicatorParams{})
	assert.True(ok)
	assert.Equal(110.0, price)

	volume, ok := Value(KindVolume, bars, 2, IndicatorParams{})
	assert.True(ok)
	assert.Equal(1000.0, volume)

	volSMA, ok := Value(KindVolumeSMA, bars, 2, IndicatorParams{Period: 3})
	assert.True(ok)
	assert.Equal(1000.0, volSMA)
}

func TestRSIUptrendSaturates(t *testing.T) {
	assert := assert.New(t)
	bars := linearBars(60, 100, 160)

	rsi, ok := Value(KindRSI, bars, 59, IndicatorParams{Period: 14})
	assert.True(ok)
	assert.Greater(rsi, 90.0)
}

func TestSupertrendDirection(t *testing.T) {
	assert := assert.New(t)

	up := linearBars(60, 100, 160)
	dir, ok := Value(KindSupertrend, up, 59, IndicatorParams{})
	assert.True(ok)
	assert.Equal(1.0, dir)

	down := linearBars(60, 160, 100)
	dir, ok = Value(KindSupertrend, down, 59, IndicatorParams{})
	assert.True(ok)
	assert.Equal(-1.0, dir)
}

func TestOBVTrend(t *testing.T) {
	assert := assert.New(t)

	// every day closes up, OBV keeps climbing above its own average
	up := linearBars(40, 100, 140)
	trend, ok := Value(KindOBVTrend, up, 39, IndicatorParams{})
	assert.True(ok)
	assert.Equal(1.0, trend)

	down := linearBars(40, 140, 100)
	trend, ok = Value(KindOBVTrend, down, 39, IndicatorParams{})
	assert.True(ok)
	assert.Equal(-1.0, trend)
}

func TestVWAPFlatSeries(t *testing.T) {
	assert := assert.New(t)
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	bars := testBars(closes...)

	// typical price of every bar is (101 + 99 + 100) / 3 = 100
	v, ok := Value(KindVWAP, bars, 29, IndicatorParams{Period: 20})
	assert.True(ok)
	assert.InDelta(100.0, v, 1e-9)
}

func TestIchimokuLinesAndCloud(t *testing.T) {
	assert := assert.New(t)
	bars := linearBars(120, 100, 220)

	tenkan, ok := Value(KindIchimokuTenkan, bars, 119, IndicatorParams{})
	assert.True(ok)
	kijun, ok2 := Value(KindIchimokuKijun, bars, 119, IndicatorParams{})
	assert.True(ok2)
	// in a steady uptrend the faster line sits above the slower one
	assert.Greater(tenkan, kijun)

	cloud, ok := Value(KindIchimokuCloud, bars, 119, IndicatorParams{})
	assert.True(ok)
	assert.Equal(1.0, cloud)

	_, ok = Value(KindIchimokuCloud, bars, 50, IndicatorParams{})
	assert.False(ok)
}

func TestStochRSIBounds(t *testing.T) {
	assert := assert.New(t)
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	bars := testBars(closes...)

	k, ok := Value(KindStochRSIK, bars, 79, IndicatorParams{})
	assert.True(ok)
	assert.GreaterOrEqual(k, 0.0)
	assert.LessOrEqual(k, 100.0)

	d, ok := Value(KindStochRSID, bars, 79, IndicatorParams{})
	assert.True(ok)
	assert.GreaterOrEqual(d, 0.0)
	assert.LessOrEqual(d, 100.0)
}

func TestBollingerOrdering(t *testing.T) {
	assert := assert.New(t)
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	bars := testBars(closes...)

	upper, _ := Value(KindBBUpper, bars, 39, IndicatorParams{})
	middle, _ := Value(KindBBMiddle, bars, 39, IndicatorParams{})
	lower, _ := Value(KindBBLower, bars, 39, IndicatorParams{})
	assert.Greater(upper, middle)
	assert.Greater(middle, lower)
}

func TestMACDComponents(t *testing.T) {
	assert := assert.New(t)
	bars := linearBars(80, 100, 180)

	line, ok := Value(KindMACD, bars, 79, IndicatorParams{})
	assert.True(ok)
	signal, ok := Value(KindMACDSignal, bars, 79, IndicatorParams{})
	assert.True(ok)
	hist, ok := Value(KindMACDHist, bars, 79, IndicatorParams{})
	assert.True(ok)
	assert.InDelta(line-signal, hist, 1e-9)
}

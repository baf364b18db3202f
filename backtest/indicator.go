package backtest

import (
	"math"

	"github.com/markcheno/go-talib"
)

// Conventional defaults applied when a rule leaves a knob at zero.
const (
	defaultRSIPeriod    = 14
	defaultSMAPeriod    = 20
	defaultEMAPeriod    = 20
	defaultMACDFast     = 12
	defaultMACDSlow     = 26
	defaultMACDSignal   = 9
	defaultBBPeriod     = 20
	defaultBBStdDev     = 2.0
	defaultATRPeriod    = 14
	defaultADXPeriod    = 14
	defaultStochPeriod  = 14
	defaultStochSmooth  = 3
	defaultSuperPeriod  = 10
	defaultSuperMult    = 3.0
	defaultVWAPPeriod   = 20
	defaultVolSMAPeriod = 20
	defaultTenkanPeriod = 9
	defaultKijunPeriod  = 26
	defaultSenkouPeriod = 52
	// the cloud is projected forward by the kijun period
	cloudDisplacement = 26
	// OBV is classified against its own moving average with a deadband
	obvMAPeriod = 10
	obvDeadband = 0.02
)

// Value computes one indicator at a bar index. Only bars[0..index] take part
// in the computation, a value at index i can never depend on bar i+1 or
// later. The second return is false when fewer bars exist than the kind's
// minimum history, callers treat that as "rule cannot yet evaluate".
func Value(kind IndicatorKind, bars Series, index int, params IndicatorParams) (float64, bool) {
	if index < 0 || index >= len(bars) {
		return 0, false
	}

	p := withDefaults(kind, params)
	window := bars[:index+1]
	if len(window) < minBars(kind, p) {
		return 0, false
	}

	switch kind {
	case KindRSI:
		return last(talib.Rsi(window.Closes(), p.Period))
	case KindSMA:
		return last(talib.Sma(window.Closes(), p.Period))
	case KindEMA:
		return last(talib.Ema(window.Closes(), p.Period))
	case KindMACD:
		line, _, _ := talib.Macd(window.Closes(), p.Fast, p.Slow, p.Signal)
		return last(line)
	case KindMACDSignal:
		_, signal, _ := talib.Macd(window.Closes(), p.Fast, p.Slow, p.Signal)
		return last(signal)
	case KindMACDHist:
		_, _, hist := talib.Macd(window.Closes(), p.Fast, p.Slow, p.Signal)
		return last(hist)
	case KindBBUpper:
		upper, _, _ := talib.BBands(window.Closes(), p.Period, p.StdDev, p.StdDev, 0)
		return last(upper)
	case KindBBMiddle:
		_, middle, _ := talib.BBands(window.Closes(), p.Period, p.StdDev, p.StdDev, 0)
		return last(middle)
	case KindBBLower:
		_, _, lower := talib.BBands(window.Closes(), p.Period, p.StdDev, p.StdDev, 0)
		return last(lower)
	case KindATR:
		return last(talib.Atr(window.Highs(), window.Lows(), window.Closes(), p.Period))
	case KindADX:
		return last(talib.Adx(window.Highs(), window.Lows(), window.Closes(), p.Period))
	case KindStochRSIK:
		k, _ := talib.StochRsi(window.Closes(), p.Period, p.Fast, p.Signal, 0)
		return last(k)
	case KindStochRSID:
		_, d := talib.StochRsi(window.Closes(), p.Period, p.Fast, p.Signal, 0)
		return last(d)
	case KindSupertrend:
		return supertrend(window, p.Period, p.Multiplier)
	case KindOBVTrend:
		return obvTrend(window)
	case KindVWAP:
		return vwap(window, p.Period)
	case KindIchimokuTenkan:
		return midpoint(window, p.Period), true
	case KindIchimokuKijun:
		return midpoint(window, p.Period), true
	case KindIchimokuCloud:
		return cloudPosition(window)
	case KindPrice:
		return window[len(window)-1].Close, true
	case KindVolume:
		return window[len(window)-1].Volume, true
	case KindVolumeSMA:
		return last(talib.Sma(window.Volumes(), p.Period))
	}

	return 0, false
}

// withDefaults fills zeroed params with the kind's conventional values
func withDefaults(kind IndicatorKind, p IndicatorParams) IndicatorParams {
	switch kind {
	case KindRSI:
		if p.Period == 0 {
			p.Period = defaultRSIPeriod
		}
	case KindSMA:
		if p.Period == 0 {
			p.Period = defaultSMAPeriod
		}
	case KindEMA:
		if p.Period == 0 {
			p.Period = defaultEMAPeriod
		}
	case KindMACD, KindMACDSignal, KindMACDHist:
		if p.Fast == 0 {
			p.Fast = defaultMACDFast
		}
		if p.Slow == 0 {
			p.Slow = defaultMACDSlow
		}
		if p.Signal == 0 {
			p.Signal = defaultMACDSignal
		}
	case KindBBUpper, KindBBMiddle, KindBBLower:
		if p.Period == 0 {
			p.Period = defaultBBPeriod
		}
		if p.StdDev == 0 {
			p.StdDev = defaultBBStdDev
		}
	case KindATR:
		if p.Period == 0 {
			p.Period = defaultATRPeriod
		}
	case KindADX:
		if p.Period == 0 {
			p.Period = defaultADXPeriod
		}
	case KindStochRSIK, KindStochRSID:
		if p.Period == 0 {
			p.Period = defaultStochPeriod
		}
		if p.Fast == 0 {
			p.Fast = defaultStochSmooth
		}
		if p.Signal == 0 {
			p.Signal = defaultStochSmooth
		}
	case KindSupertrend:
		if p.Period == 0 {
			p.Period = defaultSuperPeriod
		}
		if p.Multiplier == 0 {
			p.Multiplier = defaultSuperMult
		}
	case KindVWAP:
		if p.Period == 0 {
			p.Period = defaultVWAPPeriod
		}
	case KindIchimokuTenkan:
		if p.Period == 0 {
			p.Period = defaultTenkanPeriod
		}
	case KindIchimokuKijun:
		if p.Period == 0 {
			p.Period = defaultKijunPeriod
		}
	case KindVolumeSMA:
		if p.Period == 0 {
			p.Period = defaultVolSMAPeriod
		}
	}
	return p
}

// minBars is the minimum history each kind needs before it is defined
func minBars(kind IndicatorKind, p IndicatorParams) int {
	switch kind {
	case KindRSI:
		return p.Period + 1
	case KindSMA, KindEMA, KindVolumeSMA:
		return p.Period
	case KindMACD, KindMACDSignal, KindMACDHist:
		return p.Slow + p.Signal
	case KindBBUpper, KindBBMiddle, KindBBLower:
		return p.Period
	case KindATR, KindSupertrend:
		return p.Period + 1
	case KindADX:
		return 2 * p.Period
	case KindStochRSIK, KindStochRSID:
		return 2*p.Period + p.Signal
	case KindOBVTrend:
		return obvMAPeriod + 1
	case KindVWAP:
		return p.Period
	case KindIchimokuTenkan, KindIchimokuKijun:
		return p.Period
	case KindIchimokuCloud:
		return defaultSenkouPeriod + cloudDisplacement
	case KindPrice, KindVolume:
		return 1
	}
	return math.MaxInt32 // unknown kind, never defined
}

func last(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return values[len(values)-1], true
}

// supertrend walks the window bar by bar maintaining the persistent final
// upper/lower bands and a direction flag, flipping when price closes beyond
// the opposite band. Returns +1 for an uptrend and -1 for a downtrend.
func supertrend(window Series, period int, mult float64) (float64, bool) {
	atr := talib.Atr(window.Highs(), window.Lows(), window.Closes(), period)

	dir := 1.0
	var finalUpper, finalLower float64

	for i := period; i < len(window); i++ {
		median := (window[i].High + window[i].Low) / 2
		basicUpper := median + mult*atr[i]
		basicLower := median - mult*atr[i]

		if i == period {
			finalUpper, finalLower = basicUpper, basicLower
			continue
		}

		prevClose := window[i-1].Close
		if basicUpper < finalUpper || prevClose > finalUpper {
			finalUpper = basicUpper
		}
		if basicLower > finalLower || prevClose < finalLower {
			finalLower = basicLower
		}

		if dir > 0 && window[i].Close < finalLower {
			dir = -1
		} else if dir < 0 && window[i].Close > finalUpper {
			dir = 1
		}
	}

	return dir, true
}

// obvTrend classifies on-balance volume against its own 10-period moving
// average: +1 above, -1 below, 0 inside a 2% deadband.
func obvTrend(window Series) (float64, bool) {
	obv := talib.Obv(window.Closes(), window.Volumes())
	ma := talib.Sma(obv, obvMAPeriod)

	cur := obv[len(obv)-1]
	avg := ma[len(ma)-1]

	if avg == 0 {
		if cur > 0 {
			return 1, true
		}
		if cur < 0 {
			return -1, true
		}
		return 0, true
	}
	if math.Abs(cur-avg) <= obvDeadband*math.Abs(avg) {
		return 0, true
	}
	if cur > avg {
		return 1, true
	}
	return -1, true
}

// vwap is the volume-weighted average of typical prices over the lookback
func vwap(window Series, period int) (float64, bool) {
	var priceVolume, volume float64
	for _, bar := range window[len(window)-period:] {
		typical := (bar.High + bar.Low + bar.Close) / 3
		priceVolume += typical * bar.Volume
		volume += bar.Volume
	}
	if volume == 0 {
		return 0, false
	}
	return priceVolume / volume, true
}

// midpoint is the Ichimoku line formula, the middle of the highest high and
// lowest low over the period
func midpoint(window Series, period int) float64 {
	high := math.Inf(-1)
	low := math.Inf(1)
	for _, bar := range window[len(window)-period:] {
		high = math.Max(high, bar.High)
		low = math.Min(low, bar.Low)
	}
	return (high + low) / 2
}

// cloudPosition classifies the close against the Ichimoku cloud at the
// current bar. The cloud spans were formed cloudDisplacement bars ago and
// project forward onto today. Returns +1 above the cloud, -1 below, 0 inside.
func cloudPosition(window Series) (float64, bool) {
	at := len(window) - cloudDisplacement // one past the span formation bar

	spanA := (midpoint(window[:at], defaultTenkanPeriod) + midpoint(window[:at], defaultKijunPeriod)) / 2
	spanB := midpoint(window[:at], defaultSenkouPeriod)

	top := math.Max(spanA, spanB)
	bottom := math.Min(spanA, spanB)

	close := window[len(window)-1].Close
	if close > top {
		return 1, true
	}
	if close < bottom {
		return -1, true
	}
	return 0, true
}

package backtest

import "time"

// Bar is one daily OHLCV record, the fundamental unit of history.
// Bars are ordered ascending by date and never mutated by the engine.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is a slice of daily bars ascending by date
type Series []Bar

// Opens is open prices of bars
func (s Series) Opens() []float64 {
	open := make([]float64, len(s))
	for i, bar := range s {
		open[i] = bar.Open
	}
	return open
}

// Highs is high prices of bars
func (s Series) Highs() []float64 {
	high := make([]float64, len(s))
	for i, bar := range s {
		high[i] = bar.High
	}
	return high
}

// Lows is low prices of bars
func (s Series) Lows() []float64 {
	low := make([]float64, len(s))
	for i, bar := range s {
		low[i] = bar.Low
	}
	return low
}

// Closes is close prices of bars
func (s Series) Closes() []float64 {
	close := make([]float64, len(s))
	for i, bar := range s {
		close[i] = bar.Close
	}
	return close
}

// Volumes is volumes of bars
func (s Series) Volumes() []float64 {
	volume := make([]float64, len(s))
	for i, bar := range s {
		volume[i] = bar.Volume
	}
	return volume
}

// Between returns the sub-series whose dates fall within [start, end].
// A zero start or end leaves that side unbounded.
func (s Series) Between(start, end time.Time) Series {
	filtered := Series{}
	for _, bar := range s {
		if !start.IsZero() && bar.Date.Before(start) {
			continue
		}
		if !end.IsZero() && bar.Date.After(end) {
			continue
		}
		filtered = append(filtered, bar)
	}
	return filtered
}

package models

import (
	"math"
	"sort"
	"time"

	"github.com/oarkflow/backtest/backtest"
)

// Candles is slice of Candle
// Using this, create candle data in database
type Candles []Candle

// Candle is daily stock candledata, also used as json
type Candle struct {
	ID     int     `json:"-"`
	Symbol string  `json:"-"`
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// NewCandlesFromBars converts a bar series to a slice of Candle due to
// creating in database. Because of using for frontend, this method also
// converts time to Unixtime
func NewCandlesFromBars(symbol string, bars backtest.Series) *Candles {
	candles := Candles{}
	for _, bar := range bars {
		candles = append(candles, Candle{
			Symbol: symbol,
			Time:   bar.Date.Unix() * 1000,
			Open:   (math.Round(bar.Open*100) / 100),
			High:   (math.Round(bar.High*100) / 100),
			Low:    (math.Round(bar.Low*100) / 100),
			Close:  (math.Round(bar.Close*100) / 100),
			Volume: (math.Round(bar.Volume*100) / 100),
		})
	}

	return &candles
}

// CreateCandles creates candle data
func (cs *Candles) CreateCandles() {
	DB.Create(cs)
}

// GetCandleFrame gets candle data for limit by descending, all data when
// limit is zero. After get data, return CandleFrame stored in data
func GetCandleFrame(symbol string, limit int) *CandleFrame {
	if limit <= 0 {
		limit = -1
	}
	var candles Candles
	DB.Where("Symbol = ?", symbol).Order("time desc").Limit(limit).Find(&candles)
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time < candles[j].Time })

	cframe := CandleFrame{}
	cframe.Symbol = symbol
	cframe.Candles = candles

	return &cframe
}

// DeleteCandles deletes all candle data for symbol
func DeleteCandles(symbol string) {
	DB.Delete(Candle{}, "Symbol = ?", symbol)
}

// LastCandleTime returns a time of last candle for symbol
func LastCandleTime(symbol string) (int64, error) {
	var candle Candle
	if err := DB.Where("Symbol = ?", symbol).Last(&candle).Error; err != nil {
		return 0, err
	}
	return candle.Time, nil
}

// CandleFrame is candle data frame
type CandleFrame struct {
	Symbol  string   `json:"symbol,omitempty"`
	Candles []Candle `json:"candles,omitempty"`
}

// Bars converts the frame to the engine's bar series
func (cframe *CandleFrame) Bars() backtest.Series {
	bars := make(backtest.Series, 0, len(cframe.Candles))
	for _, candle := range cframe.Candles {
		bars = append(bars, backtest.Bar{
			Date:   time.UnixMilli(candle.Time).UTC(),
			Open:   candle.Open,
			High:   candle.High,
			Low:    candle.Low,
			Close:  candle.Close,
			Volume: candle.Volume,
		})
	}
	return bars
}

package stock

import (
	"time"

	"github.com/markcheno/go-quote"

	"github.com/oarkflow/backtest/backtest"
)

const timeFormat = "2006-01-02"

// GetStockData downloads daily stockdata for symbol(GOOGL, FB...etc) during
// today ~ before dayPeriod. dayPeriod must be day(1day, 30days...etc).
func GetStockData(symbol string, dayPeriod int) (*quote.Quote, error) {
	endDay := time.Now()
	startDay := endDay.AddDate(0, 0, -dayPeriod)

	q, err := quote.NewQuoteFromYahoo(
		symbol, startDay.Format(timeFormat), endDay.Format(timeFormat), quote.Daily, true)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// BarsFromQuote converts a downloaded quote to engine bars
func BarsFromQuote(q *quote.Quote) backtest.Series {
	bars := make(backtest.Series, 0, len(q.Date))
	for i := range q.Date {
		bars = append(bars, backtest.Bar{
			Date:   q.Date[i],
			Open:   q.Open[i],
			High:   q.High[i],
			Low:    q.Low[i],
			Close:  q.Close[i],
			Volume: q.Volume[i],
		})
	}
	return bars
}

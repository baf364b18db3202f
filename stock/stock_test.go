package stock

import (
	"time"

	"github.com/markcheno/go-quote"
)

// quoteFixture is a two bar download stand-in, tests never hit the network
func quoteFixture() *quote.Quote {
	return &quote.Quote{
		Symbol: "GOOGL",
		Date: []time.Time{
			time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		Open:   []float64{100.5, 101.5},
		High:   []float64{102.0, 104.0},
		Low:    []float64{99.5, 100.5},
		Close:  []float64{101.0, 103.0},
		Volume: []float64{5000, 6000},
	}
}

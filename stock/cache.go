package stock

import (
	"sync"

	"github.com/google/btree"
	"github.com/sirupsen/logrus"

	"github.com/oarkflow/backtest/backtest"
)

type barItem struct {
	bar backtest.Bar
}

func (b barItem) Less(than btree.Item) bool {
	return b.bar.Date.Before(than.(barItem).bar.Date)
}

// Cache keeps each symbol's bar history ordered by date so repeated
// backtests over the same symbol reuse downloaded data. One bar per date,
// later puts replace earlier ones.
type Cache struct {
	mu    sync.RWMutex
	trees map[string]*btree.BTree
}

// NewCache returns an empty bar cache
func NewCache() *Cache {
	return &Cache{trees: map[string]*btree.BTree{}}
}

// Put merges bars into the symbol's history
func (c *Cache) Put(symbol string, bars backtest.Series) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tree, ok := c.trees[symbol]
	if !ok {
		tree = btree.New(32)
		c.trees[symbol] = tree
	}
	for _, bar := range bars {
		tree.ReplaceOrInsert(barItem{bar: bar})
	}
}

// Bars returns the symbol's full cached history ascending by date
func (c *Cache) Bars(symbol string) backtest.Series {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tree, ok := c.trees[symbol]
	if !ok {
		return nil
	}

	bars := make(backtest.Series, 0, tree.Len())
	tree.Ascend(func(item btree.Item) bool {
		bars = append(bars, item.(barItem).bar)
		return true
	})
	return bars
}

// Len reports how many bars are cached for the symbol
func (c *Cache) Len(symbol string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if tree, ok := c.trees[symbol]; ok {
		return tree.Len()
	}
	return 0
}

// Load returns at least dayPeriod days of history for the symbol,
// downloading and caching when the cache cannot cover the request
func (c *Cache) Load(symbol string, dayPeriod int) (backtest.Series, error) {
	if cached := c.Bars(symbol); len(cached) >= tradingDaysIn(dayPeriod) {
		return cached, nil
	}

	logrus.Infof("stock download: %v, %v days", symbol, dayPeriod)
	q, err := GetStockData(symbol, dayPeriod)
	if err != nil {
		return nil, err
	}

	bars := BarsFromQuote(q)
	c.Put(symbol, bars)
	return c.Bars(symbol), nil
}

// markets trade roughly five days out of seven
func tradingDaysIn(calendarDays int) int {
	return calendarDays * 5 / 7
}

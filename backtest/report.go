package backtest

import (
	"errors"
	"time"

	"github.com/araddon/dateparse"
)

// DefaultCapital is used when a config leaves the starting capital at zero
const DefaultCapital = 10000

// Config carries the per-run knobs supplied by the caller. StartDate and
// EndDate accept any common date layout; empty strings leave the range
// unbounded on that side.
type Config struct {
	Symbol         string  `json:"symbol"`
	StartDate      string  `json:"start_date,omitempty"`
	EndDate        string  `json:"end_date,omitempty"`
	InitialCapital float64 `json:"initial_capital"`
	CommissionPct  float64 `json:"commission_pct"`
	SlippagePct    float64 `json:"slippage_pct"`
	Simulations    int     `json:"simulations,omitempty"`
	Seed           int64   `json:"seed,omitempty"`
}

// DataRange summarizes the bars actually simulated
type DataRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Bars  int       `json:"bars"`
}

// Report is the engine's sole output, read-only once produced
type Report struct {
	Strategy    *Strategy        `json:"strategy"`
	Config      Config           `json:"config"`
	Trades      []Trade          `json:"trades"`
	EquityCurve []EquityPoint    `json:"equity_curve"`
	Metrics     Metrics          `json:"metrics"`
	MonteCarlo  MonteCarloResult `json:"monte_carlo"`
	DataRange   DataRange        `json:"data_range"`
}

var (
	// ErrNoStrategy is returned when Run is called without a strategy
	ErrNoStrategy = errors.New("backtest: no strategy")
	// ErrNoBars is returned when no bars fall inside the configured range
	ErrNoBars = errors.New("backtest: no bars in range")
)

// Run is the full pipeline: filter bars to the config range, simulate the
// strategy, then score the outcome with the metrics and Monte Carlo
// engines. It holds no state between invocations and is deterministic for
// identical inputs and seed.
func Run(bars Series, strat *Strategy, cfg Config) (*Report, error) {
	if strat == nil {
		return nil, ErrNoStrategy
	}

	start, end, err := cfg.dateRange()
	if err != nil {
		return nil, err
	}
	bars = bars.Between(start, end)
	if len(bars) == 0 {
		return nil, ErrNoBars
	}

	if cfg.InitialCapital == 0 {
		cfg.InitialCapital = DefaultCapital
	}
	if cfg.Simulations == 0 {
		cfg.Simulations = DefaultSimulations
	}

	trades, curve := Simulate(bars, strat, cfg)

	return &Report{
		Strategy:    strat,
		Config:      cfg,
		Trades:      trades,
		EquityCurve: curve,
		Metrics:     ComputeMetrics(trades, curve, cfg),
		MonteCarlo:  MonteCarlo(trades, cfg.InitialCapital, cfg.Simulations, cfg.Seed),
		DataRange: DataRange{
			Start: bars[0].Date,
			End:   bars[len(bars)-1].Date,
			Bars:  len(bars),
		},
	}, nil
}

func (cfg Config) dateRange() (start, end time.Time, err error) {
	if cfg.StartDate != "" {
		if start, err = dateparse.ParseAny(cfg.StartDate); err != nil {
			return start, end, err
		}
	}
	if cfg.EndDate != "" {
		if end, err = dateparse.ParseAny(cfg.EndDate); err != nil {
			return start, end, err
		}
	}
	return start, end, nil
}

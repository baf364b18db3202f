package backtest

// IndicatorKind identifies one supported technical indicator output.
// The set is closed, unknown kinds never evaluate.
type IndicatorKind string

const (
	KindRSI            IndicatorKind = "rsi"
	KindSMA            IndicatorKind = "sma"
	KindEMA            IndicatorKind = "ema"
	KindMACD           IndicatorKind = "macd"
	KindMACDSignal     IndicatorKind = "macd_signal"
	KindMACDHist       IndicatorKind = "macd_hist"
	KindBBUpper        IndicatorKind = "bb_upper"
	KindBBMiddle       IndicatorKind = "bb_middle"
	KindBBLower        IndicatorKind = "bb_lower"
	KindATR            IndicatorKind = "atr"
	KindADX            IndicatorKind = "adx"
	KindStochRSIK      IndicatorKind = "stoch_rsi_k"
	KindStochRSID      IndicatorKind = "stoch_rsi_d"
	KindSupertrend     IndicatorKind = "supertrend"
	KindOBVTrend       IndicatorKind = "obv_trend"
	KindVWAP           IndicatorKind = "vwap"
	KindIchimokuTenkan IndicatorKind = "ichimoku_tenkan"
	KindIchimokuKijun  IndicatorKind = "ichimoku_kijun"
	KindIchimokuCloud  IndicatorKind = "ichimoku_cloud"
	KindPrice          IndicatorKind = "price"
	KindVolume         IndicatorKind = "volume"
	KindVolumeSMA      IndicatorKind = "volume_sma"
)

// Operator compares an indicator against a threshold or another indicator
type Operator string

const (
	OpAbove      Operator = "above"
	OpBelow      Operator = "below"
	OpEquals     Operator = "equals"
	OpCrossAbove Operator = "crosses_above"
	OpCrossBelow Operator = "crosses_below"
)

// IndicatorParams carries the per-kind tuning knobs. Zero values fall back
// to the kind's conventional defaults (RSI 14, MACD 12/26/9 and so on).
type IndicatorParams struct {
	Period     int     `json:"period,omitempty"`
	Fast       int     `json:"fast,omitempty"`
	Slow       int     `json:"slow,omitempty"`
	Signal     int     `json:"signal,omitempty"`
	StdDev     float64 `json:"std_dev,omitempty"`
	Multiplier float64 `json:"multiplier,omitempty"`
}

// Rule is one declarative strategy condition. When Compare is set the
// indicator is measured against another indicator's concurrent value,
// otherwise against the fixed Value. The ID is UI bookkeeping only.
type Rule struct {
	ID            string          `json:"id,omitempty"`
	Indicator     IndicatorKind   `json:"indicator"`
	Params        IndicatorParams `json:"params"`
	Operator      Operator        `json:"operator"`
	Value         float64         `json:"value,omitempty"`
	Compare       IndicatorKind   `json:"compare,omitempty"`
	CompareParams IndicatorParams `json:"compare_params,omitempty"`
}

// StopKind selects the stop-loss flavor of a risk policy
type StopKind string

const (
	StopNone     StopKind = "none"
	StopPercent  StopKind = "percent"
	StopTrailing StopKind = "trailing"
	StopATR      StopKind = "atr"
)

// TargetKind selects the take-profit flavor of a risk policy
type TargetKind string

const (
	TargetNone      TargetKind = "none"
	TargetPercent   TargetKind = "percent"
	TargetRMultiple TargetKind = "r_multiple"
)

// RiskPolicy bundles the stop-loss and take-profit settings of a strategy.
// StopValue is a percent for percent/trailing stops and an ATR multiple for
// ATR stops; TargetValue is a percent or an R multiple.
type RiskPolicy struct {
	StopKind    StopKind   `json:"stop_kind"`
	StopValue   float64    `json:"stop_value,omitempty"`
	TargetKind  TargetKind `json:"target_kind"`
	TargetValue float64    `json:"target_value,omitempty"`
}

// SizingMode selects how the currency size of a new position is derived
type SizingMode string

const (
	// SizeFixed opens positions worth a fixed currency amount
	SizeFixed SizingMode = "fixed"
	// SizePercent opens positions worth a percentage of current equity
	SizePercent SizingMode = "percent"
	// SizeKelly is reserved; it currently sizes like SizePercent
	SizeKelly SizingMode = "kelly"
)

// Long is the only trade direction in the current design
const Long = "long"

// Strategy is the declarative input of a backtest run. Entry and exit rules
// are AND-combined in order.
type Strategy struct {
	Name       string     `json:"name"`
	EntryRules []Rule     `json:"entry_rules"`
	ExitRules  []Rule     `json:"exit_rules"`
	Risk       RiskPolicy `json:"risk"`
	Sizing     SizingMode `json:"sizing"`
	SizeValue  float64    `json:"size_value"`
	Direction  string     `json:"direction"`
}

// Clone returns a deep copy so editing one instance never corrupts a
// shared template such as a preset.
func (s *Strategy) Clone() *Strategy {
	if s == nil {
		return nil
	}
	c := *s
	c.EntryRules = append([]Rule(nil), s.EntryRules...)
	c.ExitRules = append([]Rule(nil), s.ExitRules...)
	return &c
}

package backtest

import "sort"

// presets are shared templates, callers only ever receive clones
var presets = map[string]*Strategy{
	"RSI Mean Reversion": {
		Name: "RSI Mean Reversion",
		EntryRules: []Rule{
			{Indicator: KindRSI, Params: IndicatorParams{Period: 14}, Operator: OpCrossBelow, Value: 30},
		},
		ExitRules: []Rule{
			{Indicator: KindRSI, Params: IndicatorParams{Period: 14}, Operator: OpCrossAbove, Value: 70},
		},
		Risk:      RiskPolicy{StopKind: StopPercent, StopValue: 8, TargetKind: TargetNone},
		Sizing:    SizePercent,
		SizeValue: 100,
		Direction: Long,
	},
	"Golden Cross": {
		Name: "Golden Cross",
		EntryRules: []Rule{
			{Indicator: KindSMA, Params: IndicatorParams{Period: 50}, Operator: OpCrossAbove,
				Compare: KindSMA, CompareParams: IndicatorParams{Period: 200}},
		},
		ExitRules: []Rule{
			{Indicator: KindSMA, Params: IndicatorParams{Period: 50}, Operator: OpCrossBelow,
				Compare: KindSMA, CompareParams: IndicatorParams{Period: 200}},
		},
		Risk:      RiskPolicy{StopKind: StopNone, TargetKind: TargetNone},
		Sizing:    SizePercent,
		SizeValue: 100,
		Direction: Long,
	},
	"MACD Momentum": {
		Name: "MACD Momentum",
		EntryRules: []Rule{
			{Indicator: KindMACD, Operator: OpCrossAbove, Compare: KindMACDSignal},
		},
		ExitRules: []Rule{
			{Indicator: KindMACD, Operator: OpCrossBelow, Compare: KindMACDSignal},
		},
		Risk:      RiskPolicy{StopKind: StopPercent, StopValue: 6, TargetKind: TargetNone},
		Sizing:    SizePercent,
		SizeValue: 100,
		Direction: Long,
	},
	"Bollinger Band Bounce": {
		Name: "Bollinger Band Bounce",
		EntryRules: []Rule{
			{Indicator: KindPrice, Operator: OpCrossAbove,
				Compare: KindBBLower, CompareParams: IndicatorParams{Period: 20, StdDev: 2}},
		},
		ExitRules: []Rule{
			{Indicator: KindPrice, Operator: OpCrossAbove,
				Compare: KindBBMiddle, CompareParams: IndicatorParams{Period: 20, StdDev: 2}},
		},
		Risk:      RiskPolicy{StopKind: StopPercent, StopValue: 5, TargetKind: TargetNone},
		Sizing:    SizePercent,
		SizeValue: 100,
		Direction: Long,
	},
	"Supertrend Follower": {
		Name: "Supertrend Follower",
		EntryRules: []Rule{
			{Indicator: KindSupertrend, Params: IndicatorParams{Period: 10, Multiplier: 3}, Operator: OpAbove, Value: 0},
		},
		ExitRules: []Rule{
			{Indicator: KindSupertrend, Params: IndicatorParams{Period: 10, Multiplier: 3}, Operator: OpBelow, Value: 0},
		},
		Risk:      RiskPolicy{StopKind: StopATR, StopValue: 3, TargetKind: TargetNone},
		Sizing:    SizePercent,
		SizeValue: 100,
		Direction: Long,
	},
	"Ichimoku Cloud": {
		Name: "Ichimoku Cloud",
		EntryRules: []Rule{
			{Indicator: KindIchimokuCloud, Operator: OpAbove, Value: 0},
			{Indicator: KindIchimokuTenkan, Operator: OpCrossAbove, Compare: KindIchimokuKijun},
		},
		ExitRules: []Rule{
			{Indicator: KindIchimokuTenkan, Operator: OpCrossBelow, Compare: KindIchimokuKijun},
		},
		Risk:      RiskPolicy{StopKind: StopTrailing, StopValue: 10, TargetKind: TargetNone},
		Sizing:    SizePercent,
		SizeValue: 100,
		Direction: Long,
	},
	"Multi-Indicator Confluence": {
		Name: "Multi-Indicator Confluence",
		EntryRules: []Rule{
			{Indicator: KindRSI, Params: IndicatorParams{Period: 14}, Operator: OpAbove, Value: 50},
			{Indicator: KindEMA, Params: IndicatorParams{Period: 20}, Operator: OpCrossAbove,
				Compare: KindEMA, CompareParams: IndicatorParams{Period: 50}},
			{Indicator: KindADX, Params: IndicatorParams{Period: 14}, Operator: OpAbove, Value: 25},
		},
		ExitRules: []Rule{
			{Indicator: KindEMA, Params: IndicatorParams{Period: 20}, Operator: OpCrossBelow,
				Compare: KindEMA, CompareParams: IndicatorParams{Period: 50}},
		},
		Risk:      RiskPolicy{StopKind: StopATR, StopValue: 2, TargetKind: TargetRMultiple, TargetValue: 3},
		Sizing:    SizePercent,
		SizeValue: 100,
		Direction: Long,
	},
	"Volume Breakout": {
		Name: "Volume Breakout",
		EntryRules: []Rule{
			{Indicator: KindPrice, Operator: OpCrossAbove,
				Compare: KindBBUpper, CompareParams: IndicatorParams{Period: 20, StdDev: 2}},
			{Indicator: KindVolume, Operator: OpAbove,
				Compare: KindVolumeSMA, CompareParams: IndicatorParams{Period: 20}},
		},
		ExitRules: []Rule{
			{Indicator: KindPrice, Operator: OpCrossBelow,
				Compare: KindBBMiddle, CompareParams: IndicatorParams{Period: 20, StdDev: 2}},
		},
		Risk:      RiskPolicy{StopKind: StopPercent, StopValue: 7, TargetKind: TargetPercent, TargetValue: 20},
		Sizing:    SizePercent,
		SizeValue: 100,
		Direction: Long,
	},
}

// Preset returns a deep copy of the named strategy template
func Preset(name string) (*Strategy, bool) {
	s, ok := presets[name]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// PresetNames returns the preset library names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

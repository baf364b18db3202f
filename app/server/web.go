package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/oarkflow/backtest/app/models"
	"github.com/oarkflow/backtest/backtest"
	"github.com/oarkflow/backtest/config"
	"github.com/oarkflow/backtest/stock"
)

// barCache keeps downloaded histories in memory so repeated backtests over
// the same symbol skip both the network and the database
var barCache = stock.NewCache()

// JSONError is json error massage
type JSONError struct {
	Error string `json:"error"`
}

func errorAPI(w http.ResponseWriter, message string, code int) {
	jsonMessage, err := json.Marshal(JSONError{Error: message})
	if err != nil {
		logrus.Warnf("error message create error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(code)
	w.Write(jsonMessage)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	js, err := json.Marshal(payload)
	if err != nil {
		logrus.Warnf("response json error: %v", err)
		errorAPI(w, "response json error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(js)
}

// CandleGetAPIHandler gets stored candle data for a symbol, downloading it
// first when get=true, when path is "/candles"
func CandleGetAPIHandler(w http.ResponseWriter, req *http.Request) {
	logrus.Infof("candle get request: url -> %s", req.URL)

	get, _ := strconv.ParseBool(req.URL.Query().Get("get"))
	symbol := req.URL.Query().Get("symbol")
	period, err := strconv.Atoi(req.URL.Query().Get("period"))

	if symbol == "" {
		errorAPI(w, "bad parameter(symbol)", http.StatusBadRequest)
		return
	}

	if get && err != nil {
		errorAPI(w, "bad parameter(get, period)", http.StatusBadRequest)
		return
	}

	if get {
		bars, err := barCache.Load(symbol, period)
		if err != nil || len(bars) == 0 {
			logrus.Warnf("stock get error, symbol: %v", symbol)
			errorAPI(w, fmt.Sprintf("stock get error, symbol: %v", symbol), http.StatusBadRequest)
			return
		}
		// Rewrite the stored history only when the download actually has
		// newer candles
		last, lastErr := models.LastCandleTime(symbol)
		if lastErr != nil || bars[len(bars)-1].Date.Unix()*1000 > last {
			models.DeleteCandles(symbol)
			models.NewCandlesFromBars(symbol, bars).CreateCandles()
		}
	}

	if period == 0 {
		period = 500
	}
	writeJSON(w, models.GetCandleFrame(symbol, period))
}

// BacktestRequest is the POST body of "/backtest": a preset name or a full
// strategy document, plus the run configuration
type BacktestRequest struct {
	Preset   string             `json:"preset,omitempty"`
	Strategy *backtest.Strategy `json:"strategy,omitempty"`
	Config   backtest.Config    `json:"config"`
}

// BacktestAPIHandler executes a backtest and returns the full report,
// when path is "/backtest"
func BacktestAPIHandler(w http.ResponseWriter, req *http.Request) {
	logrus.Info("backtest request")
	dec := json.NewDecoder(req.Body)

	var bt BacktestRequest
	if err := dec.Decode(&bt); err != nil {
		logrus.Warnf("backtest params error: %v", err)
		errorAPI(w, fmt.Sprintf("backtest params error: %v", err), http.StatusBadRequest)
		return
	}

	strat := bt.Strategy
	if bt.Preset != "" {
		preset, ok := backtest.Preset(bt.Preset)
		if !ok {
			errorAPI(w, fmt.Sprintf("unknown preset: %v", bt.Preset), http.StatusBadRequest)
			return
		}
		strat = preset
	}
	if strat == nil {
		errorAPI(w, "bad parameter(strategy)", http.StatusBadRequest)
		return
	}

	cfg := withConfigDefaults(bt.Config)
	if cfg.Symbol == "" {
		errorAPI(w, "bad parameter(symbol)", http.StatusBadRequest)
		return
	}

	bars := barCache.Bars(cfg.Symbol)
	if len(bars) == 0 {
		bars = models.GetCandleFrame(cfg.Symbol, 0).Bars()
	}
	if len(bars) == 0 {
		errorAPI(w, fmt.Sprintf("no candle data, symbol: %v", cfg.Symbol), http.StatusBadRequest)
		return
	}

	logrus.Infof("backtest start: %v, %v", cfg.Symbol, strat.Name)
	report, err := backtest.Run(bars, strat, cfg)
	if err != nil {
		logrus.Warnf("backtest error: %v", err)
		errorAPI(w, fmt.Sprintf("backtest error: %v", err), http.StatusBadRequest)
		return
	}

	record, err := models.NewBacktestRecord(report)
	if err != nil {
		logrus.Warnf("backtest record error: %v", err)
		errorAPI(w, "backtest record error", http.StatusInternalServerError)
		return
	}
	if err := record.Create(); err != nil {
		logrus.Warnf("backtest store error: %v", err)
		errorAPI(w, "backtest store error", http.StatusInternalServerError)
		return
	}

	logrus.Infof("backtest end: %v trades, return %.2f%%",
		report.Metrics.TotalTrades, report.Metrics.TotalReturnPct)
	writeJSON(w, report)
}

// PresetsAPIHandler returns the strategy preset library,
// when path is "/presets"
func PresetsAPIHandler(w http.ResponseWriter, req *http.Request) {
	presets := map[string]*backtest.Strategy{}
	for _, name := range backtest.PresetNames() {
		preset, _ := backtest.Preset(name)
		presets[name] = preset
	}
	writeJSON(w, presets)
}

// BacktestListAPIHandler returns stored run summaries for a symbol,
// when path is "/backtests"
func BacktestListAPIHandler(w http.ResponseWriter, req *http.Request) {
	symbol := req.URL.Query().Get("symbol")
	if symbol == "" {
		errorAPI(w, "bad parameter(symbol)", http.StatusBadRequest)
		return
	}

	if runID := req.URL.Query().Get("run"); runID != "" {
		record, err := models.GetBacktestRecord(runID)
		if err != nil {
			errorAPI(w, fmt.Sprintf("run not found: %v", runID), http.StatusNotFound)
			return
		}
		report, err := record.Report()
		if err != nil {
			logrus.Warnf("report decode error: %v", err)
			errorAPI(w, "report decode error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, report)
		return
	}

	writeJSON(w, models.GetBacktestRecords(symbol))
}

func withConfigDefaults(cfg backtest.Config) backtest.Config {
	if cfg.InitialCapital == 0 {
		cfg.InitialCapital = config.Config.InitialCapital
	}
	if cfg.CommissionPct == 0 {
		cfg.CommissionPct = config.Config.CommissionPct
	}
	if cfg.SlippagePct == 0 {
		cfg.SlippagePct = config.Config.SlippagePct
	}
	if cfg.Simulations == 0 {
		cfg.Simulations = config.Config.Simulations
	}
	return cfg
}

// Run starts webserver
func Run() {
	logrus.Info("server start")
	http.HandleFunc("/candles", CandleGetAPIHandler)
	http.HandleFunc("/backtest", BacktestAPIHandler)
	http.HandleFunc("/presets", PresetsAPIHandler)
	http.HandleFunc("/backtests", BacktestListAPIHandler)
	logrus.Fatalln(http.ListenAndServe(fmt.Sprintf("%s:%d", config.Config.IP, config.Config.Port), nil))
}

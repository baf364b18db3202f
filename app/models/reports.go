package models

import (
	"encoding/json"
	"time"

	"github.com/oarkflow/xid"

	"github.com/oarkflow/backtest/backtest"
	"github.com/oarkflow/backtest/utils"
)

// BacktestRecord stores one finished backtest run: summary columns for
// listing plus the full report, gzip-compressed, for detail views
type BacktestRecord struct {
	ID             int     `gorm:"primary_key" json:"-"`
	RunID          string  `json:"run_id"`
	Timestamp      int64   `json:"timestamp"`
	Symbol         string  `json:"symbol"`
	Strategy       string  `json:"strategy"`
	TotalReturnPct float64 `json:"total_return_pct"`
	WinRate        float64 `json:"win_rate"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	TotalTrades    int     `json:"total_trades"`
	Payload        string  `json:"-"`
}

// NewBacktestRecord builds the stored form of a report
func NewBacktestRecord(report *backtest.Report) (*BacktestRecord, error) {
	js, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}

	return &BacktestRecord{
		RunID:          xid.New().String(),
		Timestamp:      time.Now().Unix() * 1000,
		Symbol:         report.Config.Symbol,
		Strategy:       report.Strategy.Name,
		TotalReturnPct: report.Metrics.TotalReturnPct,
		WinRate:        report.Metrics.WinRate,
		MaxDrawdownPct: report.Metrics.MaxDrawdownPct,
		TotalTrades:    report.Metrics.TotalTrades,
		Payload:        utils.ToCompressedString(js),
	}, nil
}

// Create stores the record
func (br *BacktestRecord) Create() error {
	if err := DB.Create(br).Error; err != nil {
		return err
	}
	return nil
}

// Report decompresses the stored payload back into a full report
func (br *BacktestRecord) Report() (*backtest.Report, error) {
	js, err := utils.FromCompressedString(br.Payload)
	if err != nil {
		return nil, err
	}

	var report backtest.Report
	if err := json.Unmarshal(js, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetBacktestRecords returns stored run summaries for symbol, newest first
func GetBacktestRecords(symbol string) []BacktestRecord {
	var records []BacktestRecord
	DB.Where("Symbol = ?", symbol).Order("timestamp desc").Find(&records)
	return records
}

// GetBacktestRecord returns one stored run by its id
func GetBacktestRecord(runID string) (*BacktestRecord, error) {
	var record BacktestRecord
	if err := DB.Where("run_id = ?", runID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteBacktestRecords deletes all stored runs for symbol
func DeleteBacktestRecords(symbol string) {
	DB.Delete(BacktestRecord{}, "Symbol = ?", symbol)
}

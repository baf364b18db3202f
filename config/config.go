package config

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Config represents config info
var Config ConfList

// ConfList has contents of config.ini
type ConfList struct {
	DBdriver       string
	DBname         string
	Port           int
	IP             string
	InitialCapital float64
	CommissionPct  float64
	SlippagePct    float64
	Simulations    int
}

// InitConfig initializes config settings
func InitConfig() {
	conf, err := ini.Load("config.ini")
	if err != nil {
		logrus.Warnf("init file open error: %v", err)
		conf = ini.Empty()
	}

	Config = ConfList{
		DBdriver:       conf.Section("db").Key("driver").MustString("sqlite3"),
		DBname:         conf.Section("db").Key("name").MustString("backtest.sqlite3"),
		Port:           conf.Section("web").Key("port").MustInt(8080),
		IP:             conf.Section("web").Key("ip").String(),
		InitialCapital: conf.Section("backtest").Key("initial_capital").MustFloat64(10000),
		CommissionPct:  conf.Section("backtest").Key("commission_pct").MustFloat64(0.1),
		SlippagePct:    conf.Section("backtest").Key("slippage_pct").MustFloat64(0.05),
		Simulations:    conf.Section("backtest").Key("simulations").MustInt(1000),
	}
}

package main

import (
	"github.com/oarkflow/backtest/app/models"
	"github.com/oarkflow/backtest/app/server"
	"github.com/oarkflow/backtest/config"
	"github.com/oarkflow/backtest/log"
)

func main() {
	config.InitConfig()
	log.SetLogging()
	models.InitDB()
	server.Run()
}

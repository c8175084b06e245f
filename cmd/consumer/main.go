package main

import (
	"flag"

	"go-erp/internal/app"

	"go.uber.org/zap"
)

var configPath = flag.String("conf", "", "path to configuration file")

func main() {
	flag.Parse()

	cfg, logger, err := app.Setup(*configPath)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	infra, err := app.NewInfra(cfg, logger)
	if err != nil {
		logger.Fatal("connect infrastructure failed", zap.Error(err))
	}
	defer infra.Close()

	if err := app.RunConsumer(infra); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}

package main

import (
	"flag"

	"go-erp/internal/app"
	"go-erp/internal/bootstrap"

	"github.com/gin-gonic/gin"
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

	if err := app.Migrate(infra.DB); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()

	auditLogger := bootstrap.NewZapAuditLogger(logger)
	if err := app.BuildApp(r, infra, auditLogger); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	bootstrap.StartHTTPServer(r, cfg.Server, auditLogger, logger)
}

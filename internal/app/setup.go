package app

import (
	"go-erp/internal/config"
	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/logger"

	"go.uber.org/zap"
)

// Setup loads configuration and builds the process logger. The returned
// logger is also installed as zap's global.
func Setup(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(log)
	apperror.Init()

	return cfg, log, nil
}

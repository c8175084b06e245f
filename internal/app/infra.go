package app

import (
	"go-erp/internal/attendance"
	"go-erp/internal/config"
	"go-erp/internal/employee"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/payroll"
	"go-erp/internal/salary"
	"go-erp/internal/shared/connection"
	"go-erp/internal/shared/counter"
	"go-erp/internal/shared/metrics"
	"go-erp/internal/taxbracket"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra is the set of process-wide connections shared by every entry point.
type Infra struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *gorm.DB
	Redis   *redis.Client
	Metrics *metrics.Metrics
}

// NewInfra connects MySQL and, when enabled, Redis. Metrics are nil when disabled.
func NewInfra(cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	db, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	infra := &Infra{Config: cfg, Logger: logger, DB: db}

	if cfg.Redis.Enabled {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, cfg.Database.MaxRetries, logger)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.Redis = rdb
	}

	if cfg.Metrics.Enabled {
		infra.Metrics = metrics.New(cfg.Metrics)
	}
	return infra, nil
}

func (i *Infra) Close() {
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			i.Logger.Warn("close redis failed", zap.Error(err))
		}
	}
	if sqlDB, err := i.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			i.Logger.Warn("close database failed", zap.Error(err))
		}
	}
}

// Migrate creates or updates every table the payroll engine owns or reads.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&employee.Employee{},
		&salary.SalaryRecord{},
		&taxbracket.TaxBracket{},
		&attendance.Attendance{},
		&payroll.PayrollRun{},
		&payroll.PayrollEntry{},
		&counter.Counter{},
		&kafka.OutboxEvent{},
	)
}

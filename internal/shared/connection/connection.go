package connection

import (
	"context"
	"fmt"
	"time"

	"go-erp/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const retryDelay = 5 * time.Second

func ConnectGORMWithRetry(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	var lastErr error

	for i := 1; i <= cfg.MaxRetries; i++ {
		db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			lastErr = err
			logger.Warn("gorm open failed", zap.Int("attempt", i), zap.Int("max", cfg.MaxRetries), zap.Error(err))
			time.Sleep(retryDelay)
			continue
		}

		sqlDB, err := db.DB()
		if err != nil {
			lastErr = err
			logger.Warn("get sql.DB failed", zap.Int("attempt", i), zap.Error(err))
			time.Sleep(retryDelay)
			continue
		}

		if err := sqlDB.Ping(); err != nil {
			lastErr = err
			logger.Warn("db ping failed", zap.Int("attempt", i), zap.Int("max", cfg.MaxRetries), zap.Error(err))
			time.Sleep(retryDelay)
			continue
		}

		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

		logger.Info("gorm connected to mysql", zap.String("host", cfg.Host), zap.String("db", cfg.DBName))
		return db, nil
	}

	return nil, fmt.Errorf("database connection failed after %d retries: %w", cfg.MaxRetries, lastErr)
}

func ConnectRedisWithRetry(cfg config.RedisConfig, maxRetries int, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		lastErr = rdb.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			logger.Info("connected to redis", zap.String("addr", cfg.Addr))
			return rdb, nil
		}

		logger.Warn("redis ping failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(lastErr))
		time.Sleep(retryDelay)
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("failed to connect redis after %d retries: %w", maxRetries, lastErr)
}

// ConnectKafkaWithRetry dials the first reachable broker to fail fast, then returns
// a Writer whose topic is taken from each message.
func ConnectKafkaWithRetry(brokers []string, maxRetries int, logger *zap.Logger) (*kafka.Writer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		conn, err := kafka.Dial("tcp", brokers[0])
		if err == nil {
			_ = conn.Close()
			logger.Info("connected to kafka", zap.Strings("brokers", brokers))
			return &kafka.Writer{
				Addr:                   kafka.TCP(brokers...),
				Balancer:               &kafka.Hash{},
				RequiredAcks:           kafka.RequireAll,
				AllowAutoTopicCreation: true,
			}, nil
		}

		lastErr = err
		logger.Warn("kafka dial failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect kafka after %d retries: %w", maxRetries, lastErr)
}

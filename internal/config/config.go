package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/erp.yaml"

type (
	Config struct {
		Server   ServerConfig   `yaml:"server"`
		Database DatabaseConfig `yaml:"database"`
		Redis    RedisConfig    `yaml:"redis"`
		Kafka    KafkaConfig    `yaml:"kafka"`
		JWT      JWTConfig      `yaml:"jwt"`
		Logger   LoggerConfig   `yaml:"logger"`
		Metrics  MetricsConfig  `yaml:"metrics"`
		Payroll  PayrollConfig  `yaml:"payroll"`
	}

	ServerConfig struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		IdleTimeout  time.Duration `yaml:"idle_timeout"`
		GinMode      string        `yaml:"gin_mode"`
	}

	DatabaseConfig struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		User            string        `yaml:"user"`
		Password        string        `yaml:"password"`
		DBName          string        `yaml:"dbname"`
		MaxOpenConns    int           `yaml:"max_open_conns"`
		MaxIdleConns    int           `yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		MaxRetries      int           `yaml:"max_retries"`
	}

	RedisConfig struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	}

	KafkaConfig struct {
		Brokers      []string      `yaml:"brokers"`
		GroupID      string        `yaml:"group_id"`
		PollInterval time.Duration `yaml:"poll_interval"`
	}

	JWTConfig struct {
		Secret string `yaml:"secret"`
	}

	// LoggerConfig follows the zap + lumberjack knobs.
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // used when output is file
		MaxSize    int    `yaml:"max_size"`    // MB
		MaxBackups int    `yaml:"max_backups"` // rotated files kept
		MaxAge     int    `yaml:"max_age"`     // days
		Compress   bool   `yaml:"compress"`
	}

	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}

	PayrollConfig struct {
		Currency string        `yaml:"currency"`
		Workers  int           `yaml:"workers"`
		LockTTL  time.Duration `yaml:"lock_ttl"`
	}
)

// Load reads the YAML file at path, expanding ${VAR} and ${VAR:default} placeholders
// from the environment (after .env), then applies defaults and validates.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(resolveEnv(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envPattern = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

func resolveEnv(content []byte) []byte {
	return envPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := envPattern.FindSubmatch(match)
		envKey := string(matches[1])
		var defaultValue string
		if len(matches) > 2 {
			defaultValue = string(matches[2])
		}

		if value, exists := os.LookupEnv(envKey); exists {
			return []byte(value)
		}
		return []byte(defaultValue)
	})
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}
	if c.Database.MaxRetries == 0 {
		c.Database.MaxRetries = 5
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "go-erp-payroll"
	}
	if c.Kafka.PollInterval == 0 {
		c.Kafka.PollInterval = 3 * time.Second
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "erp"
	}
	if c.Payroll.Currency == "" {
		c.Payroll.Currency = "USD"
	}
	if c.Payroll.Workers <= 0 {
		c.Payroll.Workers = 8
	}
	if c.Payroll.LockTTL == 0 {
		c.Payroll.LockTTL = 5 * time.Minute
	}
}

func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if len(c.Payroll.Currency) != 3 {
		return fmt.Errorf("payroll.currency must be an ISO 4217 code, got %q", c.Payroll.Currency)
	}
	return nil
}

// DSN builds the go-sql-driver/mysql connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

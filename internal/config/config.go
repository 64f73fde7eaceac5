package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	App            AppConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	JWT            JWTConfig
	Reconciliation ReconciliationConfig
	Storage        StorageConfig
	Export         ExportConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int    `env:"APP_PORT" envDefault:"8080"`
	Env            string `env:"APP_ENV" envDefault:"development"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	FrontendOrigin string `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:3000"`
}

type DatabaseConfig struct {
	Driver      string `env:"DB_DRIVER" envDefault:"postgres"` // postgres | sqlite
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        int    `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME" envDefault:"cmlabs-hris"`
	SSLMode     string `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns    int32  `env:"DB_MIN_CONNS" envDefault:"5"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"./data/attendance.db"`
}

// RedisConfig configures the calendar cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_CALENDAR_TTL" envDefault:"15m"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string `env:"JWT_SECRET_KEY"`
	AccessExpiration string `env:"JWT_ACCESS_EXPIRATION_TIME" envDefault:"1h"`
}

type ReconciliationConfig struct {
	DefaultTimezone   string `env:"RECONCILIATION_DEFAULT_TIMEZONE" envDefault:"Asia/Jakarta"`
	MonthlyAllowance  string `env:"RECONCILIATION_MONTHLY_LEAVE_ALLOWANCE" envDefault:"1.75"`
	ReportConcurrency int    `env:"RECONCILIATION_REPORT_CONCURRENCY" envDefault:"4"`
}

type StorageConfig struct {
	BasePath string `env:"STORAGE_BASE_PATH" envDefault:"./uploads"`
	BaseURL  string `env:"STORAGE_BASE_URL" envDefault:"http://localhost:8080/files"`
}

type ExportConfig struct {
	Enabled    bool          `env:"EXPORT_ENABLED" envDefault:"false"`
	Interval   time.Duration `env:"EXPORT_INTERVAL" envDefault:"1h"`
	CompanyIDs []string      `env:"EXPORT_COMPANY_IDS" envSeparator:","`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("Cannot load .env file, using environment variables", "error", err)
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	if _, err := time.LoadLocation(c.Reconciliation.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid RECONCILIATION_DEFAULT_TIMEZONE: %w", err)
	}
	allowance, err := c.MonthlyAllowance()
	if err != nil {
		return err
	}
	if !allowance.IsPositive() {
		return fmt.Errorf("RECONCILIATION_MONTHLY_LEAVE_ALLOWANCE must be positive")
	}

	if c.Export.Enabled && c.Export.Interval <= 0 {
		return fmt.Errorf("EXPORT_INTERVAL must be positive")
	}
	return nil
}

// MonthlyAllowance parses the default monthly leave allowance.
func (c *Config) MonthlyAllowance() (decimal.Decimal, error) {
	allowance, err := decimal.NewFromString(strings.TrimSpace(c.Reconciliation.MonthlyAllowance))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid RECONCILIATION_MONTHLY_LEAVE_ALLOWANCE: %w", err)
	}
	return allowance, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

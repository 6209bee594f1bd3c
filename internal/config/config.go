package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Redis      RedisConfig
	Attendance AttendanceConfig
	Payroll    PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	Location       *time.Location
	AllowedOrigins []string
}

// RedisConfig is optional. An empty URL means locks stay in-process.
type RedisConfig struct {
	URL string
}

type AttendanceConfig struct {
	GraceMinutes        int
	AutoCheckoutEnabled bool
	AutoCheckoutTime    time.Time
	LockTimeout         time.Duration
}

// PayrollConfig seeds the pay policy used until one is saved through the API.
type PayrollConfig struct {
	BatchConcurrency    int
	OvertimeRate        decimal.Decimal
	WeekendOvertimeRate decimal.Decimal
	HolidayOvertimeRate decimal.Decimal
	TaxMethod           payroll.TaxMethod
	TaxBrackets         []payroll.TaxBracket
	FlatTaxRate         decimal.Decimal
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	timezone := getEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       timezone,
		Location:       loc,
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	config.Redis = RedisConfig{URL: getEnv("REDIS_URL", "")}

	if config.Attendance, err = loadAttendance(); err != nil {
		return nil, err
	}
	if config.Payroll, err = loadPayroll(); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadAttendance() (AttendanceConfig, error) {
	grace, err := strconv.Atoi(getEnv("ATTENDANCE_GRACE_MINUTES", "5"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_GRACE_MINUTES: %w", err)
	}
	enabled, err := strconv.ParseBool(getEnv("ATTENDANCE_AUTO_CHECKOUT_ENABLED", "true"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_AUTO_CHECKOUT_ENABLED: %w", err)
	}
	clock, err := schedule.ParseClock(getEnv("ATTENDANCE_AUTO_CHECKOUT_TIME", "18:00"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_AUTO_CHECKOUT_TIME: %w", err)
	}
	lockTimeout, err := time.ParseDuration(getEnv("ATTENDANCE_LOCK_TIMEOUT", "5s"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_LOCK_TIMEOUT: %w", err)
	}

	return AttendanceConfig{
		GraceMinutes:        grace,
		AutoCheckoutEnabled: enabled,
		AutoCheckoutTime:    clock,
		LockTimeout:         lockTimeout,
	}, nil
}

func loadPayroll() (PayrollConfig, error) {
	defaults := payroll.DefaultPolicy()

	concurrency, err := strconv.Atoi(getEnv("PAYROLL_BATCH_CONCURRENCY", "4"))
	if err != nil {
		return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_BATCH_CONCURRENCY: %w", err)
	}

	cfg := PayrollConfig{
		BatchConcurrency: concurrency,
		TaxMethod:        payroll.TaxMethod(getEnv("PAYROLL_TAX_METHOD", string(defaults.TaxMethod))),
		TaxBrackets:      defaults.TaxBrackets,
	}

	decimals := []struct {
		key      string
		fallback decimal.Decimal
		dst      *decimal.Decimal
	}{
		{"PAYROLL_OVERTIME_RATE", defaults.OvertimeMultiplier, &cfg.OvertimeRate},
		{"PAYROLL_WEEKEND_OVERTIME_RATE", defaults.WeekendOvertimeMultiplier, &cfg.WeekendOvertimeRate},
		{"PAYROLL_HOLIDAY_OVERTIME_RATE", defaults.HolidayOvertimeMultiplier, &cfg.HolidayOvertimeRate},
		{"PAYROLL_FLAT_TAX_RATE", defaults.FlatTaxRate, &cfg.FlatTaxRate},
	}
	for _, d := range decimals {
		raw := os.Getenv(d.key)
		if raw == "" {
			*d.dst = d.fallback
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return PayrollConfig{}, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}

	if raw := os.Getenv("PAYROLL_TAX_BRACKETS"); raw != "" {
		var brackets []payroll.TaxBracket
		if err := json.Unmarshal([]byte(raw), &brackets); err != nil {
			return PayrollConfig{}, fmt.Errorf("invalid PAYROLL_TAX_BRACKETS: %w", err)
		}
		cfg.TaxBrackets = brackets
	}

	return cfg, nil
}

// DefaultPayPolicy builds the policy calculations fall back to before one is saved.
func (c *Config) DefaultPayPolicy() payroll.PayPolicy {
	p := payroll.DefaultPolicy()
	p.OvertimeMultiplier = c.Payroll.OvertimeRate
	p.WeekendOvertimeMultiplier = c.Payroll.WeekendOvertimeRate
	p.HolidayOvertimeMultiplier = c.Payroll.HolidayOvertimeRate
	p.TaxMethod = c.Payroll.TaxMethod
	p.TaxBrackets = c.Payroll.TaxBrackets
	p.FlatTaxRate = c.Payroll.FlatTaxRate
	return p
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.GraceMinutes < 0 {
		return fmt.Errorf("ATTENDANCE_GRACE_MINUTES must not be negative")
	}
	if c.Attendance.LockTimeout <= 0 {
		return fmt.Errorf("ATTENDANCE_LOCK_TIMEOUT must be positive")
	}
	if c.Payroll.BatchConcurrency < 1 {
		return fmt.Errorf("PAYROLL_BATCH_CONCURRENCY must be at least 1")
	}
	if err := c.DefaultPayPolicy().Validate(); err != nil {
		return fmt.Errorf("invalid default pay policy: %w", err)
	}
	return nil
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

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

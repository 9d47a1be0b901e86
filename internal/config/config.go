package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Defaults applied when the environment does not override them.
const (
	DefaultPort                = "3000"
	DefaultTransactionLimit    = "10"
	DefaultTransferCodePattern = `^[A-Za-z0-9]{10}$`
	DefaultTransferCodeTTL     = 30 * 24 * time.Hour
	DefaultBalanceCacheTTL     = 5 * time.Minute
	DefaultLockTimeout         = 5 * time.Second
)

// Config is the typed application configuration.
type Config struct {
	Port string
	Env  string

	DB    DBConfig
	Redis RedisConfig

	JWTSecret string
	TokenTTL  time.Duration

	// TransactionLimit separates immediately approved transfers from the
	// ones left WAITING. Amounts strictly below it are approved.
	TransactionLimit    decimal.Decimal
	TransferCodePattern string
	TransferCodeTTL     time.Duration
}

// DBConfig holds the PostgreSQL connection and pool settings.
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LockTimeout     time.Duration
}

// DSN renders the connection string understood by the gorm postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// RedisConfig holds the balance cache connection settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// Load reads the whole configuration from the environment. Values that
// would make transfers misbehave (limit, code pattern) are rejected here
// rather than at the first request.
func Load() (*Config, error) {
	limit, err := decimal.NewFromString(GetEnv("TRANSACTION_LIMIT", DefaultTransactionLimit))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSACTION_LIMIT: %w", err)
	}
	if !limit.IsPositive() {
		return nil, fmt.Errorf("TRANSACTION_LIMIT must be positive, got %s", limit)
	}

	pattern := GetEnv("TRANSFER_CODE_PATTERN", DefaultTransferCodePattern)
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, fmt.Errorf("invalid TRANSFER_CODE_PATTERN: %w", err)
	}

	cfg := &Config{
		Port: GetEnv("PORT", DefaultPort),
		Env:  GetEnv("ENV", "development"),
		DB: DBConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "bank"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
			LockTimeout:     GetDurationEnv("DB_LOCK_TIMEOUT", DefaultLockTimeout),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
			TTL:      GetDurationEnv("BALANCE_CACHE_TTL", DefaultBalanceCacheTTL),
		},
		JWTSecret:           GetEnv("JWT_SECRET", ""),
		TokenTTL:            GetDurationEnv("JWT_TTL", 15*time.Minute),
		TransactionLimit:    limit,
		TransferCodePattern: pattern,
		TransferCodeTTL:     GetDurationEnv("TRANSFER_CODE_TTL", DefaultTransferCodeTTL),
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret"
	}

	return cfg, nil
}

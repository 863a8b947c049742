package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Environment    string
	LogLevel       string
	StorageDriver  string
	DBDSN          string
	SQLitePath     string
	MigrationsPath string
	HTTPAddr       string
	TelegramToken  string
	AuthTokens     map[string]string // bearer-токен -> пользователь
	RateRPS        float64
	RateBurst      int
	AuditInterval  time.Duration
}

// Load читает .env (если есть) и переменные окружения; непустые overrides имеют приоритет
func Load(overrides map[string]string) (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return FromEnv(func(key string) string {
		if v := overrides[key]; v != "" {
			return v
		}
		return os.Getenv(key)
	})
}

// FromEnv собирает конфиг из getenv и проверяет его
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:    valueOr(getenv("ENV"), "development"),
		LogLevel:       getenv("LOG_LEVEL"),
		StorageDriver:  valueOr(getenv("STORAGE_DRIVER"), DriverPostgres),
		DBDSN:          getenv("DB_DSN"),
		SQLitePath:     valueOr(getenv("SQLITE_PATH"), "slot_swapper.db"),
		MigrationsPath: getenv("MIGRATIONS_PATH"),
		HTTPAddr:       valueOr(getenv("HTTP_ADDR"), ":8080"),
		TelegramToken:  getenv("TELEGRAM_TOKEN"),
	}

	var err error
	if cfg.AuthTokens, err = parseTokens(getenv("AUTH_TOKENS")); err != nil {
		return nil, err
	}
	if cfg.RateRPS, err = parseFloat("RATE_RPS", getenv("RATE_RPS"), 5); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = parseInt("RATE_BURST", getenv("RATE_BURST"), 10); err != nil {
		return nil, err
	}
	if cfg.AuditInterval, err = parseDuration("AUDIT_INTERVAL", getenv("AUDIT_INTERVAL"), 10*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for the %s driver", DriverPostgres)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s driver", DriverSQLite)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.RateRPS <= 0 {
		return fmt.Errorf("RATE_RPS must be positive")
	}
	if c.RateBurst <= 0 {
		return fmt.Errorf("RATE_BURST must be positive")
	}
	if c.AuditInterval < 0 {
		return fmt.Errorf("AUDIT_INTERVAL must not be negative")
	}
	return nil
}

// IsProduction сообщает, запущено ли приложение в production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// parseTokens разбирает "token:user,token2:user2"
func parseTokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, user, ok := strings.Cut(pair, ":")
		token, user = strings.TrimSpace(token), strings.TrimSpace(user)
		if !ok || token == "" || user == "" {
			return nil, fmt.Errorf("AUTH_TOKENS: malformed entry %q, want token:user", pair)
		}
		if _, dup := tokens[token]; dup {
			return nil, fmt.Errorf("AUTH_TOKENS: duplicate token for user %q", user)
		}
		tokens[token] = user
	}
	return tokens, nil
}

func parseFloat(name, raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q: %w", name, raw, err)
	}
	return v, nil
}

func parseInt(name, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", name, raw, err)
	}
	return v, nil
}

func parseDuration(name, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", name, raw, err)
	}
	return v, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

const (
	StorageMemory = "memory"
	StorageMySQL  = "mysql"
	StorageSQLite = "sqlite3"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	LogDir         string
	Port           string
	Storage        string
	DB             DBConfig
	RulesPath      string
	HistoryPath    string
	APITokenHash   string
	SeedCategories bool
	SessionIdle    time.Duration
}

type DBConfig struct {
	User       string
	Password   string
	Host       string
	Port       string
	Name       string
	FullDSN    string
	SQLitePath string
}

// Load reads the optional env file (a missing file is not an error) and
// builds the configuration from the process environment.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := gotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	seed, err := boolEnv("SEED_CATEGORIES", true)
	if err != nil {
		return nil, err
	}

	idle, err := durationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:   strings.ToLower(envOr("APP_ENV", "development")),
		LogLevel: envOr("LOG_LEVEL", "info"),
		LogDir:   os.Getenv("LOG_DIR"),
		Port:     envOr("APP_PORT", "8080"),
		Storage:  strings.ToLower(envOr("STORAGE", StorageMemory)),
		DB: DBConfig{
			User:       os.Getenv("DB_USER"),
			Password:   os.Getenv("DB_PASS"),
			Host:       os.Getenv("DB_HOST"),
			Port:       os.Getenv("DB_PORT"),
			Name:       envOr("DB_NAME", "budget_assistant"),
			FullDSN:    os.Getenv("FULL_DSN"),
			SQLitePath: envOr("SQLITE_PATH", "data/budget_assistant.db"),
		},
		RulesPath:      os.Getenv("RULES_PATH"),
		HistoryPath:    os.Getenv("HISTORY_PATH"),
		APITokenHash:   os.Getenv("API_TOKEN_HASH"),
		SeedCategories: seed,
		SessionIdle:    idle,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	case StorageMySQL:
		if c.DB.FullDSN == "" && (c.DB.User == "" || c.DB.Password == "" || c.DB.Host == "" || c.DB.Port == "") {
			return fmt.Errorf("missing required DB environment variables for mysql storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE %q, allowed: memory, mysql, sqlite3", c.Storage)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

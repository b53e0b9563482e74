package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/chd/chd/internal/platform/apperr"
)

// Store backends, selected by the DATABASE_URL scheme.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongodb"
	BackendMemory   = "memory"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32         `mapstructure:"DB_MIN_CONNS"`
	MongoDatabase   string        `mapstructure:"MONGO_DATABASE"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS    float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `mapstructure:"RATE_LIMIT_BURST"`
	BodyLimit       string        `mapstructure:"BODY_LIMIT"`
	HSTS            bool          `mapstructure:"HSTS"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	ModelPath       string        `mapstructure:"MODEL_PATH"`
	DatasetPath     string        `mapstructure:"DATASET_PATH"`
	MigrationsDir   string        `mapstructure:"MIGRATIONS_DIR"`
}

var envKeys = []string{
	"PORT", "ENV", "LOG_LEVEL", "DB_MAX_CONNS", "DB_MIN_CONNS", "MONGO_DATABASE",
	"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "BODY_LIMIT", "HSTS",
	"SHUTDOWN_TIMEOUT", "MODEL_PATH", "DATASET_PATH", "MIGRATIONS_DIR",
}

// Load reads the environment and an optional .env file. A missing
// DATABASE_URL (or its MONGO_URL alias) is a configuration error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8001")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("MONGO_DATABASE", "chd_analysis")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("HSTS", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("MODEL_PATH", "model/chd_model.json")
	v.SetDefault("DATASET_PATH", "data/framingham.csv")
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}
	_ = v.BindEnv("DATABASE_URL", "DATABASE_URL", "MONGO_URL")

	// Missing .env is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if cfg.DatabaseURL == "" {
		return nil, apperr.Configuration("DATABASE_URL is required")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Backend names the store selected by the DATABASE_URL scheme, or "" when the
// scheme is not supported.
func (c *Config) Backend() string {
	scheme, _, _ := strings.Cut(c.DatabaseURL, "://")
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return BackendPostgres
	case "mongodb":
		return BackendMongo
	case "memory":
		return BackendMemory
	}
	return ""
}

// Validate checks values that Load cannot reject on type alone.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return apperr.Configuration("DATABASE_URL is required")
	}
	if c.Backend() == "" {
		return apperr.Configuration(fmt.Sprintf(
			"DATABASE_URL must use postgres://, mongodb:// or memory://, got %q", redact(c.DatabaseURL)))
	}
	if c.DBMaxConns < 1 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return apperr.Configuration(fmt.Sprintf(
			"DB_MIN_CONNS (%d) and DB_MAX_CONNS (%d) must satisfy 0 <= min <= max, max >= 1", c.DBMinConns, c.DBMaxConns))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return apperr.Configuration("RATE_LIMIT_RPS must be > 0 and RATE_LIMIT_BURST >= 1")
	}
	if c.Port == "" {
		return apperr.Configuration("PORT is required")
	}
	return nil
}

// redact hides credentials in a connection string for error messages.
func redact(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return "<unparseable>"
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}

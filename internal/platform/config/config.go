// Package config loads ingest configuration from an optional YAML file and
// environment variables. Environment variables override the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath はYAML設定ファイルのパスを指定する環境変数です。
const EnvConfigPath = "INGEST_CONFIG"

// Config is the root configuration shared by cmd/ingest and cmd/server.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Source   SourceConfig   `yaml:"source"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Redis    RedisConfig    `yaml:"redis"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects and addresses the relational store.
type DatabaseConfig struct {
	Driver         string        `yaml:"driver"` // mysql | postgres | sqlite
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Name           string        `yaml:"name"`
	Instance       string        `yaml:"instance"` // Cloud SQL instance connection name
	Path           string        `yaml:"path"`     // sqlite file
	MaxOpenConns   int           `yaml:"max_open_conns"`
	Migrate        bool          `yaml:"migrate"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// SourceConfig selects where records come from.
type SourceConfig struct {
	Kind               string        `yaml:"kind"` // twelvedata | csv
	APIKey             string        `yaml:"api_key"`
	BaseURL            string        `yaml:"base_url"`
	Timeout            time.Duration `yaml:"timeout"`
	OutputSize         int           `yaml:"outputsize"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	CSVProfiles        string        `yaml:"csv_profiles"`
	CSVHistory         string        `yaml:"csv_history"`
	CSVCategory        string        `yaml:"csv_category"`
}

// IngestConfig controls a run.
type IngestConfig struct {
	Symbols         []string `yaml:"symbols"`
	DefaultCategory string   `yaml:"default_category"`
	Concurrency     int      `yaml:"concurrency"`
	BatchSize       int      `yaml:"batch_size"`
}

// RedisConfig enables the fetch cache when Addr is set.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	Namespace string `yaml:"namespace"`
}

// ServerConfig configures the ops API.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	JWTSecret string `yaml:"jwt_secret"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | text
	File   string `yaml:"file"`
}

// Load reads path (if non-empty), expands ${VAR} references, overlays
// environment variables, applies defaults and validates.
// A missing file is an error only when path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads .env (if present) and then calls Load with $INGEST_CONFIG.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Load(os.Getenv(EnvConfigPath))
}

// applyEnv overlays environment variables. Variable names follow the
// existing deployment (DB_*, TWELVE_DATA_*, REDIS_*, JWT_SECRET).
func (c *Config) applyEnv() error {
	str := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(dst *int, key string) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str(&c.Database.Driver, "DB_DRIVER")
	str(&c.Database.Host, "DB_HOST")
	str(&c.Database.Port, "DB_PORT")
	str(&c.Database.User, "DB_USER")
	str(&c.Database.Password, "DB_PASSWORD")
	str(&c.Database.Name, "DB_NAME")
	str(&c.Database.Instance, "INSTANCE_CONNECTION_NAME")
	str(&c.Database.Path, "DB_PATH")
	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		c.Database.Migrate = v == "true"
	}

	str(&c.Source.Kind, "SOURCE_KIND")
	str(&c.Source.APIKey, "TWELVE_DATA_API_KEY")
	str(&c.Source.BaseURL, "TWELVE_DATA_BASE_URL")
	str(&c.Source.CSVProfiles, "CSV_PROFILES")
	str(&c.Source.CSVHistory, "CSV_HISTORY")
	str(&c.Source.CSVCategory, "CSV_CATEGORY")

	if v := os.Getenv("INGEST_SYMBOLS"); v != "" {
		c.Ingest.Symbols = splitList(v)
	}
	str(&c.Ingest.DefaultCategory, "INGEST_CATEGORY")

	if host := os.Getenv("REDIS_HOST"); host != "" {
		c.Redis.Addr = host + ":" + envOr("REDIS_PORT", "6379")
	}
	str(&c.Redis.Password, "REDIS_PASSWORD")

	str(&c.Server.Addr, "SERVER_ADDR")
	str(&c.Server.JWTSecret, "JWT_SECRET")

	str(&c.Log.Level, "LOG_LEVEL")
	str(&c.Log.Format, "LOG_FORMAT")
	str(&c.Log.File, "LOG_FILE")

	for key, dst := range map[string]*int{
		"DB_MAX_OPEN_CONNS":      &c.Database.MaxOpenConns,
		"INGEST_CONCURRENCY":     &c.Ingest.Concurrency,
		"INGEST_BATCH_SIZE":      &c.Ingest.BatchSize,
		"TWELVE_DATA_RATE_LIMIT": &c.Source.RateLimitPerMinute,
	} {
		if err := num(dst, key); err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitList splits a comma or whitespace separated list, dropping empties.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
}

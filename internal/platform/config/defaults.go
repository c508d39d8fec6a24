package config

import "time"

// Default values applied by applyDefaults.
const (
	DefaultDriver         = "mysql"
	DefaultSQLitePath     = "ingest.db"
	DefaultMaxOpenConns   = 10
	DefaultConnectTimeout = 60 * time.Second
	DefaultSourceKind     = "twelvedata"
	DefaultBaseURL        = "https://api.twelvedata.com"
	DefaultAPITimeout     = 10 * time.Second
	DefaultOutputSize     = 200
	DefaultRateLimit      = 8 // Twelve Data free plan: 8 requests / minute
	DefaultCategory       = "stock"
	DefaultConcurrency    = 1
	DefaultRedisNamespace = "ingest"
	DefaultServerAddr     = ":8080"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
)

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = DefaultSQLitePath
	}
	if c.Database.Port == "" {
		switch c.Database.Driver {
		case "mysql":
			c.Database.Port = "3306"
		case "postgres":
			c.Database.Port = "5432"
		}
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = DefaultConnectTimeout
	}

	if c.Source.Kind == "" {
		c.Source.Kind = DefaultSourceKind
	}
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = DefaultBaseURL
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = DefaultAPITimeout
	}
	if c.Source.OutputSize == 0 {
		c.Source.OutputSize = DefaultOutputSize
	}
	if c.Source.RateLimitPerMinute == 0 {
		c.Source.RateLimitPerMinute = DefaultRateLimit
	}

	if c.Ingest.DefaultCategory == "" {
		c.Ingest.DefaultCategory = DefaultCategory
	}
	if c.Source.CSVCategory == "" {
		c.Source.CSVCategory = c.Ingest.DefaultCategory
	}
	if c.Ingest.Concurrency == 0 {
		c.Ingest.Concurrency = DefaultConcurrency
	}

	if c.Redis.Namespace == "" {
		c.Redis.Namespace = DefaultRedisNamespace
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

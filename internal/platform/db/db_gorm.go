// Package db opens the relational store through gorm.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	histadapters "stock_ingest/internal/feature/history/adapters"
	instadapters "stock_ingest/internal/feature/instruments/adapters"
	symbolentity "stock_ingest/internal/feature/symbollist/domain/entity"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config holds the connection settings of the store.
type Config struct {
	Driver       string // mysql (default) | postgres | sqlite
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string // Cloud SQL instance connection name (mysql only)
	Path         string // sqlite file
	MaxOpenConns int
	Timeout      time.Duration
}

// LoadConfigFromEnv reads the MySQL settings from DB_* environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		Driver:       "mysql",
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
	}
}

// BuildDSN builds a MySQL DSN. A Cloud SQL instance name takes precedence over host/port.
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// BuildPostgresDSN builds a libpq keyword/value DSN for the pgx-based postgres driver.
func BuildPostgresDSN(cfg Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

// Opener opens a gorm connection for dsn.
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry calls open until it succeeds or timeout elapses, sleeping retryInterval between attempts.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
}

// Open connects to the store selected by cfg.Driver.
// Failing to connect is the only fatal condition of a run, so the caller should abort on error.
func Open(cfg Config) (*gorm.DB, error) {
	var (
		dsn  string
		open Opener
	)
	switch cfg.Driver {
	case "", "mysql":
		dsn = BuildDSN(cfg)
		open = func(dsn string) (*gorm.DB, error) { return gorm.Open(gmysql.Open(dsn), gormConfig()) }
	case "postgres":
		dsn = BuildPostgresDSN(cfg)
		open = func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gormConfig()) }
	case "sqlite":
		dsn = cfg.Path
		open = func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gormConfig()) }
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := ConnectWithRetry(dsn, cfg.Timeout, open)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// SQLiteは単一ライターのため接続を1本に絞る
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables and unique indexes the pipeline relies on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&instadapters.InstrumentModel{},
		&histadapters.ObservationModel{},
		&symbolentity.Symbol{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

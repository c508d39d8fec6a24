// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"stock_ingest/internal/platform/config"
	"stock_ingest/internal/platform/db"
)

// DBConfig converts the database section of the application config.
func DBConfig(c config.DatabaseConfig) db.Config {
	return db.Config{
		Driver:       c.Driver,
		User:         c.User,
		Password:     c.Password,
		Name:         c.Name,
		Host:         c.Host,
		Port:         c.Port,
		InstanceName: c.Instance,
		Path:         c.Path,
		MaxOpenConns: c.MaxOpenConns,
		Timeout:      c.ConnectTimeout,
	}
}

// OpenStore connects to the store and runs migrations when configured.
func OpenStore(c config.DatabaseConfig) (*gorm.DB, error) {
	gdb, err := db.Open(DBConfig(c))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if c.Migrate {
		if err := db.Migrate(gdb); err != nil {
			_ = CloseStore(gdb)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		slog.Info("migrations applied", "driver", c.Driver)
	}
	return gdb, nil
}

// CloseStore releases the connection pool behind gdb.
func CloseStore(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

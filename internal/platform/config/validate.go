package config

import (
	"errors"
	"fmt"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
		if c.Database.Host == "" && c.Database.Instance == "" {
			return errors.New("database.host or database.instance is required")
		}
		if c.Database.Name == "" {
			return errors.New("database.name is required")
		}
		if c.Database.User == "" {
			return errors.New("database.user is required")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	if c.Database.MaxOpenConns < 0 {
		return fmt.Errorf("database.max_open_conns (%d) cannot be negative", c.Database.MaxOpenConns)
	}

	switch c.Source.Kind {
	case "twelvedata":
		if c.Source.APIKey == "" {
			return errors.New("source.api_key is required for twelvedata")
		}
	case "csv":
		if c.Source.CSVProfiles == "" {
			return errors.New("source.csv_profiles is required for csv")
		}
	default:
		return fmt.Errorf("source.kind %q is not supported", c.Source.Kind)
	}

	if !validCategory(c.Ingest.DefaultCategory) {
		return fmt.Errorf("ingest.default_category %q must be stock or fund", c.Ingest.DefaultCategory)
	}
	if !validCategory(c.Source.CSVCategory) {
		return fmt.Errorf("source.csv_category %q must be stock or fund", c.Source.CSVCategory)
	}
	if c.Ingest.Concurrency < 1 {
		return fmt.Errorf("ingest.concurrency (%d) must be at least 1", c.Ingest.Concurrency)
	}
	if c.Ingest.BatchSize < 0 {
		return fmt.Errorf("ingest.batch_size (%d) cannot be negative", c.Ingest.BatchSize)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q must be json or text", c.Log.Format)
	}
	return nil
}

func validCategory(s string) bool {
	return s == "stock" || s == "fund"
}

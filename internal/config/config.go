// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over those defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Dataset drivers understood by the source adapter.
const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// DatasetDriver selects where medal rows come from: csv, sqlite or postgres.
	DatasetDriver string `koanf:"dataset_driver"`

	// DatasetPath is the CSV file read when DatasetDriver is csv.
	DatasetPath string `koanf:"dataset_path"`

	// DatasetDSN is the database DSN for the sql drivers.
	DatasetDSN string `koanf:"dataset_dsn"`

	// DatasetTable names the table holding medal rows.
	DatasetTable string `koanf:"dataset_table"`

	// MinYear and MaxYear bound the retained Olympic years, inclusive.
	MinYear int `koanf:"min_year"`
	MaxYear int `koanf:"max_year"`

	// TopN caps the countries shown by the area and bar charts.
	TopN int `koanf:"top_n"`

	// DefaultCountry and DefaultYear preselect the dashboard filters.
	DefaultCountry string `koanf:"default_country"`
	DefaultYear    int    `koanf:"default_year"`

	// CountryAliases maps raw country names to canonical ones.
	CountryAliases map[string]string `koanf:"country_aliases"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":8050",
		DatasetDriver:  DriverCSV,
		DatasetPath:    "data/medals.csv",
		DatasetTable:   "medals",
		MinYear:        1992,
		MaxYear:        2020,
		TopN:           10,
		DefaultCountry: "United States of America",
		DefaultYear:    2016,
		CountryAliases: map[string]string{
			"United States": "United States of America",
		},
	}
}

// Validate checks field combinations that Load cannot express through types.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.MinYear > c.MaxYear {
		return fmt.Errorf("%w: min_year %d is after max_year %d", ErrInvalidConfig, c.MinYear, c.MaxYear)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidConfig, c.TopN)
	}
	switch c.DatasetDriver {
	case DriverCSV:
		if c.DatasetPath == "" {
			return fmt.Errorf("%w: dataset_path is required for the csv driver", ErrInvalidConfig)
		}
	case DriverSQLite, DriverPostgres:
		if c.DatasetDSN == "" {
			return fmt.Errorf("%w: dataset_dsn is required for the %s driver", ErrInvalidConfig, c.DatasetDriver)
		}
	default:
		return fmt.Errorf("%w: unknown dataset_driver %q", ErrInvalidConfig, c.DatasetDriver)
	}
	return nil
}

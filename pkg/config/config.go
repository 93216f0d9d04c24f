// Package config provides configuration management for gnseed.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, host, port, user, password, database, ssl_mode, path
//   - Faker: fill_nullable, fill_default, smart_detection, seed, locale,
//     bulk_size
//   - Log: level, format, destination
//   - General: jobs_number, schema_path
//
// Runtime-only fields (code or CLI flags only):
//   - Faker.FieldOverrides, Faker.Source
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNSEED_ prefix with underscores for nesting:
//
//	GNSEED_DATABASE_DRIVER=sqlite
//	GNSEED_DATABASE_PATH=/tmp/fixtures.db
//	GNSEED_FAKER_SEED=42
//	GNSEED_FAKER_LOCALE=de-DE
//	GNSEED_LOG_LEVEL=info
package config

import (
	"runtime"

	"github.com/brianvoe/gofakeit/v7"
)

// Config represents the complete gnseed configuration.
type Config struct {
	// Database contains connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Faker contains settings of the fake data synthesizer.
	Faker FakerConfig `mapstructure:"faker" yaml:"faker"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of tables that can be seeded concurrently
	// when their dependencies allow it. Only PostgreSQL uses more than one.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// SchemaPath is the path to a YAML file with table definitions.
	// When empty, schema.yaml of the config directory is used.
	SchemaPath string `mapstructure:"schema_path" yaml:"schema_path"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains connection parameters.
type DatabaseConfig struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// Path is the SQLite database file.
	Path string `mapstructure:"path" yaml:"path"`
}

// FieldOverride produces a value for a column, bypassing every other
// value source.
type FieldOverride func() (any, error)

// FakerConfig contains settings of fake rows synthesis.
type FakerConfig struct {
	// FillNullable makes nullable columns receive values. When false they
	// are left for the database to fill with NULL.
	FillNullable bool `mapstructure:"fill_nullable" yaml:"fill_nullable"`

	// FillDefault makes columns with default values receive generated values.
	// When false the database default is kept.
	FillDefault bool `mapstructure:"fill_default" yaml:"fill_default"`

	// SmartDetection infers the kind of data from column names
	// (email, phone, price etc.).
	SmartDetection bool `mapstructure:"smart_detection" yaml:"smart_detection"`

	// Seed makes generated values reproducible. Nil means random seed.
	Seed *int64 `mapstructure:"seed" yaml:"seed"`

	// Locale is a BCP 47 tag (en-US, de-DE) that selects phone and postal
	// formats and the language of country names.
	Locale string `mapstructure:"locale" yaml:"locale"`

	// BulkSize is the number of rows inserted and committed together.
	BulkSize int `mapstructure:"bulk_size" yaml:"bulk_size"`

	// FieldOverrides maps column names to value producers.
	FieldOverrides map[string]FieldOverride `mapstructure:"-" yaml:"-"`

	// Source is a shared random source. When set, Seed is ignored.
	Source *gofakeit.Faker `mapstructure:"-" yaml:"-"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "gnseed",
			SSLMode:  "disable",
			Path:     "gnseed.db",
		},
		Faker: FakerConfig{
			SmartDetection: true,
			Locale:         "en-US",
			BulkSize:       100,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}

package config

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/text/language"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseDriver sets the database driver.
// Valid values: "postgres", "sqlite".
func OptDatabaseDriver(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.Driver", s) {
			c.Database.Driver = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabasePath sets the SQLite database file.
func OptDatabasePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Path", s) {
			c.Database.Path = s
		}
	}
}

// OptFakerFillNullable enables generation of values for nullable columns.
func OptFakerFillNullable(b bool) Option {
	return func(c *Config) {
		c.Faker.FillNullable = b
	}
}

// OptFakerFillDefault enables generation of values for columns
// with defaults.
func OptFakerFillDefault(b bool) Option {
	return func(c *Config) {
		c.Faker.FillDefault = b
	}
}

// OptFakerSmartDetection toggles name-based detection of field semantics.
func OptFakerSmartDetection(b bool) Option {
	return func(c *Config) {
		c.Faker.SmartDetection = b
	}
}

// OptFakerSeed makes generated data reproducible.
func OptFakerSeed(i int64) Option {
	return func(c *Config) {
		c.Faker.Seed = &i
	}
}

// OptFakerLocale sets the locale of generated data. Both "de_DE" and
// "de-DE" forms are accepted.
func OptFakerLocale(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "_", "-")
	return func(c *Config) {
		if !isValidString("Faker Locale", s) {
			return
		}
		tag, err := language.Parse(s)
		if err != nil {
			warnf("<em>Faker Locale</em> '%s' is not a valid language tag, ignoring", s)
			return
		}
		c.Faker.Locale = tag.String()
	}
}

// OptFakerBulkSize sets the number of rows inserted per batch.
func OptFakerBulkSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Bulk Size", i) {
			c.Faker.BulkSize = i
		}
	}
}

// OptFakerFieldOverrides sets value producers for named columns.
// Runtime-only field - not in ToOptions().
func OptFakerFieldOverrides(m map[string]FieldOverride) Option {
	return func(c *Config) {
		if len(m) > 0 {
			c.Faker.FieldOverrides = m
		}
	}
}

// OptFakerSource shares a random source between synthesizers.
// Runtime-only field - not in ToOptions().
func OptFakerSource(f *gofakeit.Faker) Option {
	return func(c *Config) {
		if f != nil {
			c.Faker.Source = f
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of tables seeded concurrently.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptSchemaPath sets the path to the YAML file with table definitions.
func OptSchemaPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Schema Path", s) {
			c.SchemaPath = s
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

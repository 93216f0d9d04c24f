/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnseed/internal/iofs"
	"github.com/gnames/gnseed/internal/iologger"
	app "github.com/gnames/gnseed/pkg"
	"github.com/gnames/gnseed/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gnseed",
		Short:   "GNseed fills database tables with fake test fixtures",
		Long: `GNseed generates realistic fake rows for database tables described
in a YAML schema or by gorm models. Rows that other rows reference are
created on the way, so foreign keys always point to existing records.

Supported databases: PostgreSQL and SQLite.

Main commands:
  - create: Create tables of the schema
  - seed:   Fill tables with fake rows
  - reset:  Delete all rows of tables

Configuration precedence (highest to lowest):
  1. CLI flags (--seed, --locale, etc.)
  2. Environment variables (GNSEED_*)
  3. Config file (~/.config/gnseed/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host -> GNSEED_DATABASE_HOST).

  Examples:
    GNSEED_DATABASE_DRIVER     postgres or sqlite
    GNSEED_DATABASE_PATH       SQLite database file
    GNSEED_FAKER_SEED          Seed for reproducible rows
    GNSEED_FAKER_LOCALE        Locale of generated data (en-US)
    GNSEED_LOG_LEVEL           Log level (debug/info/warn/error)`,
		PersistentPreRunE: bootstrap,
		RunE: func(cmd *cobra.Command, args []string) error {
			versionFlag(cmd)
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Remove the automatic "gnseed version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnseed")

	rootCmd.AddCommand(
		getCreateCmd(),
		getSeedCmd(),
		getResetCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureSchemaFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"driver", cfg.Database.Driver,
	)

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, false)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Env variables are bound one by one to keep the list of allowed ones
	// visible. They match the fields of config.ToOptions().
	v.SetEnvPrefix("GNSEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.driver", "GNSEED_DATABASE_DRIVER")
	v.BindEnv("database.host", "GNSEED_DATABASE_HOST")
	v.BindEnv("database.port", "GNSEED_DATABASE_PORT")
	v.BindEnv("database.user", "GNSEED_DATABASE_USER")
	v.BindEnv("database.password", "GNSEED_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNSEED_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNSEED_DATABASE_SSL_MODE")
	v.BindEnv("database.path", "GNSEED_DATABASE_PATH")

	// Faker configuration
	v.BindEnv("faker.fill_nullable", "GNSEED_FAKER_FILL_NULLABLE")
	v.BindEnv("faker.fill_default", "GNSEED_FAKER_FILL_DEFAULT")
	v.BindEnv("faker.smart_detection", "GNSEED_FAKER_SMART_DETECTION")
	v.BindEnv("faker.seed", "GNSEED_FAKER_SEED")
	v.BindEnv("faker.locale", "GNSEED_FAKER_LOCALE")
	v.BindEnv("faker.bulk_size", "GNSEED_FAKER_BULK_SIZE")

	// Log configuration
	v.BindEnv("log.level", "GNSEED_LOG_LEVEL")
	v.BindEnv("log.format", "GNSEED_LOG_FORMAT")
	v.BindEnv("log.destination", "GNSEED_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "GNSEED_JOBS_NUMBER")
	v.BindEnv("schema_path", "GNSEED_SCHEMA_PATH")

	v.AutomaticEnv()
}

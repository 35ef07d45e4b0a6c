// Package cli implements the cloudlens operations CLI. The commands
// work directly against the configured database, so they run on the
// host that owns the data, not through the HTTP API.
package cli

import (
	"database/sql"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/cloudlens/internal/config"
	"github.com/pratik-mahalle/cloudlens/internal/pkg/logger"
	"github.com/pratik-mahalle/cloudlens/internal/repository/postgres"
)

var rootCmd = &cobra.Command{
	Use:   "cloudlens",
	Short: "CloudLens - multi-cloud monitoring dashboard backend",
	Long: `CloudLens aggregates billing, resource and performance metrics across
cloud providers and keeps an alert ledger per account. This CLI runs the
API server and handles data operations: migrations, demo seeding and
cleanup.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db-driver", "", "database driver: sqlite or postgres (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().String("db-path", "", "sqlite database path (overrides DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	_ = viper.BindPFlag("db_driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db-path"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newSweepCmd())
}

// loadConfig loads the environment configuration with any persistent
// flag overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := viper.GetString("db_driver"); v != "" {
		cfg.Database.Driver = v
	}
	if v := viper.GetString("db_path"); v != "" {
		cfg.Database.Path = v
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.Logging.Level = v
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	return postgres.New(cfg.Database)
}

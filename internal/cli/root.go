// Package cli implements the tellme command line interface.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xeij/tellme/internal/config"
	"github.com/xeij/tellme/internal/logging"
	"github.com/xeij/tellme/pkg/tellme"
	"github.com/xeij/tellme/pkg/tellme/store/sqlite"
)

// Version is the current release, also reported to the update checker.
const Version = "0.2.0"

var (
	flagConfig   string
	flagDB       string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "tellme",
	Short:         "Read short encyclopedia texts, one at a time",
	Long:          "tellme fetches short encyclopedia texts into a local database and\nserves them one at a time, learning which topics you actually read.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log verbosity (trace, debug, info, warn, error)")
}

// loadConfig resolves configuration in flag > env > file > default order.
func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	return cfg, nil
}

// openService opens the database and wires the reading service. The caller
// must Close the service.
func openService(cmd *cobra.Command) (*tellme.Service, config.Config, zerolog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, zerolog.Nop(), err
	}
	log := logging.New(cfg.Logging.Level)

	st, err := sqlite.Open(cmd.Context(), cfg.Database.Path)
	if err != nil {
		return nil, config.Config{}, zerolog.Nop(), fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}

	return tellme.New(tellme.Options{Store: st}), cfg, log, nil
}

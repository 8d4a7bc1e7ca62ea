package main

import (
	"fmt"
	"os"

	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/config"
	"github.com/greengenius/greengenius/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "greengenius",
	Short: "GreenGenius plant monitoring backend",
	Long: `GreenGenius identifies plants from photos, tracks pot sensors and
growth, and hosts plant communities.

Configuration is read from .env, an optional YAML file and the environment.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (or set CONFIG_FILE env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(wipeCommunitiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, installs the logger and connects the database.
func setup() (*config.Config, *zap.Logger, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if configFile != "" {
		os.Setenv("CONFIG_FILE", configFile)
	}

	cfg, err := config.Load()

	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.LogLevel)

	if err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if err := db.ConnectDatabase(cfg.Database.Driver, cfg.Database.DSN); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, logger, nil
}

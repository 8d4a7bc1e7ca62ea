package main

import (
	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/handlers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup()

		if err != nil {
			return err
		}

		defer logger.Sync()

		if err := db.MigrateDatabase(); err != nil {
			return err
		}

		zap.L().Info("Database migrated")
		return nil
	},
}

var wipeCommunitiesCmd = &cobra.Command{
	Use:   "wipe-communities",
	Short: "Delete every community with its members, posts and comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup()

		if err != nil {
			return err
		}

		defer logger.Sync()

		removed, err := handlers.WipeAllCommunities()

		if err != nil {
			return err
		}

		zap.L().Info("Wiped communities", zap.Int64("count", removed))
		return nil
	},
}

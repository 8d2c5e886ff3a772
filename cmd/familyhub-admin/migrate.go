package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := openStore()
		if err != nil {
			return err
		}
		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			return err
		}
		log.Info().Str("path", cfg.MigrationsPath).Msg("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

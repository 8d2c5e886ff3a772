package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/familyhub/internal/config"
	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
)

var rootCmd = &cobra.Command{
	Use:           "familyhub-admin",
	Short:         "Operator tasks for a Family Hub deployment",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// openStore loads config and connects; every subcommand needs the database.
func openStore() (*config.Config, db.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := db.Init(cfg.DatabaseURL); err != nil {
		return nil, nil, err
	}
	return cfg, db.NewStore(), nil
}

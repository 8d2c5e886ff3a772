package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

var (
	DB *sqlx.DB
)

// opens a PostgreSQL connection and assigns it to DB.
// retries while the database container is still starting.
func Init(databaseURL string) error {
	const maxRetries = 10
	const retryInterval = 2 * time.Second
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		DB, err = sqlx.Connect("postgres", databaseURL)
		if err == nil {
			DB.SetMaxOpenConns(20)
			DB.SetConnMaxIdleTime(5 * time.Minute)
			log.Info().Msg("connected to database")
			return nil
		}

		log.Error().Err(err).
			Int("attempt", attempt).
			Msgf("failed to connect to database, retrying in %s", retryInterval)

		time.Sleep(retryInterval)
	}

	return fmt.Errorf("could not connect to database after %d attempts: %w", maxRetries, err)
}

// finds all "*.up.sql" files in migrationsPath (sorted by name)
// and executes them in order. "*.down.sql" files are ignored.
// every statement is idempotent so re-running on boot is safe.
func RunMigrations(migrationsPath string) error {
	pattern := filepath.Join(migrationsPath, "*.up.sql")
	files, err := filepath.Glob(pattern)
	if err != nil {
		log.Error().Err(err).Msg("failed to list up migrations")
		return fmt.Errorf("failed to glob migrations: %w", err)
	}
	if len(files) == 0 {
		log.Warn().Str("path", migrationsPath).Msg("no migrations found")
		return nil
	}

	sort.Strings(files)

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			log.Error().Err(err).Str("file", file).Msg("failed to read migration file")
			return fmt.Errorf("could not read migration %q: %w", file, err)
		}
		if len(sqlBytes) == 0 {
			continue
		}
		if _, err := DB.Exec(string(sqlBytes)); err != nil {
			return fmt.Errorf("error executing migration %q: %w", file, err)
		}
		log.Debug().Str("file", filepath.Base(file)).Msg("migration applied")
	}
	return nil
}

package db

import (
	"errors"
	"os"
)

var TestStore Store

// InitTestDB connects to TEST_DATABASE_URL and migrates it.
// integration tests skip themselves when it returns an error.
func InitTestDB(migrationsPath string) error {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		return errors.New("TEST_DATABASE_URL environment variable is not set")
	}

	if err := Init(dbURL); err != nil {
		return err
	}

	if err := RunMigrations(migrationsPath); err != nil {
		return err
	}

	TestStore = NewStore()
	return nil
}

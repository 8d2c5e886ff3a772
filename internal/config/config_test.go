package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseAndSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "x")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/db")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_ADDRESS", "")
	t.Setenv("REMINDER_INTERVAL", "")
	t.Setenv("USE_SPACES", "")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "./migrations", cfg.MigrationsPath)
	assert.Equal(t, 30*time.Second, cfg.ReminderInterval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.False(t, cfg.UseSpaces)
}

func TestLoad_BadInterval(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REMINDER_INTERVAL", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_SpacesNeedsBucket(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REMINDER_INTERVAL", "")
	t.Setenv("USE_SPACES", "true")
	t.Setenv("SPACES_BUCKET", "")
	_, err := Load()
	assert.Error(t, err)
}

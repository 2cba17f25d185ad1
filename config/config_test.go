package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.True(t, cfg.Store.RunMigrations)
	assert.Equal(t, DefaultPasscode, cfg.Passcode)
	assert.Equal(t, "", cfg.StatusAddr)
	assert.Equal(t, "development", cfg.Logger.Mode)
}

func TestOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"STORE_DRIVER":   "Postgres",
		"DATABASE_URL":   "postgres://localhost/vending",
		"STORE_TIMEOUT":  "750ms",
		"RUN_MIGRATIONS": "false",
		"ADMIN_PASSCODE": "9999",
		"STATUS_ADDR":    ":8082",
		"LOG_MODE":       "production",
		"LOG_FILE":       "/tmp/vending.log",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Store.Timeout)
	assert.False(t, cfg.Store.RunMigrations)
	assert.Equal(t, "9999", cfg.Passcode)
	assert.Equal(t, ":8082", cfg.StatusAddr)
	assert.Equal(t, "/tmp/vending.log", cfg.Logger.Filename)
}

func TestValidation(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without dsn", map[string]string{"STORE_DRIVER": "postgres"}},
		{"gorm without dsn", map[string]string{"STORE_DRIVER": "gorm"}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "sheets"}},
		{"bad timeout", map[string]string{"STORE_TIMEOUT": "soon"}},
		{"zero timeout", map[string]string{"STORE_TIMEOUT": "0s"}},
		{"bad bool", map[string]string{"RUN_MIGRATIONS": "perhaps"}},
		{"default passcode in production", map[string]string{"LOG_MODE": "production"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tc.env))
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_PASSCODE=from-dotenv\n"), 0o600))
	t.Setenv("ADMIN_PASSCODE", "")
	require.NoError(t, os.Unsetenv("ADMIN_PASSCODE"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Passcode)
}

func TestLoadMissingDotEnv(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

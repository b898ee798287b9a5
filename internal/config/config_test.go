package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, loaded, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 99, cfg.CouponThreshold)
	assert.Equal(t, 10, cfg.TopLimit)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=postgres\nTOP_LIMIT=5\n"), 0o600))
	t.Setenv("ADDR", ":9999")
	t.Setenv("TOP_LIMIT", "3")

	cfg, loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 3, cfg.TopLimit)

	// godotenv.Load sets process env; t.Setenv restores ADDR/TOP_LIMIT but not DB_DRIVER
	assert.Equal(t, "postgres", cfg.DBDriver)
	t.Cleanup(func() { os.Unsetenv("DB_DRIVER") })
}

func TestLoad_RejectsBadTopLimit(t *testing.T) {
	t.Setenv("TOP_LIMIT", "0")
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeJSONConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"db_driver":"postgres","debug":true,"nested":{"a":1}}`), 0o644))

	out := map[string]string{}
	require.NoError(t, mergeJSONConfig(path, out))

	assert.Equal(t, "postgres", out["DB_DRIVER"])
	assert.Equal(t, "true", out["DEBUG"])
	assert.NotContains(t, out, "NESTED")
}

func TestMergeDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	body := "# comment\nAPP_PORT=9090\nBAZAR_TEST_CURRENCY=\"eur\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Cleanup(func() { os.Unsetenv("BAZAR_TEST_CURRENCY") })

	out := map[string]string{}
	require.NoError(t, mergeDotEnv(path, out))

	assert.Equal(t, "9090", out["APP_PORT"])
	assert.Equal(t, "eur", out["BAZAR_TEST_CURRENCY"])
	assert.Equal(t, "eur", os.Getenv("BAZAR_TEST_CURRENCY"))
}

func TestMergeDotEnvMissingFile(t *testing.T) {
	err := mergeDotEnv(filepath.Join(t.TempDir(), "missing.env"), map[string]string{})
	assert.True(t, os.IsNotExist(err))
}

func TestBazarDefaults(t *testing.T) {
	s, err := Bazar()
	require.NoError(t, err)

	assert.True(t, s.DiscountsEnabled)
	assert.Equal(t, 25, s.PerPage)
	assert.Equal(t, 10*time.Minute, s.CategoryCacheTTL)
}

func TestBazarFromEnvironment(t *testing.T) {
	t.Setenv("BAZAR_DISCOUNTS_ENABLED", "false")
	t.Setenv("BAZAR_PER_PAGE", "10")
	t.Setenv("BAZAR_MAX_PER_PAGE", "5")
	t.Setenv("BAZAR_DISCOUNTS", "welcome:5,summer:10%")

	s, err := Bazar()
	require.NoError(t, err)

	assert.False(t, s.DiscountsEnabled)
	assert.Equal(t, []string{"welcome:5", "summer:10%"}, s.Discounts)
	assert.Equal(t, 10, s.PerPage)
	assert.Equal(t, 10, s.MaxPerPage)
}

func TestSetOverrides(t *testing.T) {
	Set("db_driver", "mysql")
	t.Cleanup(func() { Set("DB_DRIVER", defaultDatabaseDriver) })

	assert.Equal(t, "mysql", DatabaseDriver())
	assert.Contains(t, DatabaseDSN(), "tcp(127.0.0.1:3306)/bazar")
}

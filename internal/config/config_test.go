package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "productCatalog", cfg.MongoDB)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "2112", cfg.MetricsPort)
	assert.Equal(t, time.Minute, cfg.PrincipalCacheTTL)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.EnvFileLoaded)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGO_DB", "inventory")
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("PRINCIPAL_CACHE_TTL", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "inventory", cfg.MongoDB)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.PrincipalCacheTTL)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

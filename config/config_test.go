package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, uint64(1), cfg.Lookup.CountryID)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	yaml := []byte(`
server:
  port: 9090
database:
  driver: postgres
  dsn: "host=localhost user=postgres dbname=posts sslmode=disable"
redis:
  enabled: true
  addr: "127.0.0.1:6380"
  ttl: 30s
lookup:
  country_id: 3
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))
	t.Setenv("APP_CONFIG", path)
	t.Setenv("APP_LOOKUP_COUNTRY_ID", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "127.0.0.1:6380", cfg.Redis.Addr)
	assert.Equal(t, uint64(7), cfg.Lookup.CountryID)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "sqlite", DSN: ":memory:"},
			Lookup:   LookupConfig{CountryID: 1},
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Database.Driver = "mysql"
	assert.Error(t, c.Validate())

	c = base()
	c.Lookup.CountryID = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Redis = RedisConfig{Enabled: true}
	assert.Error(t, c.Validate())
}

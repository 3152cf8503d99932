package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBHost)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "flowdex", cfg.DBName)
	assert.Equal(t, 8081, cfg.ServerPort)
	assert.Equal(t, "file://migrations", cfg.MigrationPath)
	assert.Equal(t, "./workflows", cfg.WorkflowsDir)
	assert.Equal(t, 10, cfg.IngestionConcurrency)
	assert.Equal(t, 100, cfg.IngestionBatchSize)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("WORKFLOWS_DIR", "/srv/workflows")
	t.Setenv("INGESTION_CONCURRENCY", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 5433, cfg.DBPort)
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, "/srv/workflows", cfg.WorkflowsDir)
	assert.Equal(t, 4, cfg.IngestionConcurrency)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing host", func(c *Config) { c.DBHost = "" }, "DB_HOST"},
		{"missing user", func(c *Config) { c.DBUser = "" }, "DB_USER"},
		{"missing database", func(c *Config) { c.DBName = "" }, "DB_NAME"},
		{"missing workflows dir", func(c *Config) { c.WorkflowsDir = "" }, "WORKFLOWS_DIR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				DBHost:       "localhost",
				DBUser:       "flowdex",
				DBName:       "flowdex",
				WorkflowsDir: "./workflows",
			}
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingRequired)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "localhost",
		DBPort: 5432,
		DBUser: "flowdex",
		DBPass: "secret",
		DBName: "catalog",
	}
	assert.Equal(t, "host=localhost port=5432 user=flowdex password=secret dbname=catalog sslmode=disable", cfg.DSN())
}

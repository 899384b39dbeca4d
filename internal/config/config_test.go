package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL)
	require.Equal(t, "recaller", cfg.Postgres.Name)
	require.Equal(t, time.Minute, cfg.Worker.TickInterval)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  mode: production
auth:
  access_token_ttl: 30m
postgres:
  name: recaller_test
worker:
  tick_interval: 15s
  concurrency: 2
relationships:
  mapping_file: /etc/recaller/relationships.yaml
mcp:
  backend: openai
  base_url: http://llm.internal/v1
  request_timeout: 90s
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "production", cfg.Server.Mode)
	require.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	require.Equal(t, "recaller_test", cfg.Postgres.Name)
	require.Equal(t, 15*time.Second, cfg.Worker.TickInterval)
	require.Equal(t, 2, cfg.Worker.Concurrency)
	require.Equal(t, "/etc/recaller/relationships.yaml", cfg.Relationships.MappingFile)
	require.Equal(t, "openai", cfg.MCP.Backend)
	require.Equal(t, "http://llm.internal/v1", cfg.MCP.BaseURL)
	require.Equal(t, 90*time.Second, cfg.MCP.RequestTimeout)
	require.Equal(t, "8090", cfg.MCP.Port, "defaults survive partial mcp section")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
`)
	t.Setenv("PORT", "7070")
	t.Setenv("POSTGRES_HOST", "db.internal")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.Server.Port)
	require.Equal(t, "db.internal", cfg.Postgres.Host)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	_, err := Load(path, nil)
	require.Error(t, err)
}

func TestManagerCachesUntilInvalidated(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
`)
	m := NewManager(path, nil)

	cfg, err := m.Get()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)

	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"6060\"\n"), 0o644))

	cfg, err = m.Get()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port, "cached value survives file edits")

	m.Invalidate()
	cfg, err = m.Get()
	require.NoError(t, err)
	require.Equal(t, "6060", cfg.Server.Port)
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "h", Port: "5432", User: "u", Password: "pw", Name: "db", SSLMode: "disable"}
	require.Equal(t, "postgres://u:pw@h:5432/db?sslmode=disable", p.DSN())
}

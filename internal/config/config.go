// Package config loads the Recaller configuration from a YAML file with
// environment-variable overrides. A Manager caches the parsed file and is
// invalidated explicitly; there is no process-global memoization.
package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/recallerhq/recaller-backend/internal/platform/envutil"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Worker   WorkerConfig   `yaml:"worker"`

	// Relationships points at an optional YAML file extending the built-in
	// gendered relationship-type mapping table.
	Relationships RelationshipsConfig `yaml:"relationships"`

	MCP MCPConfig `yaml:"mcp"`
}

type ServerConfig struct {
	Port         string   `yaml:"port"`
	Mode         string   `yaml:"mode"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type AuthConfig struct {
	JWTSecretKey    string        `yaml:"jwt_secret_key"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
}

func (a *AuthConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		JWTSecretKey    string `yaml:"jwt_secret_key"`
		AccessTokenTTL  string `yaml:"access_token_ttl"`
		RefreshTokenTTL string `yaml:"refresh_token_ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.JWTSecretKey != "" {
		a.JWTSecretKey = raw.JWTSecretKey
	}
	var err error
	if a.AccessTokenTTL, err = parseDuration(raw.AccessTokenTTL, a.AccessTokenTTL); err != nil {
		return fmt.Errorf("access_token_ttl: %w", err)
	}
	if a.RefreshTokenTTL, err = parseDuration(raw.RefreshTokenTTL, a.RefreshTokenTTL); err != nil {
		return fmt.Errorf("refresh_token_ttl: %w", err)
	}
	return nil
}

// parseDuration accepts "1h30m"-style strings, keeping fallback when empty.
func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Name, p.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

type WorkerConfig struct {
	// TickInterval is how often the recurrence worker scans for due rules.
	TickInterval time.Duration `yaml:"tick_interval"`
	// Concurrency bounds how many rules are materialized in parallel per tick.
	Concurrency int `yaml:"concurrency"`
}

func (w *WorkerConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TickInterval string `yaml:"tick_interval"`
		Concurrency  int    `yaml:"concurrency"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Concurrency != 0 {
		w.Concurrency = raw.Concurrency
	}
	var err error
	if w.TickInterval, err = parseDuration(raw.TickInterval, w.TickInterval); err != nil {
		return fmt.Errorf("tick_interval: %w", err)
	}
	return nil
}

type RelationshipsConfig struct {
	MappingFile string `yaml:"mapping_file"`
}

// MCPConfig drives the standalone gateway binary that proxies chat and
// embedding requests to an LLM backend.
type MCPConfig struct {
	Port string `yaml:"port"`
	// Backend selects the provider: "mock" or "openai".
	Backend        string        `yaml:"backend"`
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	EmbeddingModel string        `yaml:"embedding_model"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

func (m *MCPConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Port           string `yaml:"port"`
		Backend        string `yaml:"backend"`
		APIKey         string `yaml:"api_key"`
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		EmbeddingModel string `yaml:"embedding_model"`
		RequestTimeout string `yaml:"request_timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Port != "" {
		m.Port = raw.Port
	}
	if raw.Backend != "" {
		m.Backend = raw.Backend
	}
	if raw.APIKey != "" {
		m.APIKey = raw.APIKey
	}
	if raw.BaseURL != "" {
		m.BaseURL = raw.BaseURL
	}
	if raw.Model != "" {
		m.Model = raw.Model
	}
	if raw.EmbeddingModel != "" {
		m.EmbeddingModel = raw.EmbeddingModel
	}
	var err error
	if m.RequestTimeout, err = parseDuration(raw.RequestTimeout, m.RequestTimeout); err != nil {
		return fmt.Errorf("request_timeout: %w", err)
	}
	return nil
}

func defaults() Config {
	return Config{
		Server: ServerConfig{Port: "8080", Mode: "development"},
		Auth: AuthConfig{
			JWTSecretKey:    "defaultsecret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "recaller",
			SSLMode: "disable",
		},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		Worker: WorkerConfig{TickInterval: time.Minute, Concurrency: 4},
		MCP: MCPConfig{
			Port:           "8090",
			Backend:        "mock",
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
			RequestTimeout: 60 * time.Second,
		},
	}
}

// Load reads the YAML file at path (skipped when empty) and applies env
// overrides on top of the built-in defaults.
func Load(path string, log *logger.Logger) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("unmarshalling config YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg, log)

	if cfg.Auth.AccessTokenTTL <= 0 {
		cfg.Auth.AccessTokenTTL = time.Hour
	}
	if cfg.Auth.RefreshTokenTTL <= 0 {
		cfg.Auth.RefreshTokenTTL = 24 * time.Hour
	}
	if cfg.Worker.TickInterval <= 0 {
		cfg.Worker.TickInterval = time.Minute
	}
	if cfg.Worker.Concurrency < 1 {
		cfg.Worker.Concurrency = 1
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config, log *logger.Logger) {
	cfg.Server.Port = envutil.GetEnv("PORT", cfg.Server.Port, log)
	cfg.Server.Mode = envutil.GetEnv("SERVER_MODE", cfg.Server.Mode, log)

	cfg.Auth.JWTSecretKey = envutil.GetEnv("JWT_SECRET_KEY", cfg.Auth.JWTSecretKey, log)
	if v := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 0, log); v > 0 {
		cfg.Auth.AccessTokenTTL = time.Duration(v) * time.Second
	}
	if v := envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 0, log); v > 0 {
		cfg.Auth.RefreshTokenTTL = time.Duration(v) * time.Second
	}

	cfg.Postgres.Host = envutil.GetEnv("POSTGRES_HOST", cfg.Postgres.Host, log)
	cfg.Postgres.Port = envutil.GetEnv("POSTGRES_PORT", cfg.Postgres.Port, log)
	cfg.Postgres.User = envutil.GetEnv("POSTGRES_USER", cfg.Postgres.User, log)
	cfg.Postgres.Password = envutil.GetEnv("POSTGRES_PASSWORD", cfg.Postgres.Password, log)
	cfg.Postgres.Name = envutil.GetEnv("POSTGRES_NAME", cfg.Postgres.Name, log)
	cfg.Postgres.SSLMode = envutil.GetEnv("POSTGRES_SSLMODE", cfg.Postgres.SSLMode, log)

	cfg.Redis.Addr = envutil.GetEnv("REDIS_ADDR", cfg.Redis.Addr, log)
	cfg.Redis.Password = envutil.GetEnv("REDIS_PASSWORD", cfg.Redis.Password, log)
	cfg.Redis.Enabled = envutil.GetEnvAsBool("REDIS_ENABLED", cfg.Redis.Enabled, log)

	cfg.Relationships.MappingFile = envutil.GetEnv("RELATIONSHIP_MAPPING_FILE", cfg.Relationships.MappingFile, log)

	cfg.MCP.Port = envutil.GetEnv("MCP_PORT", cfg.MCP.Port, log)
	cfg.MCP.Backend = envutil.GetEnv("MCP_BACKEND", cfg.MCP.Backend, log)
	cfg.MCP.APIKey = envutil.GetEnv("OPENAI_API_KEY", cfg.MCP.APIKey, log)
	cfg.MCP.BaseURL = envutil.GetEnv("OPENAI_BASE_URL", cfg.MCP.BaseURL, log)
	cfg.MCP.Model = envutil.GetEnv("MCP_MODEL", cfg.MCP.Model, log)
	cfg.MCP.EmbeddingModel = envutil.GetEnv("MCP_EMBEDDING_MODEL", cfg.MCP.EmbeddingModel, log)
}

// Manager caches one parsed Config and reloads on demand.
type Manager struct {
	mu   sync.RWMutex
	path string
	log  *logger.Logger

	loaded bool
	cfg    Config
}

func NewManager(path string, log *logger.Logger) *Manager {
	return &Manager{path: path, log: log}
}

func (m *Manager) Get() (Config, error) {
	m.mu.RLock()
	if m.loaded {
		cfg := m.cfg
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return m.cfg, nil
	}
	cfg, err := Load(m.path, m.log)
	if err != nil {
		return cfg, err
	}
	m.cfg = cfg
	m.loaded = true
	return cfg, nil
}

// Invalidate drops the cached config; the next Get re-reads the file.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.loaded = false
	m.mu.Unlock()
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "JETSET_"

type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Timezone     string             `koanf:"timezone"`
	Oracle       OracleConfig       `koanf:"oracle"`
	Travel       TravelConfig       `koanf:"travel"`
	Conversation ConversationConfig `koanf:"conversation"`
	Store        StoreConfig        `koanf:"store"`
	Redis        RedisConfig        `koanf:"redis"`
	Cache        CacheConfig        `koanf:"cache"`
	Search       SearchConfig       `koanf:"search"`
	Telemetry    TelemetryConfig    `koanf:"telemetry"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

// OracleConfig points at an OpenAI-compatible chat completions endpoint.
type OracleConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxTokens         int           `koanf:"max_tokens"`
}

type TravelConfig struct {
	Transport         string        `koanf:"transport"` // rest, mcp
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	ServerID          string        `koanf:"server_id"`
	ToolPrefix        string        `koanf:"tool_prefix"`
	LanguageCode      string        `koanf:"language_code"`
	CurrencyCode      string        `koanf:"currency_code"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

type ConversationConfig struct {
	HistoryTurns    int           `koanf:"history_turns"`
	HistoryTokens   int           `koanf:"history_tokens"`
	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

type StoreConfig struct {
	Type       string `koanf:"type"` // memory, redis, sqlite
	SQLitePath string `koanf:"sqlite_path"`
}

type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

type SearchConfig struct {
	ResultLimit int `koanf:"result_limit"`
}

type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
}

const (
	TransportREST = "rest"
	TransportMCP  = "mcp"

	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 9002},
		Timezone: "Local",
		Oracle: OracleConfig{
			Model:             "claude-opus-4-5-20251101",
			Timeout:           2 * time.Minute,
			RequestsPerSecond: 2,
			Burst:             4,
			MaxTokens:         1024,
		},
		Travel: TravelConfig{
			Transport:         TransportREST,
			LanguageCode:      "en-us",
			CurrencyCode:      "USD",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Conversation: ConversationConfig{
			HistoryTurns:    10,
			HistoryTokens:   2000,
			TTL:             24 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Store: StoreConfig{
			Type:       StoreMemory,
			SQLitePath: "jetset.db",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     10 * time.Minute,
		},
		Search: SearchConfig{ResultLimit: 8},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, JETSET_* variables and finally the legacy deployment variables.
// JETSET_ORACLE__API_KEY sets oracle.api_key.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	applyLegacyEnv(cfg, k)
	return cfg, nil
}

// applyLegacyEnv fills settings that the new keys left unset from the
// variables the original deployment used.
func applyLegacyEnv(cfg *Config, k *koanf.Koanf) {
	if !k.Exists("server.port") {
		if port := getEnv("PORT", ""); port != "" {
			if p, err := strconv.Atoi(port); err == nil && p > 0 {
				cfg.Server.Port = p
			}
		}
	}

	baseURL := getEnv("ANTHROPIC_BASE_URL", "")
	apiKey := getEnv("ANTHROPIC_API_KEY", "")

	if cfg.Oracle.BaseURL == "" {
		cfg.Oracle.BaseURL = baseURL
	}
	if cfg.Oracle.APIKey == "" {
		cfg.Oracle.APIKey = apiKey
	}
	if !k.Exists("oracle.model") {
		cfg.Oracle.Model = getEnv("ANTHROPIC_MODEL", cfg.Oracle.Model)
	}

	if cfg.Travel.BaseURL == "" {
		cfg.Travel.BaseURL = baseURL
	}
	if cfg.Travel.APIKey == "" {
		cfg.Travel.APIKey = getEnv("BOOKING_MCP_API_KEY", apiKey)
	}
	if cfg.Travel.ServerID == "" {
		cfg.Travel.ServerID = getEnv("BOOKING_MCP_SERVER_ID", "")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	switch c.Travel.Transport {
	case TransportREST, TransportMCP:
	default:
		return fmt.Errorf("invalid travel.transport %q: must be one of rest, mcp", c.Travel.Transport)
	}

	switch c.Store.Type {
	case StoreMemory, StoreRedis:
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("invalid store.type %q: must be one of memory, redis, sqlite", c.Store.Type)
	}

	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("oracle.timeout must be positive")
	}
	if c.Travel.Timeout <= 0 {
		return fmt.Errorf("travel.timeout must be positive")
	}
	if c.Conversation.HistoryTurns <= 0 {
		return fmt.Errorf("conversation.history_turns must be positive")
	}
	if c.Conversation.HistoryTokens < 0 {
		return fmt.Errorf("conversation.history_tokens must be non-negative")
	}
	if c.Conversation.TTL < 0 {
		return fmt.Errorf("conversation.ttl must be non-negative")
	}
	if c.Search.ResultLimit <= 0 {
		return fmt.Errorf("search.result_limit must be positive")
	}
	if c.Oracle.RequestsPerSecond < 0 || c.Travel.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be non-negative")
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

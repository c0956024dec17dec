// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

// Package config loads service configuration from layered sources: struct
// defaults, an optional YAML file, then SKILLBRIDGE_-prefixed environment
// variables. Later layers win.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/skillbridge/skillbridge/internal/logging"
	"github.com/skillbridge/skillbridge/internal/recommend"
	"github.com/skillbridge/skillbridge/internal/store"
)

// envPrefix namespaces the service's environment variables.
const envPrefix = "SKILLBRIDGE_"

// DefaultConfigPaths are probed in order when no explicit path is given.
var DefaultConfigPaths = []string{
	"skillbridge.yaml",
	"config/skillbridge.yaml",
	"/etc/skillbridge/config.yaml",
}

// Config is the full service configuration.
type Config struct {
	// Server holds HTTP listener settings
	Server ServerConfig `json:"server" koanf:"server"`
	// Database holds DuckDB settings
	Database store.Config `json:"database" koanf:"database"`
	// Cache holds recommendation cache backend settings
	Cache CacheConfig `json:"cache" koanf:"cache"`
	// Recommend holds engine tuning
	Recommend recommend.Config `json:"recommend" koanf:"recommend"`
	// Events holds instrumentation bus settings
	Events EventsConfig `json:"events" koanf:"events"`
	// Security holds CORS and rate limit settings
	Security SecurityConfig `json:"security" koanf:"security"`
	// Logging holds logger settings
	Logging logging.Config `json:"logging" koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// Host is the bind address
	Host string `json:"host" koanf:"host"`
	// Port is the listen port
	Port int `json:"port" koanf:"port"`
	// ReadTimeout bounds request reading
	ReadTimeout time.Duration `json:"read_timeout" koanf:"read_timeout"`
	// WriteTimeout bounds response writing
	WriteTimeout time.Duration `json:"write_timeout" koanf:"write_timeout"`
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `json:"shutdown_timeout" koanf:"shutdown_timeout"`
}

// CacheConfig selects and tunes the recommendation cache backend.
type CacheConfig struct {
	// Backend is "memory" or "badger"
	Backend string `json:"backend" koanf:"backend"`
	// Path is the on-disk location for the badger backend
	Path string `json:"path" koanf:"path"`
	// MaxEntries caps the memory backend; 0 means unbounded
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
	// CleanupInterval is the memory backend janitor period
	CleanupInterval time.Duration `json:"cleanup_interval" koanf:"cleanup_interval"`
}

// EventsConfig tunes the instrumentation bus.
type EventsConfig struct {
	// Enabled toggles event emission entirely
	Enabled bool `json:"enabled" koanf:"enabled"`
	// BufferSize is the per-topic channel buffer
	BufferSize int64 `json:"buffer_size" koanf:"buffer_size"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	// CORSOrigins lists allowed origins; empty allows none
	CORSOrigins []string `json:"cors_origins" koanf:"cors_origins"`
	// RateLimitRequests is the per-IP request budget per window;
	// 0 disables rate limiting
	RateLimitRequests int `json:"rate_limit_requests" koanf:"rate_limit_requests"`
	// RateLimitWindow is the rate limit window
	RateLimitWindow time.Duration `json:"rate_limit_window" koanf:"rate_limit_window"`
}

// Default returns production defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: store.DefaultConfig(),
		Cache: CacheConfig{
			Backend:         "memory",
			CleanupInterval: 5 * time.Minute,
		},
		Recommend: recommend.DefaultConfig(),
		Events: EventsConfig{
			Enabled:    true,
			BufferSize: 256,
		},
		Security: SecurityConfig{
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load builds the configuration. path may be empty, in which case
// DefaultConfigPaths are probed; a missing file is not an error, a
// malformed one is.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if configPath := findConfigFile(path); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	normalizeSlices(k)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d outside [1, 65535]", c.Server.Port)
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "badger" {
		return fmt.Errorf("config: cache.backend must be memory or badger, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "badger" && c.Cache.Path == "" {
		return fmt.Errorf("config: cache.path is required for the badger backend")
	}
	if c.Security.RateLimitRequests > 0 && c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("config: security.rate_limit_window must be positive")
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("config: recommend: %w", err)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, p := range DefaultConfigPaths {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// envTransform maps SKILLBRIDGE_SECTION_KEY to section.key. Keys whose
// names themselves contain underscores need an explicit entry.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	explicit := map[string]string{
		"server_read_timeout":           "server.read_timeout",
		"server_write_timeout":          "server.write_timeout",
		"server_shutdown_timeout":       "server.shutdown_timeout",
		"database_max_memory":           "database.max_memory",
		"database_max_open_conns":       "database.max_open_conns",
		"cache_max_entries":             "cache.max_entries",
		"cache_cleanup_interval":        "cache.cleanup_interval",
		"recommend_default_limit":       "recommend.default_limit",
		"recommend_max_limit":           "recommend.max_limit",
		"recommend_scoring_mode":        "recommend.scoring_mode",
		"recommend_mandatory_weight":    "recommend.mandatory_weight",
		"recommend_cache_enabled":       "recommend.cache_enabled",
		"recommend_cache_ttl":           "recommend.cache_ttl",
		"events_buffer_size":            "events.buffer_size",
		"security_cors_origins":         "security.cors_origins",
		"security_rate_limit_requests":  "security.rate_limit_requests",
		"security_rate_limit_window":    "security.rate_limit_window",
	}
	if mapped, ok := explicit[key]; ok {
		return mapped
	}

	return strings.Replace(key, "_", ".", 1)
}

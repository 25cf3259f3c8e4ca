// Package config loads client settings from defaults, an optional YAML/JSON file
// and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "osl.yaml"

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultPrefix  = "osl:"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// StoreConfig selects where credentials and chained fields are kept.
type StoreConfig struct {
	Backend  string `yaml:"backend" json:"backend"`
	Path     string `yaml:"path" json:"path"`
	RedisURL string `yaml:"redis_url" json:"redis_url"`
	Prefix   string `yaml:"prefix" json:"prefix"`
	// TTL is a Go duration ("720h") after which redis keys expire; empty keeps them.
	TTL string `yaml:"ttl" json:"ttl"`

	// EncryptionKey (base64, 32 bytes) enables AES-GCM encryption of stored values.
	EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
	// FallbackKeys are previous keys still accepted for reading.
	FallbackKeys []string `yaml:"fallback_keys" json:"fallback_keys"`
}

// Config is the resolved client configuration.
type Config struct {
	BaseURL         string      `yaml:"base_url" json:"base_url"`
	DefaultTenantID string      `yaml:"default_tenant_id" json:"default_tenant_id"`
	Store           StoreConfig `yaml:"store" json:"store"`
	Output          string      `yaml:"output" json:"output"`
	// MaxBodyBytes caps response body reads; 0 uses the client default.
	MaxBodyBytes int64 `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    DefaultStorePath(),
			Prefix:  DefaultPrefix,
		},
		Output: OutputText,
	}
}

// DefaultStorePath is ~/.osl/state.json, or .osl/state.json when there is no home.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".osl", "state.json")
	}
	return filepath.Join(home, ".osl", "state.json")
}

// Load resolves defaults, then the file at path (YAML, or JSON by extension),
// then environment overrides. An empty path reads DefaultFile if it exists;
// an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func getEnv(keys ...string) (string, bool) {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v, true
		}
	}
	return "", false
}

func (c *Config) applyEnv() {
	if v, ok := getEnv("OSL_BASE_URL"); ok {
		c.BaseURL = v
	}
	if v, ok := getEnv("OSL_DEFAULT_TENANT_ID", "DEFAULT_TENANT_ID"); ok {
		c.DefaultTenantID = v
	}
	if v, ok := getEnv("OSL_STORE"); ok {
		c.Store.Backend = v
	}
	if v, ok := getEnv("OSL_STORE_PATH"); ok {
		c.Store.Path = v
	}
	if v, ok := getEnv("OSL_REDIS_URL"); ok {
		c.Store.RedisURL = v
	}
	if v, ok := getEnv("OSL_STORE_KEY"); ok {
		c.Store.EncryptionKey = v
	}
	if v, ok := getEnv("OSL_STORE_TTL"); ok {
		c.Store.TTL = v
	}
	if v, ok := getEnv("OSL_MAX_BODY_BYTES"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxBodyBytes = n
		} else {
			c.MaxBodyBytes = -1
		}
	}
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	c.DefaultTenantID = strings.TrimSpace(c.DefaultTenantID)
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	c.Store.EncryptionKey = strings.TrimSpace(c.Store.EncryptionKey)
	c.Store.TTL = strings.TrimSpace(c.Store.TTL)
	if c.Store.Backend == "" {
		c.Store.Backend = BackendFile
	}
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath()
	}
	if c.Output == "" {
		c.Output = OutputText
	}
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want memory, file or redis)", c.Store.Backend)
	}
	if _, err := c.Store.TTLDuration(); err != nil {
		return err
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must be a non-negative integer")
	}
	if c.Store.EncryptionKey == "" && len(c.Store.FallbackKeys) > 0 {
		return fmt.Errorf("store.fallback_keys requires store.encryption_key")
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("unknown output %q (want text or json)", c.Output)
	}
	return nil
}

// TTLDuration parses TTL; an empty value means no expiration.
func (s StoreConfig) TTLDuration() (time.Duration, error) {
	if s.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.TTL)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid store.ttl %q (want a positive duration such as 720h)", s.TTL)
	}
	return d, nil
}

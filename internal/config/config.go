package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for InferPrompt
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Optimizer OptimizerConfig `json:"optimizer"`
}

// ServerConfig holds API server configuration
type ServerConfig struct {
	Host        string   `json:"host" env:"INFERPROMPT_SERVER_HOST"`
	Port        int      `json:"port" env:"INFERPROMPT_SERVER_PORT"`
	CORSOrigins []string `json:"cors_origins" env:"INFERPROMPT_CORS_ORIGINS"`
	// RateLimit is the API request budget in requests per second, shared
	// across all clients; 0 disables limiting.
	RateLimit float64 `json:"rate_limit" env:"INFERPROMPT_RATE_LIMIT"`
	RateBurst int     `json:"rate_burst" env:"INFERPROMPT_RATE_BURST"`
}

// DatabaseConfig holds storage configuration. PostgresURL selects the
// postgres backend when set; otherwise Path selects the sqlite file.
type DatabaseConfig struct {
	Path        string `json:"path" env:"INFERPROMPT_DB_PATH"`
	PostgresURL string `json:"postgres_url" env:"INFERPROMPT_POSTGRES_URL"`
}

// OptimizerConfig holds optimization pipeline configuration
type OptimizerConfig struct {
	DefaultModel  string `json:"default_model" env:"INFERPROMPT_DEFAULT_MODEL"`
	CacheCapacity int    `json:"cache_capacity" env:"INFERPROMPT_CACHE_CAPACITY"`
	// SeedsPath optionally points at a YAML file overriding the built-in
	// efficacy seed values.
	SeedsPath string `json:"seeds_path" env:"INFERPROMPT_SEEDS_PATH"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".inferprompt")

	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000"},
			RateLimit:   0,
			RateBurst:   20,
		},
		Database: DatabaseConfig{
			Path:        filepath.Join(dataDir, "inferprompt.db"),
			PostgresURL: "",
		},
		Optimizer: OptimizerConfig{
			DefaultModel:  "gpt-4",
			CacheCapacity: 32,
			SeedsPath:     "",
		},
	}
}

// Load builds the effective configuration: defaults, then the optional JSON
// config file, then INFERPROMPT_* environment variables on top.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse config file %s: %v\n", configPath, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Database.PostgresURL == "" && cfg.Database.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UsesPostgres reports whether the postgres backend is selected.
func (c *Config) UsesPostgres() bool {
	return c.Database.PostgresURL != ""
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// isValidURL validates that a URL has proper format
func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server port must be between 1 and 65535")
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, "rate limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		errs = append(errs, "rate burst must be at least 1 when rate limiting is enabled")
	}

	if c.Database.PostgresURL == "" && c.Database.Path == "" {
		errs = append(errs, "either PostgreSQL URL or database path is required")
	}
	if c.Database.PostgresURL != "" && !isValidURL(c.Database.PostgresURL) {
		errs = append(errs, "PostgreSQL URL must be a valid URL")
	}

	if c.Optimizer.DefaultModel == "" {
		errs = append(errs, "default model must not be empty")
	}
	if c.Optimizer.CacheCapacity < 0 {
		errs = append(errs, "cache capacity must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	if path := os.Getenv("INFERPROMPT_CONFIG"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}

	configPath := filepath.Join(homeDir, ".config", "inferprompt", "config.json")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	altPath := filepath.Join(homeDir, ".inferprompt", "config.json")
	if _, err := os.Stat(altPath); err == nil {
		return altPath
	}

	return configPath
}

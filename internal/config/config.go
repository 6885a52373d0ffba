// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Store drivers accepted in store_driver / STORE_DRIVER.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config represents the configuration that can be loaded from a JSON file or the environment.
// All fields are optional; missing values use Defaults.
type Config struct {
	// Storage
	StoreDriver string `json:"store_driver,omitempty"` // file, sqlite, postgres or memory
	StoreDSN    string `json:"store_dsn,omitempty"`    // SQLite DSN or PostgreSQL connection URL
	DataDir     string `json:"data_dir,omitempty"`     // Directory for the file driver
	WatchStore  bool   `json:"watch_store,omitempty"`  // Reload when the data directory changes on disk

	// HTTP
	Port        int      `json:"port,omitempty"`
	CORSOrigins []string `json:"cors_origins,omitempty"`

	// Rate limiting (requests per second per client, burst size); zero disables
	RateLimit float64 `json:"rate_limit,omitempty"`
	RateBurst int     `json:"rate_burst,omitempty"`

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		StoreDriver: DriverFile,
		DataDir:     "data",
		Port:        8080,
		CORSOrigins: []string{"*"},
		RateLimit:   10,
		RateBurst:   20,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset variables leave the
// corresponding field at its zero value so the result can be merged over a file config.
func FromEnv() (Config, error) {
	cfg := Config{
		StoreDriver: strings.ToLower(envOr("STORE_DRIVER", "")),
		StoreDSN:    envOr("STORE_DSN", ""),
		DataDir:     envOr("DATA_DIR", ""),
		CORSOrigins: csvOr("CORS_ORIGINS", ""),
		WatchStore:  envBool("WATCH_STORE", false),
		Verbose:     envBool("VERBOSE", false),
	}

	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HTTP_PORT: %v", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS: %v", err)
		}
		cfg.RateLimit = rps
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_BURST: %v", err)
		}
		cfg.RateBurst = burst
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "", DriverFile, DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("config error: unknown store_driver %q", c.StoreDriver)
	}

	if c.StoreDriver == DriverPostgres && c.StoreDSN == "" {
		return fmt.Errorf("config error: 'store_dsn' is required for the postgres driver")
	}
	if c.WatchStore && c.StoreDriver != "" && c.StoreDriver != DriverFile {
		return fmt.Errorf("config error: 'watch_store' is only supported by the file driver")
	}

	// Validate numeric ranges
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'rate_limit' must be non-negative")
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("config error: 'rate_burst' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer environment over file values over built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.StoreDriver == "" {
		result.StoreDriver = defaults.StoreDriver
	}
	if result.StoreDSN == "" {
		result.StoreDSN = defaults.StoreDSN
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if len(result.CORSOrigins) == 0 {
		result.CORSOrigins = defaults.CORSOrigins
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}
	if result.RateBurst == 0 {
		result.RateBurst = defaults.RateBurst
	}

	// Bool fields: either layer can switch them on
	result.WatchStore = result.WatchStore || defaults.WatchStore
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// DSN returns the location handed to the store driver: the data directory for the
// file driver, the DSN otherwise.
func (c *Config) DSN() string {
	if c.StoreDriver == "" || c.StoreDriver == DriverFile {
		return c.DataDir
	}
	return c.StoreDSN
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the movierec configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Catalog CatalogConfig `yaml:"catalog"`
	Engine  EngineConfig  `yaml:"engine"`
	Cache   CacheConfig   `yaml:"cache"`
	MCP     MCPConfig     `yaml:"mcp"`
	Logging LoggingConfig `yaml:"logging"`
}

// MCPConfig controls the Model Context Protocol endpoint of the HTTP server.
type MCPConfig struct {
	Mount bool   `yaml:"mount"`
	Path  string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int             `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeoutSec  int             `yaml:"read_timeout_sec"`
	WriteTimeoutSec int             `yaml:"write_timeout_sec"`
	ShutdownSec     int             `yaml:"shutdown_timeout_sec"`
	CORS            CORSConfig      `yaml:"cors"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// CORSConfig holds cross-origin settings for the browser page.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// RateLimitConfig holds per-IP rate limiting. Requests == 0 disables it.
type RateLimitConfig struct {
	Requests  int `yaml:"requests" validate:"min=0"`
	WindowSec int `yaml:"window_sec"`
}

// CatalogConfig locates the movie table.
type CatalogConfig struct {
	Source       string `yaml:"source" validate:"oneof=csv sqlite"`
	Path         string `yaml:"path" validate:"required"`
	Table        string `yaml:"table"` // sqlite only
	MissingValue string `yaml:"missing_value"`
}

// EngineConfig holds vectorizer and query resolution settings.
type EngineConfig struct {
	Policy         string `yaml:"policy" validate:"oneof=substring fuzzy"`
	MaxFeatures    int    `yaml:"max_features" validate:"min=1"`
	FuzzyThreshold int    `yaml:"fuzzy_threshold" validate:"min=1,max=100"`
	SubstringLimit int    `yaml:"substring_limit" validate:"min=1"`
	FuzzyLimit     int    `yaml:"fuzzy_limit" validate:"min=1"`
	Stem           bool   `yaml:"stem"`
}

// CacheConfig holds the optional Valkey/Redis result cache.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Driver           string   `yaml:"driver" validate:"oneof=valkey redis"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.HTTP.CORS.AllowedOrigins) == 0 {
		c.HTTP.CORS.AllowedOrigins = []string{"*"}
	}
	if c.HTTP.CORS.MaxAgeSec <= 0 {
		c.HTTP.CORS.MaxAgeSec = 300
	}
	if c.HTTP.RateLimit.WindowSec <= 0 {
		c.HTTP.RateLimit.WindowSec = 60
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = "csv"
	}
	if c.Catalog.Table == "" {
		c.Catalog.Table = "movies"
	}
	if c.Catalog.MissingValue == "" {
		c.Catalog.MissingValue = "unknown"
	}
	if c.Engine.Policy == "" {
		c.Engine.Policy = "substring"
	}
	if c.Engine.MaxFeatures <= 0 {
		c.Engine.MaxFeatures = 5000
	}
	if c.Engine.FuzzyThreshold <= 0 {
		c.Engine.FuzzyThreshold = 60
	}
	if c.Engine.SubstringLimit <= 0 {
		c.Engine.SubstringLimit = 5
	}
	if c.Engine.FuzzyLimit <= 0 {
		c.Engine.FuzzyLimit = 24
	}
	if c.MCP.Path == "" {
		c.MCP.Path = "/mcp"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "valkey"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

var validate = validator.New()

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

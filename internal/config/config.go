package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the artguide server configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	CORS       CORSConfig       `yaml:"cors"`
	Collection CollectionConfig `yaml:"collection"`
	LLM        LLMConfig        `yaml:"llm"`
	Database   DatabaseConfig   `yaml:"database"`
	Timeouts   TimeoutsConfig   `yaml:"timeouts"`
	Heuristics HeuristicsConfig `yaml:"heuristics"`
	Artworks   ArtworksConfig   `yaml:"artworks"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
	StaticDir       string `yaml:"static_dir"`
}

// Addr returns the listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// CORSConfig holds the cross-origin allowlist.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"` // "*" allows any origin
}

// CollectionConfig holds Rijksmuseum collection API settings.
type CollectionConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Culture  string `yaml:"culture"` // en, nl
	PageSize int    `yaml:"page_size"`
}

// LLMConfig holds the language model settings.
type LLMConfig struct {
	Provider            string       `yaml:"provider"` // openai, gemini, none
	APIKey              string       `yaml:"api_key"`
	BaseURL             string       `yaml:"base_url"`
	ExtractionModel     string       `yaml:"extraction_model"`
	NarrationModel      string       `yaml:"narration_model"`
	ExtractionMaxTokens int          `yaml:"extraction_max_tokens"`
	NarrationMaxTokens  int          `yaml:"narration_max_tokens"`
	Budget              BudgetConfig `yaml:"budget"`
}

// Enabled reports whether an LLM provider is configured.
func (l LLMConfig) Enabled() bool { return l.Provider != "none" }

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// Limited reports whether any token limit is set.
func (b BudgetConfig) Limited() bool { return b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0 }

// DatabaseConfig holds Valkey/Redis connection settings. Empty addrs disables persistence.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool { return len(d.Addrs) > 0 }

// TimeoutsConfig holds per-operation deadlines.
type TimeoutsConfig struct {
	ChatSec    int `yaml:"chat_sec"`
	ArtworkSec int `yaml:"artwork_sec"`
}

// HeuristicsConfig points at an alternative rule table (empty = embedded).
type HeuristicsConfig struct {
	Path string `yaml:"path"`
}

// ArtworksConfig configures the known-artwork fallback table.
type ArtworksConfig struct {
	KnownPath       string `yaml:"known_path"` // empty = embedded
	ServeKnownFirst bool   `yaml:"serve_known_first"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory is loaded first, if present.
func Load(env string) (Config, error) {
	_ = godotenv.Load()

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a YAML configuration.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.HTTP.Host == "" {
		c.HTTP.Host = "0.0.0.0"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 90
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.StaticDir == "" {
		c.HTTP.StaticDir = "public"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{fmt.Sprintf("http://localhost:%d", c.HTTP.Port), "*"}
	}
	if c.Collection.BaseURL == "" {
		c.Collection.BaseURL = "https://www.rijksmuseum.nl"
	}
	if c.Collection.Culture == "" {
		c.Collection.Culture = "en"
	}
	if c.Collection.PageSize <= 0 {
		c.Collection.PageSize = 15
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.ExtractionModel == "" {
		c.LLM.ExtractionModel = "gpt-4o-mini"
	}
	if c.LLM.NarrationModel == "" {
		c.LLM.NarrationModel = "gpt-4o"
	}
	if c.LLM.ExtractionMaxTokens <= 0 {
		c.LLM.ExtractionMaxTokens = 400
	}
	if c.LLM.NarrationMaxTokens <= 0 {
		c.LLM.NarrationMaxTokens = 1000
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Timeouts.ChatSec <= 0 {
		c.Timeouts.ChatSec = 60
	}
	if c.Timeouts.ArtworkSec <= 0 {
		c.Timeouts.ArtworkSec = 30
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Collection.Culture {
	case "en", "nl":
	default:
		return fmt.Errorf("collection.culture must be \"en\" or \"nl\", got %q", c.Collection.Culture)
	}
	if c.Collection.PageSize > 100 {
		return fmt.Errorf("collection.page_size must be at most 100, got %d", c.Collection.PageSize)
	}
	switch c.LLM.Provider {
	case "openai", "gemini":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for provider %q", c.LLM.Provider)
		}
	case "none":
	default:
		return fmt.Errorf("llm.provider must be \"openai\", \"gemini\" or \"none\", got %q", c.LLM.Provider)
	}
	switch c.LLM.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf("llm.budget.action must be \"warn\" or \"reject\", got %q", c.LLM.Budget.Action)
	}
	if c.LLM.Budget.DailyTokenLimit < 0 || c.LLM.Budget.MonthlyTokenLimit < 0 {
		return fmt.Errorf("llm.budget limits must not be negative")
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

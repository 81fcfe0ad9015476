package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all heistchat configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Gemini generation configuration
	Generation GenerationConfig `yaml:"generation"`

	// Local storage
	Storage StorageConfig `yaml:"storage"`

	// UI preferences (defaults; live values persist in the store)
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// GenerationConfig configures the Gemini generation client.
type GenerationConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// StorageConfig configures local persistence.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// UIConfig configures default interface preferences.
type UIConfig struct {
	Persona  string `yaml:"persona"`
	Theme    string `yaml:"theme"`
	Language string `yaml:"language"`
	DarkMode bool   `yaml:"dark_mode"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// DefaultHome returns the heistchat home directory (~/.heistchat).
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".heistchat"
	}
	return filepath.Join(home, ".heistchat")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "heistchat",
		Version: "1.0.0",

		Generation: GenerationConfig{
			Model:   "gemini-2.0-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout: "60s",
		},

		Storage: StorageConfig{
			DatabasePath: filepath.Join(DefaultHome(), "heistchat.db"),
		},

		UI: UIConfig{
			Persona:  "professor",
			Theme:    "classic",
			Language: "en",
			DarkMode: true,
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Generation.APIKey = key
	}
	if model := os.Getenv("HEISTCHAT_MODEL"); model != "" {
		c.Generation.Model = model
	}
	if path := os.Getenv("HEISTCHAT_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
}

// GetGenerationTimeout returns the generation timeout as a duration.
func (c *Config) GetGenerationTimeout() time.Duration {
	d, err := time.ParseDuration(c.Generation.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// HasAPIKey reports whether a Gemini API key is configured.
// Without a key the app still works through the fallback generator.
func (c *Config) HasAPIKey() bool {
	return c.Generation.APIKey != ""
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Generation.Model == "" {
		return fmt.Errorf("generation model not configured")
	}
	if c.Generation.BaseURL == "" {
		return fmt.Errorf("generation base_url not configured")
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage database_path not configured")
	}
	return nil
}

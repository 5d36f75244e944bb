// Package config loads the quiz configuration from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mitay-fortune-quiz/internal/catalog"
	"mitay-fortune-quiz/internal/messages"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "fortune.yaml"

// Config holds all settings for the CLI and the web front end.
type Config struct {
	Lang    string        `yaml:"lang"`
	Catalog CatalogConfig `yaml:"catalog"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// CatalogConfig selects the catalog source.
type CatalogConfig struct {
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"database_url"`
	Schema      string `yaml:"schema"`
	Table       string `yaml:"table"`
	ActiveOnly  bool   `yaml:"active_only"`
}

// OutputConfig controls where session files go and how many picks are made.
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Picks int    `yaml:"picks"`
}

// ServerConfig configures the web form.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Lang: string(messages.EN),
		Catalog: CatalogConfig{
			Path:   filepath.Join("data", "styles.csv"),
			Schema: catalog.DefaultSchema,
			Table:  catalog.DefaultTable,
		},
		Output: OutputConfig{
			Dir:   "outputs",
			Picks: catalog.DefaultPicks,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8501",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("unable to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unable to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FORTUNE_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("FORTUNE_DATABASE_URL"); v != "" {
		c.Catalog.DatabaseURL = v
	} else if v := os.Getenv("DATABASE_URL"); v != "" && c.Catalog.DatabaseURL == "" {
		c.Catalog.DatabaseURL = v
	}
	if v := os.Getenv("FORTUNE_LANG"); v != "" {
		c.Lang = v
	}
	if v := os.Getenv("FORTUNE_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, ok := messages.ParseLang(c.Lang); !ok {
		return fmt.Errorf("unsupported lang %q (want en or cn)", c.Lang)
	}
	if c.Output.Picks < 1 {
		return fmt.Errorf("output.picks must be >= 1")
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Catalog.Schema != "" && !catalog.ValidIdentifier(c.Catalog.Schema) {
		return fmt.Errorf("invalid catalog.schema: %s", c.Catalog.Schema)
	}
	if c.Catalog.Table != "" && !catalog.ValidIdentifier(c.Catalog.Table) {
		return fmt.Errorf("invalid catalog.table: %s", c.Catalog.Table)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}
	return nil
}

// CatalogOptions converts the catalog section for catalog.NewSource.
func (c *Config) CatalogOptions() catalog.Options {
	return catalog.Options{
		Path:        c.Catalog.Path,
		DatabaseURL: c.Catalog.DatabaseURL,
		Schema:      c.Catalog.Schema,
		Table:       c.Catalog.Table,
		ActiveOnly:  c.Catalog.ActiveOnly,
	}
}

// Language returns the configured language.
func (c *Config) Language() messages.Lang {
	lang, _ := messages.ParseLang(c.Lang)
	return lang
}

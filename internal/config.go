package internal

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/fortuna-events/weft/internal/target"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Config represents the application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Registry RegistryConfig `yaml:"registry"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Targets  []TargetConfig `yaml:"targets"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Registry.Validate(); err != nil {
		return err
	}
	for i := range c.Targets {
		if err := c.Targets[i].Validate(); err != nil {
			return fmt.Errorf("target %d: %w", i, err)
		}
	}
	// Catches duplicate separators and URIs across targets.
	_, err := c.Table()
	return err
}

// Table builds the immutable target table from the configured targets.
func (c *Config) Table() (target.Table, error) {
	targets := make([]target.Target, 0, len(c.Targets))
	for _, tc := range c.Targets {
		sep, _ := utf8.DecodeRuneInString(tc.Separator)
		targets = append(targets, target.Target{URI: tc.URI, Separator: sep, Color: tc.Color})
	}
	return target.NewTable(targets...)
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// RegistryConfig holds the short-URL registry endpoint and credentials.
// A zero timeout means registry calls block indefinitely.
type RegistryConfig struct {
	BaseURI        string `yaml:"base_uri"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured HTTP timeout.
func (c *RegistryConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the field shapes. Completeness is checked separately so a
// dry run needs no registry at all.
func (c *RegistryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURI, is.URL),
		validation.Field(&c.TimeoutSeconds, validation.Min(0)),
	)
}

// Complete reports whether the registry can actually be called.
func (c *RegistryConfig) Complete() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURI, validation.Required, is.URL),
		validation.Field(&c.APIKey, validation.Required),
	)
}

// LedgerConfig holds the short-URL ledger location. An empty path disables
// the ledger entirely.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// TargetConfig is the YAML shape of one destination application.
type TargetConfig struct {
	URI       string `yaml:"uri"`
	Separator string `yaml:"separator"`
	Color     string `yaml:"color"`
}

// Validate validates one target entry.
func (c *TargetConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URI, validation.Required, is.URL),
		validation.Field(&c.Separator, validation.Required, validation.RuneLength(1, 1)),
		validation.Field(&c.Color, validation.Required, validation.Match(hexColorRe)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values: the
// built-in target fleet, registry credentials from the environment, and a
// ledger next to the data file.
func NewDefaultConfig() *Config {
	cfg := &Config{
		App: AppConfig{
			LogLevel: slog.LevelInfo,
		},
		Registry: RegistryConfig{
			BaseURI: os.Getenv("SHLINK_API_URI"),
			APIKey:  os.Getenv("SHLINK_API_KEY"),
		},
		Ledger: LedgerConfig{
			Path: "./weft.db",
		},
	}
	for _, t := range target.Default() {
		cfg.Targets = append(cfg.Targets, TargetConfig{
			URI:       t.URI,
			Separator: string(t.Separator),
			Color:     t.Color,
		})
	}
	return cfg
}

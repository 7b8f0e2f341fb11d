// Package project loads and validates the folio.yaml project configuration
// and holds the per-type compiled schema validators.
package project

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/folio-md/folio/internal/indexer"
	"github.com/folio-md/folio/internal/schema"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// DefaultConfigFile is the conventional project config filename.
const DefaultConfigFile = "folio.yaml"

// Config represents the project configuration.
type Config struct {
	Root     string                `yaml:"root"`
	LogLevel slog.Level            `yaml:"log_level"`
	HTTP     HTTPConfig            `yaml:"http"`
	Auth     AuthConfig            `yaml:"auth"`
	Indexing IndexingConfig        `yaml:"indexing"`
	Types    map[string]TypeConfig `yaml:"types"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Types, validation.Required),
	); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Indexing.Validate(); err != nil {
		return err
	}
	for name, t := range c.Types {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("type %q: %w", name, err)
		}
	}
	return nil
}

// HTTPConfig holds the read API server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AuthConfig holds read API authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// IndexingConfig controls how a type's index file is rendered. The global
// block provides defaults; a type may override any part of it.
type IndexingConfig struct {
	File    string   `yaml:"file"`
	Columns []string `yaml:"columns"`
	Format  string   `yaml:"format"`
}

// Validate validates the indexing configuration.
func (c *IndexingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.In(indexer.FormatTable, indexer.FormatList)),
	)
}

// merged overlays non-zero override fields onto the receiver.
func (c IndexingConfig) merged(override *IndexingConfig) IndexingConfig {
	if override == nil {
		return c
	}
	out := c
	if override.File != "" {
		out.File = override.File
	}
	if len(override.Columns) > 0 {
		out.Columns = override.Columns
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	return out
}

// TypeConfig describes one document type: where its files live, which
// template seeds new documents, and the front matter schema.
type TypeConfig struct {
	Path        string          `yaml:"path"`
	Template    string          `yaml:"template"`
	Frontmatter schema.Schema   `yaml:"frontmatter"`
	Indexing    *IndexingConfig `yaml:"indexing"`
}

// Validate validates the type configuration.
func (c *TypeConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	); err != nil {
		return err
	}
	if c.Indexing != nil {
		return c.Indexing.Validate()
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Root:     "docs",
		LogLevel: slog.LevelInfo,
		HTTP: HTTPConfig{
			Port: 8080,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Indexing: IndexingConfig{
			File:    "README.md",
			Columns: []string{"id", "title", "status"},
			Format:  indexer.FormatTable,
		},
	}
}

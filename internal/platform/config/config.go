// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime configuration for the character forge.
type Config struct {
	// CharactersDir is the directory where character documents are written.
	CharactersDir string `env:"CHARFORGE_CHARACTERS_DIR" envDefault:"characters"`
	// CatalogPath is the SQLite database holding mount and clothing options.
	CatalogPath string `env:"CHARFORGE_CATALOG_PATH" envDefault:"catalog.db"`
	// SchemaPath points at a ruleset schema file. Empty uses the built-in
	// OSFR parameter set.
	SchemaPath string `env:"CHARFORGE_SCHEMA_PATH"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

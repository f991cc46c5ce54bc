package config

import (
	"errors"
	"path/filepath"
)

// auxDir is the auxiliary metadata folder under the pipeline base path.
// The bus directory lives inside it so checkpoint markers never mix with the
// pipeline's own data files.
const auxDir = ".aux"

// metaDir is the checkpoint bus directory name inside the auxiliary folder.
// Part of the on-disk layout; must stay stable across versions.
const metaDir = "ckp_meta"

// DefaultRetention mirrors ckpbus.DefaultRetention for config defaults.
const DefaultRetention = 3

// Config holds checkpoint bus settings. The surface is deliberately small:
// a base location, an optional disambiguating identifier, and the retention
// count.
type Config struct {
	// BasePath is the pipeline's base directory. Required.
	BasePath string `yaml:"base_path" json:"base_path"`

	// UniqueID disambiguates the bus directory when several writers share
	// one base path. Optional.
	UniqueID string `yaml:"unique_id" json:"unique_id"`

	// Retention is how many started instants keep their markers.
	// Default: 3.
	Retention int `yaml:"retention" json:"retention"`
}

// Default returns the default configuration. BasePath must still be set.
func Default() Config {
	return Config{Retention: DefaultRetention}
}

// ErrBasePathRequired indicates a configuration without a base path.
var ErrBasePathRequired = errors.New("base path required")

// Validate checks the configuration for use.
func (c Config) Validate() error {
	if c.BasePath == "" {
		return ErrBasePathRequired
	}
	return nil
}

// MetaPath returns the durable bus directory for this configuration:
// <base>/.aux/ckp_meta, suffixed with "_<unique-id>" when an identifier is
// set. The layout is wire-stable so old and new processes agree on it.
func (c Config) MetaPath() string {
	path := filepath.Join(c.BasePath, auxDir, metaDir)
	if c.UniqueID != "" {
		path += "_" + c.UniqueID
	}
	return path
}

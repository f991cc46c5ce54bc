// Package config loads checkpoint bus configuration from YAML or JSON files
// and derives the durable metadata path for a pipeline.
package config

// Package config loads, validates, and normalizes subsnap configuration
// from TOML files.
package config

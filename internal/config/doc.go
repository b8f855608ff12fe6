// Package config loads, normalizes, and validates the TOML configuration for
// slate. Defaults live in defaults.go; Load never fails just because the
// config file is missing.
package config

// Package config loads credit-sync's TOML configuration, applies defaults and
// environment overrides, and validates the result.
package config

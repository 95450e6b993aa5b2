// Package config loads, normalizes, and validates chapsplit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts) and reads TOML files from ~/.config/chapsplit/config.toml or a
// project-local chapsplit.toml. Command-line flags are applied on top of the
// loaded Config by the CLI; nothing reads configuration from package state.
package config

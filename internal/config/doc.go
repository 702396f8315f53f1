// Package config loads, normalizes, and validates Scribe's TOML configuration.
//
// Resolution order: an explicit --config path, then ~/.config/scribe/config.toml,
// then a project-local scribe.toml. Missing files fall back to defaults so the
// tool runs out of the box. API keys resolve from the environment when not set
// in the file.
package config

// Package config loads and validates the launcher configuration from TOML.
//
// Missing files are not an error; Default() supplies every value. Path fields
// are tilde-expanded and made absolute during normalization, and the
// per-category search root lists keep their configured priority order.
package config

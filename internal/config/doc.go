// Package config loads, normalizes, and validates filmintel configuration.
//
// Configuration lives in a TOML file (default ~/.config/filmintel/config.toml,
// falling back to ./filmintel.toml). Provider credentials may also be supplied
// through environment variables, including a local .env file; a missing
// credential disables the corresponding provider rather than failing startup.
package config

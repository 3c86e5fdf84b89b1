// Package config handles loading and parsing shelf configuration files.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shelf/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// Invalid values (unknown backend, unknown log level, out-of-range
// durations) and malformed TOML are returned as errors.
//
// # TOML Format
//
//	[storage]
//	backend = "file"   # memory | file | sqlite
//	path = "~/.local/share/shelf/favorites.toml"
//
//	[catalog]
//	delay_ms = 200
//	fail = false
//
//	[log]
//	level = "info"     # debug | info | warn | error
//	file = "~/.local/share/shelf/shelf.log"
//
//	[notify]
//	auto_close_ms = 700
//
// When storage.path is omitted the default follows the backend: a TOML file
// for "file", favorites.db for "sqlite", nothing for "memory". Tilde
// expansion is performed on every path.
package config

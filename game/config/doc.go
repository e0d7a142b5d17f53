// Package config loads and caches game settings files.
//
// Settings are JSON files in a configuration directory, one court setup
// per file, decoded into engine.Config and validated on load. The
// manager caches parsed settings and falls back to the engine's built-in
// defaults when no usable file exists, so a server can always start.
package config

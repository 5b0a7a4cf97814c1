// FILE: spicex/doc.go

// Package spicex resolves application configuration from layered sources
// into one consistent value space addressed by dotted nested keys.
//
// Sources register as layers, each with a fixed precedence rank: explicit
// overrides, command-line flags, environment variables, configuration files
// (JSON, YAML, TOML, INI), remote key/value providers, and defaults.
// Lookups deep-merge object values across layers so several files and
// sources can each contribute part of a nested section, while scalars and
// arrays from a higher-precedence source shadow lower ones wholesale.
//
// Features:
//   - Precedence-ordered deep merge across independent layers
//   - Dotted-key addressing with array indexing ("servers.0.host")
//   - Hot reload of file layers with debounced change notification
//   - Struct decoding via mapstructure tags, including durations, IPs,
//     and URLs
//   - Config file discovery across search paths, including XDG directories
//   - Atomic config writing in any supported format
//
// Quick Start:
//
//	type Config struct {
//	    Server struct {
//	        Host string `mapstructure:"host"`
//	        Port int    `mapstructure:"port"`
//	    } `mapstructure:"server"`
//	}
//
//	defaults := Config{}
//	defaults.Server.Host = "localhost"
//	defaults.Server.Port = 8080
//
//	cfg, err := spicex.Quick(defaults, "MYAPP", "config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := cfg.GetString("server.host")
//	port, _ := cfg.GetInt("server.port")
//
// Default Precedence (highest to lowest):
//  1. Explicit Set calls
//  2. Command-line flags (--server.port=9090)
//  3. Environment variables (MYAPP_SERVER_PORT=9090)
//  4. Configuration files
//  5. Remote key/value providers
//  6. Default values
//
// Thread Safety:
// All operations are safe for concurrent use. Each layer publishes its tree
// through a single atomic pointer, so lookups racing a reload observe either
// the complete old state or the complete new state of that layer.
package spicex

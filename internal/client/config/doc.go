// Package config loads runtime configuration for the gophauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed GOPHAUTH_CLI_.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the gophauth HTTP API
//	-t duration   per-request timeout
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s"
//	}
package config

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by the server.
const EnvPrefix = "GOPHAUTH_"

// parseEnv overlays GOPHAUTH_* variables. Unset variables keep the current
// value. A nil environ reads the process environment.
func parseEnv(config *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(config, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

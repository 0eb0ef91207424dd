package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the CLI.
type Config struct {
	ServerURL      string        `env:"SERVER_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
}

// Load applies defaults, then the JSON file named in args, then environ
// (nil means the process environment), then flags.
func Load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], nil)
}

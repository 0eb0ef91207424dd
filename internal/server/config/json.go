package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "30s" and integer nanoseconds are accepted. Only
// keys present in the file override the current values.
type JsonConfig struct {
	HTTPAddr        *string         `json:"http_addr"`
	GRPCAddr        *string         `json:"grpc_addr"`
	DatabaseDriver  *string         `json:"database_driver"`
	DatabaseDSN     *string         `json:"database_dsn"`
	SecretKey       *string         `json:"secret_key"`
	TokenTTL        *timex.Duration `json:"token_ttl"`
	TokenIssuer     *string         `json:"token_issuer"`
	BcryptCost      *int            `json:"bcrypt_cost"`
	SecretMinLength *int            `json:"secret_min_length"`
	SecretMaxLength *int            `json:"secret_max_length"`
	IdentityPattern *string         `json:"identity_pattern"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
	LogLevel        *string         `json:"log_level"`
	Debug           *bool           `json:"debug"`
}

// parseJson overlays values from the file named by -c/-config in args.
// Without that flag it does nothing.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.TokenIssuer, c.TokenIssuer)
	setString(&config.IdentityPattern, c.IdentityPattern)
	setString(&config.LogLevel, c.LogLevel)
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.SecretMinLength != nil {
		config.SecretMinLength = *c.SecretMinLength
	}
	if c.SecretMaxLength != nil {
		config.SecretMaxLength = *c.SecretMaxLength
	}
	if c.Debug != nil {
		config.Debug = *c.Debug
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

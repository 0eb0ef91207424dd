package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-b", "-d", "-s", "-t", "-i", "-l", "-debug"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-g string     gRPC health bind address (empty disables)
//	-b string     database driver: pgx | sqlite
//	-d string     database DSN
//	-s string     token signing key
//	-t duration   token lifetime (e.g. "720h")
//	-i string     token issuer
//	-l string     log level
//	-debug        include error details in responses
//
// Arguments are first filtered with flagx.FilterArgs so that -c/-config and
// anything else on the command line does not break parsing.
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run HTTP server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to run gRPC health server")
	fs.StringVar(&config.DatabaseDriver, "b", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing key")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token validity duration")
	fs.StringVar(&config.TokenIssuer, "i", config.TokenIssuer, "token issuer")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.Debug, "debug", config.Debug, "include error details in responses")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

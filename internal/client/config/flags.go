package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags only looks at -a and -t; everything else, including the
// subcommand, is left for the caller.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t"})

	fs := flag.NewFlagSet("gophauth-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the gophauth API")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")

	return fs.Parse(args)
}

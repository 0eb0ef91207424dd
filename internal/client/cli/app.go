package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
)

// API is the subset of *client.Client the commands use.
type API interface {
	Register(ctx context.Context, r client.RegisterRequest) (*client.Session, error)
	Login(ctx context.Context, identity, secret string) (*client.Session, error)
	Whoami(ctx context.Context, token string) (*client.Subject, error)
}

type App struct {
	api    API
	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds an App talking to the server in cfg over stdin/stdout.
func NewApp(cfg *config.Config) *App {
	return &App{
		api:    client.New(cfg.ServerURL, cfg.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

const usage = `usage: gophauth-cli [-a url] [-t timeout] [-c config.json] <command>

commands:
  register        create an account and print its session token
  login           sign in and print a session token
  whoami <token>  show the account a token belongs to`

// Run executes the subcommand in args (positional arguments only) and
// returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "register":
		err = a.Register(ctx)
	case "login":
		err = a.Login(ctx)
	case "whoami":
		if len(args) < 2 {
			fmt.Fprintln(a.out, "usage: gophauth-cli whoami <token>")
			return 2
		}
		err = a.Whoami(ctx, args[1])
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return 0
	default:
		fmt.Fprintf(a.out, "unknown command %q\n\n%s\n", args[0], usage)
		return 2
	}

	if err != nil {
		fmt.Fprintln(a.out, describe(err))
		return 1
	}
	return 0
}

func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return "Login failed: wrong phone number or PIN."
	case errors.Is(err, client.ErrConflict):
		return "That phone number is already registered."
	case errors.Is(err, client.ErrInvalidInput):
		return "Rejected: " + err.Error()
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable: " + err.Error()
	}
	return "Error: " + err.Error()
}

func (a *App) printSession(s *client.Session, verb string) {
	fmt.Fprintf(a.out, "%s as %s %s (%s)\n", verb, s.Account.FirstName, s.Account.LastName, s.Account.Identity)
	if s.ExpiresAt != "" {
		fmt.Fprintf(a.out, "Token expires %s\n", s.ExpiresAt)
	}
	fmt.Fprintln(a.out, s.Token)
}

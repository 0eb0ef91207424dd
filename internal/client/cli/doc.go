// Package cli implements the gophauth command-line client: register, login
// and whoami against the HTTP API. PINs are read without echo.
package cli

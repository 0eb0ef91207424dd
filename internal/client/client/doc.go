// Package client is a small HTTP client for the gophauth JSON API used by the
// CLI. It maps failure responses onto sentinel errors so callers can branch
// with errors.Is.
package client

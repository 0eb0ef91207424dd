// Package common contains shared constants and sentinel errors used across
// gophauth components.
package common

// AuthorizationHeaderName is the HTTP header (and lower-cased gRPC metadata
// key) carrying the session token on inbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the token inside the Authorization header.
const BearerScheme = "Bearer"

// Package common defines shared constants and sentinel errors used across
// client and server layers of gophauth. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrDuplicateIdentity = errors.New("duplicate identity")
)

// Error kinds. Every typed error below matches exactly one of them through
// errors.Is, which is what the boundary layer uses to choose a status code.
var (
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrStore         = errors.New("store error")
	ErrConfiguration = errors.New("configuration error")
)

// Validation rules reported in ValidationError.Rule.
const (
	RuleMissingFields      = "missing_fields"
	RuleBadIdentityFormat  = "bad_identity_format"
	RuleBadSecretFormat    = "bad_secret_format"
	RuleBadEmailFormat     = "bad_email_format"
	RuleBadBirthdateFormat = "bad_birthdate_format"
	RuleMissingCredentials = "missing_credentials"
)

// Conflict and authorization reasons.
const (
	ReasonIdentityTaken      = "identity_taken"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonInvalidToken       = "invalid_token"
)

// ValidationError reports malformed client input. Rule names the failing
// rule; Fields optionally lists the offending input fields.
type ValidationError struct {
	Rule   string
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Rule
	}
	return fmt.Sprintf("%s: %s", e.Rule, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError reports that the requested identity is already registered.
// The Reason is identical no matter how the duplicate was detected.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// UnauthorizedError reports rejected credentials or tokens. It never says
// which part of the credential pair was wrong.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string { return e.Reason }

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// StoreError wraps any backing-store failure other than a uniqueness
// violation. Retryable is set for timeouts and cancellations.
type StoreError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("store error: %v", e.Err)
	}
	return fmt.Sprintf("%s: store error: %v", e.Op, e.Err)
}

// Unwrap exposes both the kind and the cause, so errors.Is works for
// ErrStore as well as for e.g. context.DeadlineExceeded.
func (e *StoreError) Unwrap() []error { return []error{ErrStore, e.Err} }

// ConfigurationError is returned at startup when required settings are
// missing or unusable. It is never produced per request.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Msg)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

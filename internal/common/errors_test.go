package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrors_MatchKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", &ValidationError{Rule: RuleMissingFields}, ErrValidation},
		{"conflict", &ConflictError{Reason: ReasonIdentityTaken}, ErrConflict},
		{"unauthorized", &UnauthorizedError{Reason: ReasonInvalidCredentials}, ErrUnauthorized},
		{"store", &StoreError{Op: "accounts.Insert", Err: errors.New("boom")}, ErrStore},
		{"configuration", &ConfigurationError{Field: "SecretKey", Msg: "missing"}, ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
			for _, other := range []error{ErrValidation, ErrConflict, ErrUnauthorized, ErrStore, ErrConfiguration} {
				if other != tt.kind {
					assert.NotErrorIs(t, wrapped, other)
				}
			}
		})
	}
}

func TestStoreError_ExposesCause(t *testing.T) {
	err := &StoreError{Op: "accounts.FindByIdentity", Err: context.DeadlineExceeded, Retryable: true}

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, "accounts.FindByIdentity: store error: context deadline exceeded", err.Error())
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "bad_secret_format", (&ValidationError{Rule: RuleBadSecretFormat}).Error())
	assert.Equal(t, "missing_fields: firstName, secret",
		(&ValidationError{Rule: RuleMissingFields, Fields: []string{"firstName", "secret"}}).Error())
}

package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	if len(e.Fields) > 0 {
		msg += fmt.Sprintf(" %v", e.Fields)
	}
	return msg
}

// Unwrap classifies the status for errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == 400:
		return ErrInvalidInput
	case e.Status == 401:
		return ErrUnauthorized
	case e.Status == 409:
		return ErrConflict
	case e.Status >= 500:
		return ErrUnavailable
	}
	return nil
}

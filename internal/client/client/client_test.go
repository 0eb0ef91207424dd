package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/register", r.URL.Path)
		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "1234", req.Secret)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"token":"tok","account":{"id":"a1","identity":"09171234567"}},"message":"account registered"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	s, err := c.Register(context.Background(), RegisterRequest{FirstName: "Ana", LastName: "Cruz", Identity: "09171234567", Secret: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, "09171234567", s.Account.Identity)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusBadRequest, `{"error":"secret has an invalid format","code":"bad_secret_format","fields":["secret"]}`, ErrInvalidInput},
		{http.StatusUnauthorized, `{"error":"invalid identity or secret","code":"invalid_credentials"}`, ErrUnauthorized},
		{http.StatusConflict, `{"error":"an account with this identity already exists","code":"identity_taken"}`, ErrConflict},
		{http.StatusInternalServerError, `not json`, ErrUnavailable},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(tt.body))
		}))

		_, err := New(srv.URL, time.Second).Login(context.Background(), "09171234567", "0000")
		srv.Close()

		require.ErrorIs(t, err, tt.want, tt.body)
		var ae *APIError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, tt.status, ae.Status)
		assert.NotEmpty(t, ae.Message)
	}
}

func TestWhoami_SendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"accountId":"a1","identity":"09171234567"}}`))
	}))
	defer srv.Close()

	sub, err := New(srv.URL, time.Second).Whoami(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "a1", sub.AccountID)
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).Login(context.Background(), "09171234567", "1234")
	require.ErrorIs(t, err, ErrUnavailable)
}

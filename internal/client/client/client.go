package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Account mirrors the server's public account projection.
type Account struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
	Identity   string `json:"identity"`
	Email      string `json:"email"`
	Locality   string `json:"locality"`
	Birthdate  string `json:"birthdate,omitempty"`
	Sex        string `json:"sex,omitempty"`
	IsSenior   bool   `json:"isSenior"`
}

// Session is a successful register or login response.
type Session struct {
	Token     string  `json:"token"`
	Account   Account `json:"account"`
	ExpiresAt string  `json:"expiresAt"`
}

// Subject is the verified content of a token as reported by the server.
type Subject struct {
	AccountID string `json:"accountId"`
	Identity  string `json:"identity"`
	IssuedAt  string `json:"issuedAt"`
	ExpiresAt string `json:"expiresAt"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
	Identity   string `json:"identity"`
	Secret     string `json:"secret"`
	Email      string `json:"email,omitempty"`
	Locality   string `json:"locality,omitempty"`
	Birthdate  string `json:"birthdate,omitempty"`
	Sex        string `json:"sex,omitempty"`
	IsSenior   bool   `json:"isSenior,omitempty"`
}

type loginRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the API at baseURL, e.g. "http://127.0.0.1:8080".
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Register(ctx context.Context, r RegisterRequest) (*Session, error) {
	var out struct {
		Data Session `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", "", r, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) Login(ctx context.Context, identity, secret string) (*Session, error) {
	var out struct {
		Data Session `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Identity: identity, Secret: secret}, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Whoami asks the server to verify token.
func (c *Client) Whoami(ctx context.Context, token string) (*Subject, error) {
	var out struct {
		Data Subject `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/session", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fb struct {
			Error  string   `json:"error"`
			Code   string   `json:"code"`
			Fields []string `json:"fields"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&fb)
		if fb.Error == "" {
			fb.Error = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Code: fb.Code, Message: fb.Error, Fields: fb.Fields}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

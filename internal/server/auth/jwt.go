// Package auth issues and verifies signed, time-limited session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultTTL is the session lifetime when none is configured.
	DefaultTTL = 30 * 24 * time.Hour

	// MinKeyLength is the shortest accepted HMAC key, in bytes.
	MinKeyLength = 32
)

// Claims are the JWT claims carried by a session token. The account id is
// the registered "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
	Identity string `json:"identity"`
}

// Subject is the verified content of a session token.
type Subject struct {
	AccountID string
	Identity  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenConfig is the immutable input of NewTokenService.
type TokenConfig struct {
	Key    []byte
	TTL    time.Duration
	Issuer string
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// TokenService signs tokens with HS256 under a process-wide key.
type TokenService struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService validates cfg and returns a ready service. A missing or
// short key is a *common.ConfigurationError.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Key) == 0 {
		return nil, &common.ConfigurationError{Field: "SecretKey", Msg: "signing key is not set"}
	}
	if len(cfg.Key) < MinKeyLength {
		return nil, &common.ConfigurationError{Field: "SecretKey", Msg: fmt.Sprintf("signing key must be at least %d bytes", MinKeyLength)}
	}

	s := &TokenService{
		key:    append([]byte(nil), cfg.Key...),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    cfg.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// TTL reports the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for the account.
func (s *TokenService) Issue(accountID, identity string) (string, Subject, error) {
	if accountID == "" || identity == "" {
		return "", Subject{}, errors.New("auth: empty subject")
	}

	// JWT NumericDate has second precision; truncate so the returned Subject
	// matches what Verify will report.
	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
		Identity: identity,
	})

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", Subject{}, fmt.Errorf("auth: sign token: %w", err)
	}

	return signed, Subject{AccountID: accountID, Identity: identity, IssuedAt: now, ExpiresAt: exp}, nil
}

// Verify checks signature, structure, issuer and expiry. Every failure
// returns ok == false; callers cannot and should not tell them apart.
func (s *TokenService) Verify(tokenString string) (Subject, bool) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Subject{}, false
	}
	if claims.Subject == "" || claims.Identity == "" || claims.IssuedAt == nil {
		return Subject{}, false
	}

	return Subject{
		AccountID: claims.Subject,
		Identity:  claims.Identity,
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, true
}

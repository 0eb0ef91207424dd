// Package services contains server-side business logic. AccountService
// implements the registration and authentication workflows on top of an
// accounts repository, a secret hasher and a token issuer.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

// Hasher is the one-way secret hashing the workflows depend on.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
	Burn(secret string)
}

// TokenIssuer issues and verifies session tokens.
type TokenIssuer interface {
	Issue(accountID, identity string) (string, auth.Subject, error)
	Verify(token string) (auth.Subject, bool)
}

// RegisterInput is the parsed registration request.
type RegisterInput struct {
	FirstName  string
	MiddleName string
	LastName   string
	Identity   string
	Secret     string
	Email      string
	Locality   string
	Birthdate  string
	Sex        string
	IsSenior   bool
}

// LoginInput is the parsed login request.
type LoginInput struct {
	Identity string
	Secret   string
}

// Session is what a successful workflow returns to the boundary.
type Session struct {
	Token     string
	Account   models.PublicAccount
	ExpiresAt time.Time
}

// AccountService holds no mutable state; concurrent calls are independent and
// uniqueness is left to the store constraint.
type AccountService struct {
	repo   accounts.Repository
	hasher Hasher
	tokens TokenIssuer
	policy Policy
	log    logging.Logger
}

func NewAccountService(repo accounts.Repository, h Hasher, t TokenIssuer, p Policy, log logging.Logger) *AccountService {
	if p.IdentityPattern == nil {
		p = DefaultPolicy()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &AccountService{repo: repo, hasher: h, tokens: t, policy: p, log: log}
}

// Register validates in, creates the account and issues a session for it.
//
// The existence pre-check only shortens the common case. A concurrent
// registration that slips past it is caught by the store's unique
// constraint and reported with the same ConflictError.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	const op = "services.Register"

	draft, err := s.validateRegistration(in)
	if err != nil {
		return nil, err
	}
	masked := common.MaskIdentity(draft.Identity)

	_, err = s.repo.FindByIdentity(ctx, draft.Identity)
	switch {
	case err == nil:
		s.log.Info(ctx, "registration rejected", "identity", masked, "reason", common.ReasonIdentityTaken)
		return nil, &common.ConflictError{Reason: common.ReasonIdentityTaken}
	case !errors.Is(err, common.ErrorNotFound):
		s.log.Error(ctx, "identity pre-check failed", "identity", masked, "error", err)
		return nil, asStoreError(op, err)
	}

	draft.SecretHash, err = s.hasher.Hash(in.Secret)
	if err != nil {
		return nil, fmt.Errorf("%s: hash secret: %w", op, err)
	}

	account, err := s.repo.Insert(ctx, draft)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			s.log.Info(ctx, "registration lost insert race", "identity", masked)
			return nil, &common.ConflictError{Reason: common.ReasonIdentityTaken}
		}
		s.log.Error(ctx, "account insert failed", "identity", masked, "error", err)
		return nil, asStoreError(op, err)
	}

	session, err := s.issue(account)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info(ctx, "account registered", "account_id", account.ID, "identity", masked)
	return session, nil
}

// Authenticate checks the credential pair. Unknown identities and wrong
// secrets produce the same UnauthorizedError and cost the same hashing work.
func (s *AccountService) Authenticate(ctx context.Context, in LoginInput) (*Session, error) {
	const op = "services.Authenticate"

	if strings.TrimSpace(in.Identity) == "" || in.Secret == "" {
		var fields []string
		if strings.TrimSpace(in.Identity) == "" {
			fields = append(fields, "identity")
		}
		if in.Secret == "" {
			fields = append(fields, "secret")
		}
		return nil, &common.ValidationError{Rule: common.RuleMissingCredentials, Fields: fields}
	}

	identity := NormalizeIdentity(in.Identity)
	masked := common.MaskIdentity(identity)

	account, err := s.repo.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Burn(in.Secret)
			s.log.Debug(ctx, "login rejected", "identity", masked)
			return nil, &common.UnauthorizedError{Reason: common.ReasonInvalidCredentials}
		}
		s.log.Error(ctx, "account lookup failed", "identity", masked, "error", err)
		return nil, asStoreError(op, err)
	}

	if !s.hasher.Verify(in.Secret, account.SecretHash) {
		s.log.Debug(ctx, "login rejected", "identity", masked)
		return nil, &common.UnauthorizedError{Reason: common.ReasonInvalidCredentials}
	}

	session, err := s.issue(account)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info(ctx, "account authenticated", "account_id", account.ID, "identity", masked)
	return session, nil
}

// VerifyToken resolves a bearer token to its subject.
func (s *AccountService) VerifyToken(token string) (auth.Subject, error) {
	sub, ok := s.tokens.Verify(token)
	if !ok {
		return auth.Subject{}, &common.UnauthorizedError{Reason: common.ReasonInvalidToken}
	}
	return sub, nil
}

func (s *AccountService) validateRegistration(in RegisterInput) (*models.AccountDraft, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"identity", in.Identity},
		{"secret", in.Secret},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, &common.ValidationError{Rule: common.RuleMissingFields, Fields: missing}
	}

	identity := NormalizeIdentity(in.Identity)
	if !s.policy.validIdentity(identity) {
		return nil, &common.ValidationError{Rule: common.RuleBadIdentityFormat, Fields: []string{"identity"}}
	}
	if !s.policy.validSecret(in.Secret) {
		return nil, &common.ValidationError{Rule: common.RuleBadSecretFormat, Fields: []string{"secret"}}
	}

	email := strings.TrimSpace(in.Email)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return nil, &common.ValidationError{Rule: common.RuleBadEmailFormat, Fields: []string{"email"}}
		}
	}

	draft := &models.AccountDraft{
		Identity:   identity,
		FirstName:  strings.TrimSpace(in.FirstName),
		MiddleName: strings.TrimSpace(in.MiddleName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      email,
		Locality:   strings.TrimSpace(in.Locality),
		Sex:        strings.TrimSpace(in.Sex),
		IsSenior:   in.IsSenior,
	}

	if bd := strings.TrimSpace(in.Birthdate); bd != "" {
		t, err := time.Parse(models.BirthdateLayout, bd)
		if err != nil {
			return nil, &common.ValidationError{Rule: common.RuleBadBirthdateFormat, Fields: []string{"birthdate"}}
		}
		draft.Birthdate = &t
	}
	return draft, nil
}

func (s *AccountService) issue(a *models.Account) (*Session, error) {
	token, sub, err := s.tokens.Issue(a.ID, a.Identity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, Account: a.Public(), ExpiresAt: sub.ExpiresAt}, nil
}

// asStoreError keeps repository StoreErrors intact and classifies anything
// else a repository returns as one.
func asStoreError(op string, err error) error {
	var se *common.StoreError
	if errors.As(err, &se) {
		return err
	}
	retryable := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	return &common.StoreError{Op: op, Err: err, Retryable: retryable}
}

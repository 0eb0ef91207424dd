package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

// Client-facing messages. Store and internal failures never leak their
// cause unless the server runs in debug mode.
const (
	msgRegistered       = "account registered"
	msgAuthenticated    = "login successful"
	msgInternal         = "internal server error"
	msgMethodNotAllowed = "method not allowed"
	msgNotFound         = "not found"
	msgMalformedBody    = "malformed request body"
)

// failureMessages holds the human-readable text for each rule or reason
// code. The code itself goes out in failureBody.Code.
var failureMessages = map[string]string{
	common.RuleMissingFields:        "required fields are missing",
	common.RuleBadIdentityFormat:    "identity has an invalid format",
	common.RuleBadSecretFormat:      "secret has an invalid format",
	common.RuleBadEmailFormat:       "email has an invalid format",
	common.RuleBadBirthdateFormat:   "birthdate must be YYYY-MM-DD",
	common.RuleMissingCredentials:   "identity and secret are required",
	common.ReasonIdentityTaken:      "an account with this identity already exists",
	common.ReasonInvalidCredentials: "invalid identity or secret",
	common.ReasonInvalidToken:       "invalid or expired token",
}

func failureMessage(code string) string {
	if m, ok := failureMessages[code]; ok {
		return m
	}
	return code
}

// Result is the tagged outcome of a workflow as the boundary sees it.
type Result struct {
	Status int
	Body   any
}

type sessionData struct {
	Token     string               `json:"token"`
	Account   models.PublicAccount `json:"account"`
	ExpiresAt string               `json:"expiresAt"`
}

type successBody struct {
	Data    sessionData `json:"data"`
	Message string      `json:"message"`
}

type failureBody struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Fields  []string `json:"fields,omitempty"`
	Details string   `json:"details,omitempty"`
}

func success(status int, s *services.Session, msg string) Result {
	return Result{
		Status: status,
		Body: successBody{
			Data: sessionData{
				Token:     s.Token,
				Account:   s.Account,
				ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
			},
			Message: msg,
		},
	}
}

// failure maps err onto the status table: validation 400, unauthorized 401,
// conflict 409, everything else 500.
func failure(err error, debug bool) Result {
	var (
		ve *common.ValidationError
		ce *common.ConflictError
		ue *common.UnauthorizedError
	)
	switch {
	case errors.As(err, &ve):
		return Result{Status: http.StatusBadRequest, Body: failureBody{Error: failureMessage(ve.Rule), Code: ve.Rule, Fields: ve.Fields}}
	case errors.As(err, &ue):
		return Result{Status: http.StatusUnauthorized, Body: failureBody{Error: failureMessage(ue.Reason), Code: ue.Reason}}
	case errors.As(err, &ce):
		return Result{Status: http.StatusConflict, Body: failureBody{Error: failureMessage(ce.Reason), Code: ce.Reason}}
	}

	body := failureBody{Error: msgInternal, Code: "internal"}
	if errors.Is(err, common.ErrStore) {
		body.Code = "store_unavailable"
	}
	if debug {
		body.Details = err.Error()
	}
	return Result{Status: http.StatusInternalServerError, Body: body}
}

func registerResult(s *services.Session, err error, debug bool) Result {
	if err != nil {
		return failure(err, debug)
	}
	return success(http.StatusCreated, s, msgRegistered)
}

func loginResult(s *services.Session, err error, debug bool) Result {
	if err != nil {
		return failure(err, debug)
	}
	return success(http.StatusOK, s, msgAuthenticated)
}

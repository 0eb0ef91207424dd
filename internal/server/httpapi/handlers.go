package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

func (h *handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.render(c, malformed(err, h.debug))
		return
	}

	s, err := h.svc.Register(c.Request.Context(), req.input())
	h.outcome("register", err)
	h.render(c, registerResult(s, err, h.debug))
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.render(c, malformed(err, h.debug))
		return
	}

	s, err := h.svc.Authenticate(c.Request.Context(), req.input())
	h.outcome("login", err)
	h.render(c, loginResult(s, err, h.debug))
}

type sessionResponse struct {
	AccountID string `json:"accountId"`
	Identity  string `json:"identity"`
	IssuedAt  string `json:"issuedAt"`
	ExpiresAt string `json:"expiresAt"`
}

// session echoes the verified token subject.
func (h *handler) session(c *gin.Context) {
	sub := subjectFrom(c)
	c.JSON(http.StatusOK, gin.H{"data": sessionResponse{
		AccountID: sub.AccountID,
		Identity:  sub.Identity,
		IssuedAt:  sub.IssuedAt.UTC().Format(time.RFC3339),
		ExpiresAt: sub.ExpiresAt.UTC().Format(time.RFC3339),
	}})
}

func (h *handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) readyz(c *gin.Context) {
	if h.store != nil {
		if err := h.store.PingContext(c.Request.Context()); err != nil {
			h.log.Warn(c.Request.Context(), "readiness check failed", "error", err)
			body := gin.H{"status": "unavailable"}
			if h.debug {
				body["details"] = err.Error()
			}
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *handler) render(c *gin.Context, r Result) {
	c.JSON(r.Status, r.Body)
}

func (h *handler) outcome(workflow string, err error) {
	if h.metrics == nil {
		return
	}
	h.metrics.Outcome(workflow, outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, common.ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, common.ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, common.ErrUnauthorized):
		return metrics.OutcomeUnauthorized
	default:
		return metrics.OutcomeError
	}
}

func malformed(err error, debug bool) Result {
	body := failureBody{Error: msgMalformedBody, Code: "malformed_body"}
	if debug {
		body.Details = err.Error()
	}
	return Result{Status: http.StatusBadRequest, Body: body}
}

const subjectKey = "gophauth.subject"

func subjectFrom(c *gin.Context) auth.Subject {
	v, _ := c.Get(subjectKey)
	sub, _ := v.(auth.Subject)
	return sub
}

package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

// requestLogger logs one line per request. Bodies are never logged since
// they carry PINs.
func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		log.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func observe(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// timeout bounds the request context so store calls are cancelled once the
// budget is spent.
func timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func recovery(log logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		log.Error(c.Request.Context(), "panic recovered", "route", c.FullPath(), "panic", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, failureBody{Error: msgInternal, Code: "internal"})
	})
}

// bearerAuth requires "Authorization: Bearer <token>" and stores the
// verified subject in the gin context.
func bearerAuth(w Workflows, debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			r := failure(&common.UnauthorizedError{Reason: common.ReasonInvalidToken}, debug)
			c.AbortWithStatusJSON(r.Status, r.Body)
			return
		}

		sub, err := w.VerifyToken(token)
		if err != nil {
			r := failure(err, debug)
			c.AbortWithStatusJSON(r.Status, r.Body)
			return
		}

		c.Set(subjectKey, sub)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

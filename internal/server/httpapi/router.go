// Package httpapi is the JSON boundary of the service. It decodes requests,
// calls the account workflows and renders their tagged results.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Workflows is the part of services.AccountService the boundary calls.
type Workflows interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.Session, error)
	Authenticate(ctx context.Context, in services.LoginInput) (*services.Session, error)
	VerifyToken(token string) (auth.Subject, error)
}

// Pinger reports store reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures NewRouter. Store and Metrics may be nil.
type Options struct {
	Workflows      Workflows
	Store          Pinger
	Metrics        *metrics.Metrics
	Logger         logging.Logger
	RequestTimeout time.Duration
	Debug          bool
}

type handler struct {
	svc     Workflows
	store   Pinger
	metrics *metrics.Metrics
	log     logging.Logger
	debug   bool
}

// NewRouter builds the gin engine with every route the service exposes.
// The legacy /api/... paths call the same handlers as /api/v1/auth/....
func NewRouter(o Options) *gin.Engine {
	log := o.Logger
	if log == nil {
		log = logging.Nop()
	}
	h := &handler{svc: o.Workflows, store: o.Store, metrics: o.Metrics, log: log, debug: o.Debug}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(recovery(log), requestLogger(log))
	if o.Metrics != nil {
		r.Use(observe(o.Metrics))
	}
	if o.RequestTimeout > 0 {
		r.Use(timeout(o.RequestTimeout))
	}

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, failureBody{Error: msgMethodNotAllowed, Code: "method_not_allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, failureBody{Error: msgNotFound, Code: "not_found"})
	})

	r.GET("/healthz", h.healthz)
	r.GET("/readyz", h.readyz)
	if o.Metrics != nil {
		r.GET("/metrics", gin.WrapH(o.Metrics.Handler()))
	}

	v1 := r.Group("/api/v1/auth")
	v1.POST("/register", h.register)
	v1.POST("/login", h.login)
	v1.GET("/session", bearerAuth(o.Workflows, o.Debug), h.session)

	legacy := r.Group("/api")
	legacy.POST("/register", h.register)
	legacy.POST("/login", h.login)
	legacy.POST("/auth/register", h.register)
	legacy.POST("/auth/login", h.login)
	legacy.POST("/auth/login/register", h.register)

	return r
}

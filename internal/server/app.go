// Package server initializes and runs the gophauth server: it opens and
// migrates the store, builds the account workflows, and serves the JSON API
// and the optional gRPC health sidecar until shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/hasher"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

// logOutput is where the JSON logger writes.
var logOutput io.Writer = os.Stdout

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	tokens   *auth.TokenService
	accounts *services.AccountService
	metrics  *metrics.Metrics
}

// NewApp validates c, opens and migrates the database and assembles the
// workflows. Configuration problems are returned as *common.ConfigurationError
// before any connection is made.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(logOutput, c.LogLevel)

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Key:    []byte(c.SecretKey),
		TTL:    c.TokenTTL,
		Issuer: c.TokenIssuer,
	})
	if err != nil {
		return nil, err
	}

	h, err := hasher.New(c.BcryptCost)
	if err != nil {
		return nil, err
	}

	policy, err := services.NewPolicy(c.IdentityPattern, c.SecretMinLength, c.SecretMaxLength)
	if err != nil {
		return nil, err
	}

	db, rm, err := repomanager.Open(c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	logger.Info(ctx, "security settings",
		"bcrypt_cost", h.Cost(),
		"token_ttl", tokens.TTL().String(),
		"db_driver", c.DatabaseDriver,
	)

	accounts := services.NewAccountService(rm.Accounts(db), h, tokens, policy, logger.With("module", "accounts"))

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		tokens:   tokens,
		accounts: accounts,
		metrics:  metrics.New(),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Handler returns the HTTP handler serving the JSON API.
func (app *App) Handler() http.Handler {
	if !app.config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	return httpapi.NewRouter(httpapi.Options{
		Workflows:      app.accounts,
		Store:          app.db,
		Metrics:        app.metrics,
		Logger:         app.logger.With("module", "http"),
		RequestTimeout: app.config.RequestTimeout,
		Debug:          app.config.Debug,
	})
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{Addr: app.config.HTTPAddr, Handler: app.Handler()}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			app.logger.Error(sctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.tokens, app.db)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or a
// listener fails, then shuts both servers down and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return app.db.Close()
}

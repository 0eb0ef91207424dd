package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logOutput = io.Discard
}

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDriver = repomanager.DriverSQLite
	c.DatabaseDSN = "file:" + filepath.Join(t.TempDir(), "app.db")
	c.SecretKey = "0123456789abcdef0123456789abcdef"
	c.BcryptCost = 4
	c.HTTPAddr = "127.0.0.1:0"
	c.ShutdownTimeout = time.Second
	return c
}

func TestNewApp_RequiresSigningKey(t *testing.T) {
	c := sqliteConfig(t)
	c.SecretKey = ""

	_, err := NewApp(context.Background(), c)

	var ce *common.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "SecretKey", ce.Field)
}

func TestNewApp_LogsSecuritySettings(t *testing.T) {
	var buf bytes.Buffer
	logOutput = &buf
	t.Cleanup(func() { logOutput = io.Discard })

	app, err := NewApp(context.Background(), sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	out := buf.String()
	assert.Contains(t, out, `"bcrypt_cost":4`)
	assert.Contains(t, out, `"token_ttl":"720h0m0s"`)
	assert.NotContains(t, out, "0123456789abcdef")
}

func TestNewApp_ServesRegistration(t *testing.T) {
	app, err := NewApp(context.Background(), sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/auth/register", "application/json",
		strings.NewReader(`{"firstName":"Ana","lastName":"Cruz","identity":"09171234567","secret":"1234"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	c := sqliteConfig(t)
	c.GRPCAddr = "127.0.0.1:0"
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
}

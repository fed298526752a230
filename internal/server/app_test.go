package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gotofast/logistics/internal/common"
	"github.com/gotofast/logistics/internal/logging"
	"github.com/gotofast/logistics/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseURL = "sqlite://"
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.BootstrapAdminUsername = "root"
	cfg.BootstrapAdminPassword = "changeme"
	return cfg
}

func TestNewApp_BadDatabaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = "mysql://x"

	_, err := newApp(context.Background(), cfg, logging.Nop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_BadLogLevel(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "chatty"

	_, err := NewApp(context.Background(), cfg)
	assert.Error(t, err)
}

// Boots the whole stack on in-memory SQLite and walks through an admin
// session: login, identity, logout.
func TestApp_AdminSessionEndToEnd(t *testing.T) {
	app, err := newApp(context.Background(), testConfig(), logging.Nop{})
	require.NoError(t, err)
	t.Cleanup(func() { app.db.Close() })

	h := app.httpServer.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "support_hours")

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":"root","password":"changeme"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "admin_1", me["id"])

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := newApp(context.Background(), testConfig(), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Error(t, app.db.Ping(), "db must be closed after Run")
}

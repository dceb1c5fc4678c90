package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"i18n_portal/internal/config"
	"i18n_portal/internal/logger"
	"i18n_portal/internal/models"
	"i18n_portal/internal/service"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:    config.AppConfig{Title: "test", Description: "test app", Version: "0.0.1"},
		Server: config.ServerConfig{Port: "127.0.0.1:0", ShutdownTimeout: time.Second},
		DB:     config.DBConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "app.db")},
		Auth:   config.AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour},
		Admin:  config.AdminConfig{Username: "admin", Password: "s3cret"},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
		I18n:   config.I18nConfig{DefaultLocale: "en"},
	}
}

func countUsers(t *testing.T, a *App) int {
	t.Helper()
	var n int
	if err := a.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("count users: %v", err)
	}
	return n
}

func TestApp_StartupIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := first.Lifecycle.Startup(ctx); err != nil {
		t.Fatalf("first startup: %v", err)
	}
	if n := countUsers(t, first); n != 1 {
		t.Fatalf("users after first startup: %d", n)
	}
	_ = first.Close()

	core, logs := observer.New(zapcore.InfoLevel)
	second, err := New(ctx, cfg, logger.FromZap(zap.New(core)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer second.Close()
	if err := second.Lifecycle.Startup(ctx); err != nil {
		t.Fatalf("second startup: %v", err)
	}
	if n := countUsers(t, second); n != 1 {
		t.Fatalf("admin duplicated: %d users", n)
	}

	for _, e := range logs.FilterMessage("startup_phase_done").All() {
		if changed, _ := e.ContextMap()["changed"].(bool); changed {
			t.Fatalf("second startup changed state: %v", e.ContextMap())
		}
	}
}

func TestApp_AdminCanLogIn(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if err := a.Lifecycle.Startup(ctx); err != nil {
		t.Fatalf("startup: %v", err)
	}

	tok, err := a.Services.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	data, err := a.Services.ParseToken(tok.AccessToken)
	if err != nil || !data.Resolved() || *data.Username != "admin" {
		t.Fatalf("token data: %+v, %v", data, err)
	}
	u, err := a.Services.CurrentUser(ctx, data)
	if err != nil || !u.IsAdmin {
		t.Fatalf("current user: %+v, %v", u, err)
	}
}

func TestApp_RunServesUntilCancelled(t *testing.T) {
	cfg := testConfig(t)
	core, logs := observer.New(zapcore.InfoLevel)

	a, err := New(context.Background(), cfg, logger.FromZap(zap.New(core)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for !a.Lifecycle.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("app never became ready")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if n := logs.FilterMessage("shutting down application").Len(); n != 1 {
		t.Fatalf("shutdown logged %d times", n)
	}
}

func TestApp_StartupFailsWithoutAdminPassword(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin.Password = ""

	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = a.Run(context.Background())
	if err == nil {
		t.Fatal("expected startup failure")
	}
	if a.Lifecycle.Ready() {
		t.Fatal("must not serve after failed startup")
	}
}

func TestApp_CreateUserRejectsOverlongPassword(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if err := a.Lifecycle.Startup(ctx); err != nil {
		t.Fatalf("startup: %v", err)
	}
	tok, err := a.Services.Login(ctx, " admin ", "s3cret")
	if err != nil {
		t.Fatalf("login with padded username: %v", err)
	}

	routes := a.Handler.Routes()
	post := func(password string) *httptest.ResponseRecorder {
		body := `{"username":"bob","password":"` + password + `"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/users", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		routes.ServeHTTP(w, req)
		return w
	}

	if w := post(strings.Repeat("a", 73)); w.Code != http.StatusBadRequest {
		t.Fatalf("73-byte password: got %d (%s)", w.Code, w.Body.String())
	}
	if n := countUsers(t, a); n != 1 {
		t.Fatalf("user stored despite rejection: %d users", n)
	}
	if w := post(strings.Repeat("a", 72)); w.Code != http.StatusCreated {
		t.Fatalf("72-byte password: got %d (%s)", w.Code, w.Body.String())
	}
}

func TestApp_AuditFiltersByActor(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if err := a.Lifecycle.Startup(ctx); err != nil {
		t.Fatalf("startup: %v", err)
	}
	for _, name := range []string{"mallory", "mallory", "trent"} {
		if _, err := a.Services.Login(ctx, name, "guess"); err == nil {
			t.Fatalf("login as %s succeeded", name)
		}
		// distinct timestamps keep the newest-first order deterministic
		time.Sleep(2 * time.Millisecond)
	}

	events, err := a.Services.AuditLog.List(ctx, service.AuditFilter{
		Types: []string{"login_failed"},
		Actor: "mallory",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events for mallory, got %+v", events)
	}
	for _, e := range events {
		if e.Actor != "mallory" || e.Type != models.AuditLoginFailed {
			t.Fatalf("unexpected event %+v", e)
		}
	}
	if events[0].OccurredAt.Before(events[1].OccurredAt) {
		t.Fatal("events not newest first")
	}

	all, err := a.Services.AuditLog.List(ctx, service.AuditFilter{Limit: 1})
	if err != nil || len(all) != 1 || all[0].Actor != "trent" {
		t.Fatalf("limit 1: %+v, %v", all, err)
	}
}

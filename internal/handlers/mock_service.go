package handlers

import (
	"context"
	"net/http"
	"sync"

	"i18n_portal/internal/models"
	"i18n_portal/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	loginToken models.Token
	loginErr   error
	parseData  models.TokenData
	parseErr   error
	users      map[string]*models.UserRecord
	createUser models.User
	createErr  error

	lastLoginUsername string
	lastLoginPassword string
	lastParseToken    string
	lastCreateActor   string
	lastCreate        models.UserCreate
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (models.Token, error) {
	m.lastLoginUsername = username
	m.lastLoginPassword = password
	return m.loginToken, m.loginErr
}

func (m *mockAuth) ParseToken(token string) (models.TokenData, error) {
	m.lastParseToken = token
	return m.parseData, m.parseErr
}

func (m *mockAuth) CurrentUser(ctx context.Context, data models.TokenData) (*models.UserRecord, error) {
	if !data.Resolved() {
		return nil, service.ErrInvalidToken
	}
	u, ok := m.users[*data.Username]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return u, nil
}

func (m *mockAuth) CreateUser(ctx context.Context, actor string, in models.UserCreate) (models.User, error) {
	m.lastCreateActor = actor
	m.lastCreate = in
	return m.createUser, m.createErr
}

type mockI18n struct {
	mu sync.Mutex

	locales    []string
	bundles    map[string]models.Bundle
	bundleErr  error
	negotiated string
	updateErr  error

	lastAccept  string
	lastUpdate  map[string]string
	lastLocale  string
	bundleCalls int
}

func (m *mockI18n) Locales(ctx context.Context) ([]string, error) {
	return m.locales, nil
}

func (m *mockI18n) Bundle(ctx context.Context, locale string) (models.Bundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundleCalls++
	m.lastLocale = locale
	if m.bundleErr != nil {
		return models.Bundle{}, m.bundleErr
	}
	b, ok := m.bundles[locale]
	if !ok {
		return models.Bundle{}, service.ErrLocaleNotFound
	}
	return b, nil
}

func (m *mockI18n) Negotiate(ctx context.Context, acceptLanguage string) (string, error) {
	m.lastAccept = acceptLanguage
	return m.negotiated, nil
}

func (m *mockI18n) Update(ctx context.Context, actor, locale string, messages map[string]string) (models.Bundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUpdate = messages
	if m.updateErr != nil {
		return models.Bundle{}, m.updateErr
	}
	b := models.Bundle{Locale: locale, Messages: messages}
	m.bundles[locale] = b
	return b, nil
}

// setBundle replaces a bundle while a stream may be reading it.
func (m *mockI18n) setBundle(b models.Bundle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundles[b.Locale] = b
}

type mockAuditLog struct {
	resp []models.AuditEvent
	err  error
	last service.AuditFilter
}

func (m *mockAuditLog) List(ctx context.Context, f service.AuditFilter) ([]models.AuditEvent, error) {
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func strPtr(s string) *string { return &s }

// authAs makes the mock accept any token as the given account.
func authAs(u *models.UserRecord) *mockAuth {
	return &mockAuth{
		parseData: models.TokenData{Username: strPtr(u.Username)},
		users:     map[string]*models.UserRecord{u.Username: u},
	}
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{})
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"i18n_portal/internal/models"
	"i18n_portal/internal/service"
)

func TestAuthHandlers_Token(t *testing.T) {
	auth := &mockAuth{loginToken: models.Token{AccessToken: "tok123", TokenType: models.TokenTypeBearer}}
	r := newTestRouter(&service.Service{Authorization: auth})

	// JSON body
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{"username":"u","password":"p"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("token status=%d, body=%s", w.Code, w.Body.String())
	}
	var tok models.Token
	_ = json.Unmarshal(w.Body.Bytes(), &tok)
	if tok.AccessToken != "tok123" || tok.TokenType != "bearer" {
		t.Fatalf("unexpected token: %+v", tok)
	}

	// form body
	form := url.Values{"username": {"formuser"}, "password": {"formpass"}}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("form token status=%d, body=%s", w.Code, w.Body.String())
	}
	if auth.lastLoginUsername != "formuser" || auth.lastLoginPassword != "formpass" {
		t.Fatalf("form credentials not forwarded: %q/%q", auth.lastLoginUsername, auth.lastLoginPassword)
	}

	// invalid body
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{"username":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_TokenBadCredentials(t *testing.T) {
	auth := &mockAuth{loginErr: service.ErrInvalidPassword}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{"username":"u","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Fatalf("WWW-Authenticate: got %q", got)
	}
	if strings.Contains(w.Body.String(), "tok") {
		t.Fatalf("no token expected in body: %s", w.Body.String())
	}
}

func TestAuthHandlers_Me(t *testing.T) {
	auth := authAs(&models.UserRecord{ID: 5, Username: "ann", PasswordHash: "$2a$secret"})
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header = authHeader("valid")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("me status=%d, body=%s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "secret") {
		t.Fatalf("password hash leaked: %s", w.Body.String())
	}
	var u models.User
	_ = json.Unmarshal(w.Body.Bytes(), &u)
	if u != (models.User{ID: 5, Username: "ann"}) {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestAuthHandlers_MeUnknownAccount(t *testing.T) {
	auth := &mockAuth{parseData: models.TokenData{Username: strPtr("gone")}}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header = authHeader("valid")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandlers_CreateUser(t *testing.T) {
	cases := []struct {
		name      string
		caller    *models.UserRecord
		body      string
		createErr error
		wantCode  int
	}{
		{
			name:     "admin creates user",
			caller:   &models.UserRecord{ID: 1, Username: "root", IsAdmin: true},
			body:     `{"username":"bob","password":"pw"}`,
			wantCode: http.StatusCreated,
		},
		{
			name:     "non-admin forbidden",
			caller:   &models.UserRecord{ID: 2, Username: "eve"},
			body:     `{"username":"bob","password":"pw"}`,
			wantCode: http.StatusForbidden,
		},
		{
			name:      "duplicate username",
			caller:    &models.UserRecord{ID: 1, Username: "root", IsAdmin: true},
			body:      `{"username":"bob","password":"pw"}`,
			createErr: service.ErrUserExists,
			wantCode:  http.StatusConflict,
		},
		{
			name:      "password over bcrypt limit",
			caller:    &models.UserRecord{ID: 1, Username: "root", IsAdmin: true},
			body:      `{"username":"bob","password":"` + strings.Repeat("a", 73) + `"}`,
			createErr: service.ErrPasswordTooLong,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:     "missing password",
			caller:   &models.UserRecord{ID: 1, Username: "root", IsAdmin: true},
			body:     `{"username":"bob"}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := authAs(tc.caller)
			auth.createUser = models.User{ID: 10, Username: "bob"}
			auth.createErr = tc.createErr
			r := newTestRouter(&service.Service{Authorization: auth})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auth/users", bytes.NewBufferString(tc.body))
			req.Header = authHeader("valid")
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantCode == http.StatusCreated {
				if auth.lastCreateActor != "root" || auth.lastCreate.Username != "bob" {
					t.Fatalf("unexpected create call: actor=%q in=%+v", auth.lastCreateActor, auth.lastCreate)
				}
				if strings.Contains(w.Body.String(), "password") {
					t.Fatalf("password echoed back: %s", w.Body.String())
				}
			}
		})
	}
}

package service

import (
	"context"
	"sync"

	"i18n_portal/internal/models"
	"i18n_portal/internal/repository"
)

// mockAuthRepo is a lightweight in-test mock for repository.Authorization.
type mockAuthRepo struct {
	CreateFn        func(username, hash string, isAdmin bool) (int, error)
	GetByUsernameFn func(username string) (*models.UserRecord, error)

	createCalls []struct {
		username string
		hash     string
		isAdmin  bool
	}
	getCalls []string
}

func (m *mockAuthRepo) Create(_ context.Context, username, hash string, isAdmin bool) (int, error) {
	m.createCalls = append(m.createCalls, struct {
		username string
		hash     string
		isAdmin  bool
	}{username: username, hash: hash, isAdmin: isAdmin})
	return m.CreateFn(username, hash, isAdmin)
}

func (m *mockAuthRepo) GetByUsername(_ context.Context, username string) (*models.UserRecord, error) {
	m.getCalls = append(m.getCalls, username)
	return m.GetByUsernameFn(username)
}

// fakeAuditRepo records appended events.
type fakeAuditRepo struct {
	mu        sync.Mutex
	appended  []models.AuditEvent
	appendErr error

	gotQuery repository.AuditQuery
	events   []models.AuditEvent
	listErr error
	calls   int
}

func (f *fakeAuditRepo) Append(_ context.Context, e models.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeAuditRepo) List(_ context.Context, q repository.AuditQuery) ([]models.AuditEvent, error) {
	f.calls++
	f.gotQuery = q
	return f.events, f.listErr
}

func (f *fakeAuditRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

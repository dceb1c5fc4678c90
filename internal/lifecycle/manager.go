// Package lifecycle sequences application startup and shutdown: schema
// materialization, admin bootstrap, serving, and the shutdown log.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"i18n_portal/internal/logger"
)

const (
	PhaseSchema = "schema"
	PhaseAdmin  = "admin"
)

const (
	msgStartup  = "starting application and creating database tables"
	msgShutdown = "shutting down application"
)

// Result reports what a reconciler changed.
type Result struct {
	Changed bool
	Detail  string
}

// Reconciler brings one piece of state in line with what the application
// needs before it can serve. It must be safe to run repeatedly.
type Reconciler interface {
	Reconcile(ctx context.Context) (Result, error)
}

// ReconcileFunc adapts a function to Reconciler.
type ReconcileFunc func(ctx context.Context) (Result, error)

func (f ReconcileFunc) Reconcile(ctx context.Context) (Result, error) {
	return f(ctx)
}

// StartupError is returned by Run when a startup phase fails.
type StartupError struct {
	Phase string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup %s: %v", e.Phase, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// Manager runs schema and admin reconciliation before serving and logs
// shutdown exactly once when serving ends.
type Manager struct {
	log    *logger.Logger
	schema Reconciler
	admin  Reconciler

	ready        atomic.Bool
	shutdownOnce sync.Once
}

func NewManager(log *logger.Logger, schema, admin Reconciler) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{log: log, schema: schema, admin: admin}
}

// Startup runs the startup phase. Phases run strictly in order and the
// first failure stops the sequence.
func (m *Manager) Startup(ctx context.Context) error {
	m.log.Infow(msgStartup)

	for _, step := range []struct {
		phase string
		r     Reconciler
	}{
		{PhaseSchema, m.schema},
		{PhaseAdmin, m.admin},
	} {
		if step.r == nil {
			return &StartupError{Phase: step.phase, Err: fmt.Errorf("no reconciler configured")}
		}
		res, err := step.r.Reconcile(ctx)
		if err != nil {
			m.log.Errorw("startup_phase_failed", "phase", step.phase, "err", err)
			return &StartupError{Phase: step.phase, Err: err}
		}
		m.log.Infow("startup_phase_done", "phase", step.phase, "changed", res.Changed, "detail", res.Detail)
	}
	return nil
}

// Run performs startup and, only if it succeeds, calls serve. When serve
// returns or panics the shutdown log is written; a panic is re-raised.
// Readiness drops as soon as ctx is done, so health checks fail while serve
// drains in-flight requests.
func (m *Manager) Run(ctx context.Context, serve func(ctx context.Context) error) error {
	if err := m.Startup(ctx); err != nil {
		return err
	}

	m.ready.Store(true)
	stop := context.AfterFunc(ctx, func() { m.ready.Store(false) })
	defer func() {
		stop()
		m.ready.Store(false)
		m.shutdown()
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	return serve(ctx)
}

// Ready reports whether startup finished and shutdown has not begun.
func (m *Manager) Ready() bool {
	return m.ready.Load()
}

func (m *Manager) shutdown() {
	m.shutdownOnce.Do(func() {
		m.log.Infow(msgShutdown)
	})
}

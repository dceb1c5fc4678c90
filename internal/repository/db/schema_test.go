package db

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"i18n_portal/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
)

func expectTableCheck(m sqlmock.Sqlmock, d Dialect, table string, count int) {
	m.ExpectQuery(regexp.QuoteMeta(d.tableExistsSQL())).
		WithArgs(table).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func TestSchemaEnsure_AllPresentRunsNoDDL(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	for _, tbl := range Tables(SQLite) {
		expectTableCheck(mock, SQLite, tbl.Name, 1)
	}

	res, err := NewSchema(db, SQLite).Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if res.Changed() {
		t.Fatalf("expected no change, got %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSchemaEnsure_CreatesOnlyMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	expectTableCheck(mock, SQLite, "users", 1)
	expectTableCheck(mock, SQLite, "translations", 0)
	expectTableCheck(mock, SQLite, "audit_events", 0)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS translations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS audit_events")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_audit_events_occurred_at")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res, err := NewSchema(db, SQLite).Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if want := []string{"translations", "audit_events"}; !reflect.DeepEqual(res.Created, want) {
		t.Fatalf("created: got %v, want %v", res.Created, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSchemaEnsure_DDLFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	expectTableCheck(mock, Postgres, "users", 0)
	expectTableCheck(mock, Postgres, "translations", 1)
	expectTableCheck(mock, Postgres, "audit_events", 1)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	_, err = NewSchema(db, Postgres).Ensure(context.Background())
	if err == nil || !strings.Contains(err.Error(), "apply schema for users") {
		t.Fatalf("expected apply schema error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSchemaEnsure_UnreachableStore(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	_, err = NewSchema(db, Postgres).Ensure(context.Background())
	if err == nil || !strings.Contains(err.Error(), "ping postgres") {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestSchemaEnsure_SQLiteIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.db")
	db, dialect, err := Open(config.DBConfig{Driver: config.DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	schema := NewSchema(db, dialect)

	first, err := schema.Ensure(context.Background())
	if err != nil {
		t.Fatalf("first Ensure: %v", err)
	}
	if want := []string{"users", "translations", "audit_events"}; !reflect.DeepEqual(first.Created, want) {
		t.Fatalf("first run created %v, want %v", first.Created, want)
	}

	second, err := schema.Ensure(context.Background())
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if second.Changed() {
		t.Fatalf("second run should be a no-op, created %v", second.Created)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, _, err := Open(config.DBConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

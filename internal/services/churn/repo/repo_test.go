package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"churnserve/internal/modkit/repokit"
	perr "churnserve/internal/platform/errors"
	"churnserve/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgconn"
)

type tag int64

func (t tag) String() string      { return "INSERT 0 1" }
func (t tag) RowsAffected() int64 { return int64(t) }

type fakeQ struct {
	sql  string
	args []any

	tag     tag
	execErr error

	rows     []ArtifactRow
	queryErr error
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	f.sql, f.args = sql, args
	return f.tag, f.execErr
}

func (f *fakeQ) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	f.sql, f.args = sql, args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{data: f.rows, idx: -1}, nil
}

func (f *fakeQ) QueryRow(_ context.Context, sql string, args ...any) repokit.Row {
	panic("QueryRow not used by the registry")
}

type fakeRows struct {
	data []ArtifactRow
	idx  int
}

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) != 4 {
		return errors.New("want 4 columns")
	}
	a := r.data[r.idx]
	*dest[0].(*string) = a.Name
	*dest[1].(*string) = a.Version
	*dest[2].(*[]byte) = a.Payload
	*dest[3].(*time.Time) = a.CreatedAt
	return nil
}

func (r *fakeRows) Err() error        { return nil }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return []string{"name", "version", "payload", "created_at"} }

func TestEnsureSchema(t *testing.T) {
	q := &fakeQ{}
	if err := NewPG().Bind(q).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	testkit.MustContain(t, q.sql, "CREATE TABLE IF NOT EXISTS model_artifacts")

	q.execErr = errors.New("permission denied")
	err := NewPG().Bind(q).EnsureSchema(context.Background())
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestLatest(t *testing.T) {
	now := time.Now()
	q := &fakeQ{rows: []ArtifactRow{{Name: "churn", Version: "1.2.0", Payload: []byte(`{}`), CreatedAt: now}}}
	got, err := NewPG().Bind(q).Latest(context.Background(), "churn")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.Version != "1.2.0" || string(got.Payload) != "{}" || !got.CreatedAt.Equal(now) {
		t.Fatalf("row = %+v", got)
	}
	testkit.MustContain(t, q.sql, "ORDER BY created_at DESC")
	if len(q.args) != 1 || q.args[0] != "churn" {
		t.Fatalf("args = %v", q.args)
	}
}

func TestLatest_NotFound(t *testing.T) {
	q := &fakeQ{}
	_, err := NewPG().Bind(q).Latest(context.Background(), "churn")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	testkit.MustContain(t, err.Error(), `no artifact named "churn"`)
}

func TestLatest_PostgresErrors(t *testing.T) {
	q := &fakeQ{queryErr: &pgconn.PgError{Code: "42P01", Message: `relation "model_artifacts" does not exist`}}
	_, err := NewPG().Bind(q).Latest(context.Background(), "churn")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing table should read as not found, got %v", err)
	}
	testkit.MustContain(t, err.Error(), "publish an artifact first")

	q = &fakeQ{queryErr: &pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"}}
	if _, err := NewPG().Bind(q).Latest(context.Background(), "churn"); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("statement timeout should be unavailable, got %v", err)
	}
}

func TestGet(t *testing.T) {
	q := &fakeQ{rows: []ArtifactRow{{Name: "churn", Version: "1.0.0"}}}
	if _, err := NewPG().Bind(q).Get(context.Background(), "churn", "1.0.0"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(q.args) != 2 || q.args[1] != "1.0.0" {
		t.Fatalf("args = %v", q.args)
	}

	q = &fakeQ{queryErr: errors.New("conn reset")}
	_, err := NewPG().Bind(q).Get(context.Background(), "churn", "1.0.0")
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	q := &fakeQ{tag: 1}
	row := ArtifactRow{Name: "churn", Version: "1.0.0", Payload: []byte(`{"a":1}`)}
	if err := NewPG().Bind(q).Upsert(context.Background(), row); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	testkit.MustContain(t, q.sql, "ON CONFLICT (name, version)")
	if s, ok := q.args[2].(string); !ok || s != `{"a":1}` {
		t.Fatalf("payload arg = %#v", q.args[2])
	}

	q = &fakeQ{tag: 0}
	if err := NewPG().Bind(q).Upsert(context.Background(), row); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("zero rows should fail, got %v", err)
	}
}

func TestList(t *testing.T) {
	q := &fakeQ{rows: []ArtifactRow{
		{Name: "churn", Version: "2.0.0"},
		{Name: "churn", Version: "1.0.0"},
	}}
	got, err := NewPG().Bind(q).List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Version != "2.0.0" {
		t.Fatalf("rows = %+v", got)
	}
	if !strings.Contains(q.sql, "NULL::jsonb") {
		t.Fatalf("list should not ship payloads: %s", q.sql)
	}

	q = &fakeQ{queryErr: errors.New("boom")}
	if _, err := NewPG().Bind(q).List(context.Background(), "churn"); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("expected db error, got %v", err)
	}
}

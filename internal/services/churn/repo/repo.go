// Package repo stores trained churn artifacts in the model_artifacts registry table
package repo

import (
	"context"
	_ "embed"
	"time"

	"churnserve/internal/modkit/repokit"
	perr "churnserve/internal/platform/errors"
	"churnserve/internal/platform/store"
)

//go:embed schema.sql
var schemaSQL string

// ArtifactRow is one stored artifact document
type ArtifactRow struct {
	Name      string
	Version   string
	Payload   []byte
	CreatedAt time.Time
}

// Repo is the registry persistence surface
type Repo interface {
	EnsureSchema(ctx context.Context) error
	Latest(ctx context.Context, name string) (ArtifactRow, error)
	Get(ctx context.Context, name, version string) (ArtifactRow, error)
	Upsert(ctx context.Context, row ArtifactRow) error
	List(ctx context.Context, name string) ([]ArtifactRow, error)
}

type (
	// PG is the Postgres implementation of the registry
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// EnsureSchema creates the registry table when missing
func (r *queries) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, schemaSQL); err != nil {
		return perr.FromPostgresf(err, "create model_artifacts")
	}
	return nil
}

func scanRow(row store.Row) (ArtifactRow, error) {
	var a ArtifactRow
	err := row.Scan(&a.Name, &a.Version, &a.Payload, &a.CreatedAt)
	return a, err
}

// Latest returns the most recently published version of name
func (r *queries) Latest(ctx context.Context, name string) (ArtifactRow, error) {
	const sql = `
		SELECT name, version, payload, created_at
		FROM model_artifacts
		WHERE name = $1
		ORDER BY created_at DESC, version DESC
		LIMIT 1
	`
	a, err := store.One(ctx, r.q, scanRow, sql, name)
	return a, notFound(err, "no artifact named %q", name)
}

// Get returns one pinned version
func (r *queries) Get(ctx context.Context, name, version string) (ArtifactRow, error) {
	const sql = `
		SELECT name, version, payload, created_at
		FROM model_artifacts
		WHERE name = $1 AND version = $2
	`
	a, err := store.One(ctx, r.q, scanRow, sql, name, version)
	return a, notFound(err, "no artifact %s@%s", name, version)
}

// Upsert stores row, replacing the payload of an existing version
func (r *queries) Upsert(ctx context.Context, row ArtifactRow) error {
	const sql = `
		INSERT INTO model_artifacts (name, version, payload, created_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (name, version) DO UPDATE
		SET payload    = EXCLUDED.payload,
		    created_at = EXCLUDED.created_at
	`
	if err := store.ExecOne(ctx, r.q, sql, row.Name, row.Version, string(row.Payload)); err != nil {
		return perr.FromPostgresf(err, "upsert %s@%s", row.Name, row.Version)
	}
	return nil
}

// List returns stored versions newest first without payloads; empty name lists every model
func (r *queries) List(ctx context.Context, name string) ([]ArtifactRow, error) {
	const sql = `
		SELECT name, version, NULL::jsonb, created_at
		FROM model_artifacts
		WHERE $1::text = '' OR name = $1
		ORDER BY name, created_at DESC
	`
	rows, err := store.Many(ctx, r.q, scanRow, sql, name)
	if err != nil {
		return nil, perr.FromPostgresf(err, "list model_artifacts")
	}
	return rows, nil
}

func notFound(err error, format string, a ...any) error {
	switch {
	case err == nil:
		return nil
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		return perr.NotFoundf(format, a...)
	case perr.IsUndefinedTable(err):
		return perr.Wrap(err, perr.ErrorCodeNotFound, "model registry is empty, publish an artifact first")
	default:
		return perr.FromPostgresf(err, "read model_artifacts")
	}
}

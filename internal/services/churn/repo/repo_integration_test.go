//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"churnserve/internal/core/features"
	"churnserve/internal/core/model"
	"churnserve/internal/modkit/repokit"
	perr "churnserve/internal/platform/errors"
	"churnserve/internal/platform/store"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func openRegistry(t *testing.T) (*store.Store, func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "registry",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		cancel()
		t.Fatalf("start postgres: %v", err)
	}
	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/registry?sslmode=disable", host, port.Port())

	st, err := store.Open(ctx, store.Config{
		AppName: "churn-registry-test",
		PG: store.PGConfig{
			Enabled:        true,
			URL:            dsn,
			AppName:        "churn-registry-test",
			MaxConns:       2,
			SlowQueryMs:    200,
			ConnectRetries: 20,
			PingTimeout:    3 * time.Second,
		},
	})
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("open store: %v", err)
	}
	return st, func() {
		_ = st.Close()
		_ = c.Terminate(context.Background())
		cancel()
	}
}

func TestRegistry_RoundTrip_Integration(t *testing.T) {
	st, stop := openRegistry(t)
	defer stop()
	ctx := context.Background()

	r := repokit.MustBind(NewPG(), st.PG)
	if err := r.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	// idempotent
	if err := r.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema again: %v", err)
	}

	if _, err := r.Latest(ctx, "churn"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("empty registry: %v", err)
	}

	payload := model.Embedded()
	err := st.PG.Tx(ctx, func(q repokit.Queryer) error {
		tx := NewPG().Bind(q)
		if err := tx.Upsert(ctx, ArtifactRow{Name: "churn", Version: "1.0.0", Payload: payload}); err != nil {
			return err
		}
		return tx.Upsert(ctx, ArtifactRow{Name: "churn", Version: "1.0.0", Payload: payload})
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := r.Upsert(ctx, ArtifactRow{Name: "churn", Version: "1.1.0", Payload: payload}); err != nil {
		t.Fatalf("upsert 1.1.0: %v", err)
	}

	latest, err := r.Latest(ctx, "churn")
	if err != nil || latest.Version != "1.1.0" {
		t.Fatalf("latest = %+v %v", latest, err)
	}
	// jsonb normalizes whitespace but the document still decodes
	if _, err := model.Decode(latest.Payload, features.V1); err != nil {
		t.Fatalf("stored payload no longer decodes: %v", err)
	}

	pinned, err := r.Get(ctx, "churn", "1.0.0")
	if err != nil || pinned.Version != "1.0.0" {
		t.Fatalf("pinned = %+v %v", pinned, err)
	}

	all, err := r.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("list = %+v %v", all, err)
	}
	if all[0].Version != "1.1.0" || all[0].Payload != nil {
		t.Fatalf("list order or payload wrong: %+v", all[0])
	}
}

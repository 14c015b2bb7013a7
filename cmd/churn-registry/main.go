// Command churn-registry publishes trained artifacts to the model_artifacts table and lists them
//
//	churn-registry publish -file model.json
//	churn-registry list [-name churn]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"churnserve/internal/core/features"
	"churnserve/internal/core/model"
	"churnserve/internal/modkit/repokit"
	"churnserve/internal/platform/config"
	perr "churnserve/internal/platform/errors"
	"churnserve/internal/platform/logger"
	"churnserve/internal/platform/store"

	"churnserve/internal/services/churn/repo"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: churn-registry publish -file model.json | list [-name churn]")
}

func main() {
	root := config.New()
	l := logger.Named("registry")

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(64)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stCfg := store.FromConfig("churn-registry", root)
	if !stCfg.PG.Enabled {
		l.Fatal().Msg("SERVICE_PGSQL_DBURL is required")
	}
	st, err := store.Open(ctx, stCfg, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	timeout := root.Prefix("CHURN_REGISTRY_").MayDuration("STATEMENT_TIMEOUT", 15*time.Second)
	db := repokit.WithBeginHooks(st.PG, repokit.StatementTimeout(timeout))

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "publish":
		fs := flag.NewFlagSet("publish", flag.ExitOnError)
		fFile := fs.String("file", "", "artifact JSON produced by the training pipeline")
		_ = fs.Parse(args)
		err = publish(ctx, db, *fFile, os.Stdout)
	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		fName := fs.String("name", "", "only list this model name")
		_ = fs.Parse(args)
		err = list(ctx, db, *fName, os.Stdout)
	default:
		usage(os.Stderr)
		os.Exit(64)
	}
	if err != nil {
		l.Fatal().Err(err).Str("cmd", cmd).Msg("registry command failed")
	}
}

// publish validates the artifact with the server's decoder and upserts it in one tx
func publish(ctx context.Context, db repokit.TxRunner, path string, out io.Writer) error {
	if path == "" {
		return perr.InvalidArgf("-file is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "read %s", path)
	}
	a, err := model.Decode(b, features.V1)
	if err != nil {
		return err
	}
	m := a.Meta()

	err = repokit.WithTx(ctx, db, func(q repokit.Queryer) error {
		r := repo.NewPG().Bind(q)
		if err := r.EnsureSchema(ctx); err != nil {
			return err
		}
		return r.Upsert(ctx, repo.ArtifactRow{Name: m.Name, Version: m.Version, Payload: b})
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "published %s threshold=%g schema=%s\n", m, m.Threshold, features.V1)
	return nil
}

// list prints stored versions newest first per model
func list(ctx context.Context, db repokit.TxRunner, name string, out io.Writer) error {
	var rows []repo.ArtifactRow
	err := repokit.WithTx(ctx, db, func(q repokit.Queryer) error {
		r := repo.NewPG().Bind(q)
		if err := r.EnsureSchema(ctx); err != nil {
			return err
		}
		var err error
		rows, err = r.List(ctx, name)
		return err
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tVERSION\tCREATED")
	for _, row := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Name, row.Version, row.CreatedAt.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}

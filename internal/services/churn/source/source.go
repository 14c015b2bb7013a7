// Package source resolves where the scoring artifact is read from at startup
package source

import (
	"context"
	"fmt"

	"churnserve/internal/core/features"
	"churnserve/internal/core/model"
	"churnserve/internal/modkit/repokit"
	"churnserve/internal/platform/config"
	perr "churnserve/internal/platform/errors"

	"churnserve/internal/services/churn/domain"
	"churnserve/internal/services/churn/repo"
)

// Kinds accepted by CHURN_MODEL_SOURCE
const (
	KindEmbedded = "embedded"
	KindFile     = "file"
	KindPG       = "pg"
)

// Options selects and parameterizes a source
type Options struct {
	Kind    string
	Path    string
	Name    string
	Version string
}

// FromConfig reads CHURN_MODEL_* keys
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CHURN_MODEL_")
	return Options{
		Kind:    c.MayEnum("SOURCE", KindEmbedded, KindEmbedded, KindFile, KindPG),
		Path:    c.MayString("PATH", ""),
		Name:    c.MayString("NAME", "churn"),
		Version: c.MayString("VERSION", ""),
	}
}

// New builds the source named by o.Kind, pg needs a non nil TxRunner
func New(o Options, pg repokit.TxRunner, binder repokit.Binder[repo.Repo]) (domain.ArtifactSource, error) {
	switch o.Kind {
	case "", KindEmbedded:
		return Embedded{}, nil
	case KindFile:
		if o.Path == "" {
			return nil, perr.InvalidArgf("CHURN_MODEL_PATH is required for the file source")
		}
		return File{Path: o.Path}, nil
	case KindPG:
		if pg == nil {
			return nil, perr.InvalidArgf("the pg source needs SERVICE_PGSQL_DBURL")
		}
		return Registry{Repo: repokit.MustBind(binder, pg), Model: o.Name, Version: o.Version}, nil
	}
	return nil, perr.InvalidArgf("unknown model source %q", o.Kind)
}

// Embedded serves the artifact compiled into the binary
type Embedded struct{}

// Name implements domain.ArtifactSource
func (Embedded) Name() string { return KindEmbedded }

// Load implements domain.ArtifactSource
func (Embedded) Load(_ context.Context, schema features.Schema) (model.Artifact, error) {
	return model.Default(schema)
}

// File reads a JSON artifact from disk
type File struct{ Path string }

// Name implements domain.ArtifactSource
func (f File) Name() string { return KindFile + ":" + f.Path }

// Load implements domain.ArtifactSource
func (f File) Load(_ context.Context, schema features.Schema) (model.Artifact, error) {
	return model.ReadFile(f.Path, schema)
}

// Registry reads from the model_artifacts table, latest when Version is empty
type Registry struct {
	Repo    repo.Repo
	Model   string
	Version string
}

// Name implements domain.ArtifactSource
func (r Registry) Name() string {
	v := r.Version
	if v == "" {
		v = "latest"
	}
	return fmt.Sprintf("%s:%s@%s", KindPG, r.Model, v)
}

// Load implements domain.ArtifactSource
func (r Registry) Load(ctx context.Context, schema features.Schema) (model.Artifact, error) {
	var (
		row repo.ArtifactRow
		err error
	)
	if r.Version == "" {
		row, err = r.Repo.Latest(ctx, r.Model)
	} else {
		row, err = r.Repo.Get(ctx, r.Model, r.Version)
	}
	if err != nil {
		return nil, err
	}
	a, err := model.Decode(row.Payload, schema)
	if err != nil {
		return nil, err
	}
	// the row key and the document header must agree
	if m := a.Meta(); m.Name != row.Name || m.Version != row.Version {
		return nil, perr.InvalidArgf("row %s@%s holds artifact %s@%s", row.Name, row.Version, m.Name, m.Version)
	}
	return a, nil
}

// Package modkit provides module wiring and core deps
package modkit

import (
	"churnserve/internal/modkit/repokit"
	"churnserve/internal/platform/config"
	"churnserve/internal/platform/logger"
	"churnserve/internal/platform/metrics"
)

// Deps holds core dependencies passed to modules
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// PG is nil unless SERVICE_PGSQL_DBURL is set
	PG repokit.TxRunner

	// Metrics is nil in tests that do not care about collectors
	Metrics *metrics.Registry
}

// HasPG reports whether a postgres seam is wired
func (d Deps) HasPG() bool { return d.PG != nil }

package http

import (
	stdhttp "net/http"

	"churnserve/internal/platform/logger"

	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler mounts pprof under prefix, e.g. /debug/pprof/ for prefix "/debug"
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	logger.Named("http").Warn().Str("prefix", prefix).Msg("profiler mounted")

	// the profiler mux routes from its own root so strip before handing off
	h := stdhttp.StripPrefix(prefix, mw.Profiler())
	r.Handle(prefix, h)
	r.Handle(prefix+"/*", h)
}

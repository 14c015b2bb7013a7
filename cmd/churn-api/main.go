// @title         Churn Prediction API
// @version       1.0.0
// @description   Scores customers with the trained churn model

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"churnserve/internal/core/version"
	"churnserve/internal/platform/config"
	"churnserve/internal/platform/logger"
	"churnserve/internal/platform/metrics"
	phttp "churnserve/internal/platform/net/http"
	"churnserve/internal/platform/store"

	"churnserve/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CHURN_API_*)
	root := config.New()
	apiCfg := root.Prefix("CHURN_API_")

	l := logger.Named("main")
	l.Info().Str("build", version.Info("churn-api").String()).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// postgres is optional, it backs the pg model source and the readiness ping
	st, err := store.Open(ctx, store.FromConfig("churn-api", root), store.WithLogger(*logger.Named("store")))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CHURN_API_PORT)
	srv := phttp.NewServer(apiCfg)

	a := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Metrics:        metrics.New(),
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// the artifact is loaded before the listener accepts anything
	loadCtx, cancel := context.WithTimeout(ctx, apiCfg.MayDuration("LOAD_TIMEOUT", 30*time.Second))
	err = a.Load(loadCtx)
	cancel()
	if err != nil {
		l.Fatal().Err(err).Msg("model load failed")
	}

	l.Info().Str("addr", srv.Addr()).Msg("listening")
	if err := srv.Run(ctx, apiCfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second)); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}

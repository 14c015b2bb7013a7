package httpkit

import (
	"net/http"
	"time"

	"churnserve/internal/platform/config"
	"churnserve/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Timeout     time.Duration
	SlowRequest time.Duration
	CORSOrigins []string
	QuietPaths  []string
}

// StackFromConfig reads TIMEOUT, SLOW_MS and CORS_ORIGINS from an already prefixed conf
func StackFromConfig(c config.Conf) StackOptions {
	return StackOptions{
		Timeout:     c.MayDuration("TIMEOUT", 30*time.Second),
		SlowRequest: time.Duration(c.MayInt("SLOW_MS", 250)) * time.Millisecond,
		CORSOrigins: c.MayCSV("CORS_ORIGINS", nil),
		QuietPaths:  []string{"/", "/metrics", "/health"},
	}
}

// CommonStack is the baseline middleware every router starts with
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	stack := []func(http.Handler) http.Handler{
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Heartbeat("/health"),
	}
	stack = append(stack, middleware.Defaults(o.Timeout)...)
	return append(stack, middleware.AccessLogZerolog(middleware.AccessLogOptions{
		Slow: o.SlowRequest,
		Skip: o.QuietPaths,
	}))
}

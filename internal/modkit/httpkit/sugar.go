package httpkit

import (
	"net/http"

	phttp "churnserve/internal/platform/net/http"
)

// Get registers a no-body handler; results are enveloped unless they are a Response
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// GetResponse registers a handler that builds its own Response
func GetResponse(r Router, path string, h func(*http.Request) Response) {
	r.Get(path, Handle(h))
}

// PostJSON binds and validates T, then envelopes the result
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// PostRawJSON binds and validates T, then writes the result bare
func PostRawJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostRawJSON(r, path, h)
}

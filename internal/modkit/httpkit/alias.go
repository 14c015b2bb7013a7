// Package httpkit re-exports the platform http surface for modules
// modules import this instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "churnserve/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response is the HTTP response type
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// OK returns an enveloped 200 response
func OK(data any) Response { return phttp.OK(data) }

// Raw returns a 200 response whose body is written as is
func Raw(data any) Response { return phttp.Raw(data) }

// RawStatus returns a bare body with an explicit status
func RawStatus(status int, data any) Response { return phttp.RawStatus(status, data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error maps err to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Call adapts a handler that takes no JSON body; a returned Response passes through
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// Handle adapts a Response-returning function
func Handle(fn func(*http.Request) Response) Handler {
	return phttp.Handle(fn)
}

package http

import (
	"net/http"

	"churnserve/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler, success is enveloped
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return bound(fn, OK)
}

// RawJSONHandler is JSONHandler with the success body written bare
func RawJSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return bound(fn, Raw)
}

// JSONHandlerNoBody calls fn without parsing a request body and wraps the result
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}

func bound[T any](fn func(*http.Request, T) (any, error), wrap func(any) Response) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return wrap(out)
	})
}

// Package churnapi is the HTTP client the input UI uses to reach the churn service
package churnapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"churnserve/internal/core/verdict"
	perr "churnserve/internal/platform/errors"
	"churnserve/internal/platform/logger"

	"churnserve/internal/services/churn/domain"

	"github.com/google/uuid"
)

const (
	baseURLDefault = "http://localhost:8000"
	defaultTimeout = 20 * time.Second
	defaultUA      = "churn-cli"
	maxBody        = 1 << 20
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client talks to one churn service, safe for concurrent use
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	newID func() string
}

// New creates a Client with defaults for empty options
func New(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("churnapi"),
		newID: uuid.NewString,
	}
}

// StatusError is a response outside 2xx; the envelope fields are set when the body was one
type StatusError struct {
	StatusCode int
	Body       string

	Code      perr.ErrorCode
	Message   string
	Field     string
	RequestID string
}

func (e *StatusError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("churn api %d: %s (field %s)", e.StatusCode, e.Message, e.Field)
	case e.Message != "":
		return fmt.Sprintf("churn api %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("churn api %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Retryable reports whether the server asked the caller to come back later
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusServiceUnavailable || e.StatusCode == http.StatusTooManyRequests
}

// TransportError means the request never produced an HTTP response
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("churn api %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying network error
func (e *TransportError) Unwrap() error { return e.Err }

// Predict posts in to /predict
func (c *Client) Predict(ctx context.Context, in domain.PredictInput) (verdict.Result, error) {
	var out verdict.Result
	err := c.do(ctx, http.MethodPost, "/predict", in, &out)
	return out, err
}

// Health calls GET /
func (c *Client) Health(ctx context.Context) (domain.HealthResponse, error) {
	var out domain.HealthResponse
	err := c.do(ctx, http.MethodGet, "/", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	url := c.opts.BaseURL + path

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "encode request")
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "build request %s %s", method, url)
	}
	reqID := c.newID()
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: method, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &TransportError{Op: method, URL: url, Err: err}
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("churn api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "decode %s response", path)
	}
	return nil
}

// envelope mirrors the server's error body
type envelope struct {
	Code      perr.ErrorCode `json:"code"`
	Error     string         `json:"error"`
	Field     string         `json:"field"`
	RequestID string         `json:"request_id"`
}

func statusError(status int, raw []byte) *StatusError {
	e := &StatusError{StatusCode: status, Body: string(raw)}
	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.Error != "" {
		e.Code, e.Message, e.Field, e.RequestID = env.Code, env.Error, env.Field, env.RequestID
	}
	return e
}

package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"churnserve/internal/platform/config"
	phttp "churnserve/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestNewServer_DefaultAddrAndOptions(t *testing.T) {
	optCalled := false
	srv := phttp.NewServer(config.New().Prefix("CHURN_TEST_UNSET_"), func(*chi.Mux) { optCalled = true })
	if !optCalled {
		t.Fatalf("expected NewServer option to be called")
	}
	if srv.Addr() != phttp.DefaultAddr {
		t.Fatalf("addr = %q want %q", srv.Addr(), phttp.DefaultAddr)
	}

	r := srv.Router()
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("bad response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewServer_AddrFromEnv(t *testing.T) {
	t.Setenv("CHURN_API_PORT", ":12345")
	srv := phttp.NewServer(config.New().Prefix("CHURN_API_"))
	if srv.Addr() != ":12345" {
		t.Fatalf("expected addr :12345, got %q", srv.Addr())
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	t.Setenv("CHURN_API_PORT", "127.0.0.1:0")
	srv := phttp.NewServer(config.New().Prefix("CHURN_API_"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, time.Second) }()

	// give the listener a moment to come up
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestServer_ShutdownReturnsNil(t *testing.T) {
	t.Setenv("CHURN_API_PORT", "127.0.0.1:0")
	srv := phttp.NewServer(config.New().Prefix("CHURN_API_"))

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), time.Second) }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after Shutdown")
	}
}

func TestServer_Run_ReturnsListenError(t *testing.T) {
	t.Setenv("CHURN_API_PORT", "127.0.0.1:abc") // invalid TCP port; net.Listen will fail
	srv := phttp.NewServer(config.New().Prefix("CHURN_API_"))

	if err := srv.Run(context.Background(), time.Second); err == nil {
		t.Fatalf("expected Run to return an error for invalid addr, got nil")
	}
}

package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type inDTO struct {
	N *int `json:"n" validate:"required,min=0"`
}

func TestJSONHandler_Success(t *testing.T) {
	t.Parallel()

	h := JSONHandler[inDTO](func(_ *http.Request, in inDTO) (any, error) {
		return map[string]int{"doubled": *in.N * 2}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"n":7}`))
	rr := httptest.NewRecorder()
	h(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"data":{"doubled":14}`) {
		t.Fatalf("body %q missing enveloped result", rr.Body.String())
	}
}

func TestRawJSONHandler_Success(t *testing.T) {
	t.Parallel()

	h := RawJSONHandler[inDTO](func(_ *http.Request, in inDTO) (any, error) {
		return map[string]int{"n": *in.N}, nil
	})

	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"n":3}`)))

	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != `{"n":3}` {
		t.Fatalf("got %d %q", rr.Code, rr.Body.String())
	}
}

func TestJSONHandler_BindErrors(t *testing.T) {
	t.Parallel()

	h := RawJSONHandler[inDTO](func(_ *http.Request, _ inDTO) (any, error) {
		t.Fatal("handler should not be called on bind error")
		return nil, nil
	})

	tests := []struct {
		body      string
		wantField string
	}{
		{`{`, ""},
		{`{"n":-1}`, `"field":"n"`},
		{`{}`, `"field":"n"`},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(tc.body)))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.body, rr.Code)
		}
		if tc.wantField != "" && !strings.Contains(rr.Body.String(), tc.wantField) {
			t.Fatalf("%s: body %q missing %s", tc.body, rr.Body.String(), tc.wantField)
		}
	}
}

func TestJSONHandler_HandlerError(t *testing.T) {
	t.Parallel()

	h := JSONHandler[inDTO](func(_ *http.Request, _ inDTO) (any, error) {
		return nil, errors.New("boom")
	})

	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"n":1}`)))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on handler error, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "boom") {
		t.Fatalf("expected error message in body, got %q", rr.Body.String())
	}
}

func TestJSONHandlerNoBody(t *testing.T) {
	t.Parallel()

	h := JSONHandlerNoBody(func(*http.Request) (any, error) { return "ok", nil })
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"data":"ok"`) {
		t.Fatalf("got %d %q", rr.Code, rr.Body.String())
	}
}

package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "genaidash/internal/errors"
	"genaidash/internal/infrastructure"
	"genaidash/internal/shared/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "generated", header: ""},
		{name: "propagated", header: "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var chiID, traceID string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				chiID = chimw.GetReqID(r.Context())
				traceID = infrastructure.GetTraceID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.NotEmpty(t, chiID)
			assert.Equal(t, chiID, traceID)
			assert.Equal(t, chiID, rec.Header().Get(RequestIDHeader))
			if tt.header != "" {
				assert.Equal(t, tt.header, chiID)
			}
		})
	}
}

func TestStructuredLogger(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	h := StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "request completed")
	testutil.AssertLogAttr(t, logs, "status", int64(http.StatusTeapot))
	testutil.AssertLogAttr(t, logs, "component", "http")
}

func TestRecoverer(t *testing.T) {
	handler := apperrors.NewErrorHandler(discardLogger(), false)
	h := Recoverer(handler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.TypeInternal, body["type"])
}

func TestRateLimiter(t *testing.T) {
	handler := apperrors.NewErrorHandler(discardLogger(), false)
	logger, logs := testutil.NewTestLogger(t)
	rl := NewRateLimiter(1, 2, handler, logger)

	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:1001").Code)

	limited := send("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "rate limit exceeded")

	// another client has its own bucket
	assert.Equal(t, http.StatusNoContent, send("10.0.0.2:1000").Code)
}

func TestRateLimiter_IdleSweep(t *testing.T) {
	rl := NewRateLimiter(1, 1, apperrors.NewErrorHandler(discardLogger(), false), discardLogger())
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.Allow("a"))
	clock = clock.Add(5 * time.Minute)
	assert.True(t, rl.Allow("b"))
	assert.Len(t, rl.clients, 2)

	// "a" is idle but the window since the last sweep has not passed
	clock = clock.Add(4 * time.Minute)
	assert.True(t, rl.Allow("c"))
	assert.Len(t, rl.clients, 3)

	clock = clock.Add(time.Minute)
	assert.True(t, rl.Allow("c"))
	assert.Len(t, rl.clients, 2, "idle client swept")
	assert.NotContains(t, rl.clients, "a")
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestOTelMiddleware_RoutePattern(t *testing.T) {
	var route string
	r := chi.NewRouter()
	r.Use(NewOTelMiddleware(nil, nil).Handler)
	r.Get("/api/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.With(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			route = routePattern(r)
		})
	}).Get("/api/other", func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/other", nil))
	assert.Equal(t, "/api/other", route)
}

type sample struct {
	Sources []string `json:"sources" validate:"required,min=1,dive,required"`
}

func TestRequestValidator_Decode(t *testing.T) {
	v := NewRequestValidator(discardLogger(), apperrors.NewErrorHandler(discardLogger(), false))

	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantField  string
	}{
		{name: "valid", body: `{"sources":["a.csv"]}`, wantOK: true},
		{name: "malformed json", body: `{"sources":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"sources":["a.csv"],"x":1}`, wantStatus: http.StatusBadRequest},
		{name: "empty list", body: `{"sources":[]}`, wantStatus: http.StatusBadRequest, wantField: "sources"},
		{name: "blank entry", body: `{"sources":[""]}`, wantStatus: http.StatusBadRequest, wantField: "sources[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var dst sample
			ok := v.Decode(rec, req, &dst)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, []string{"a.csv"}, dst.Sources)
				return
			}

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantField != "" {
				assert.Contains(t, rec.Body.String(), `"field":"`+tt.wantField+`"`)
			}
		})
	}
}

func TestRequestValidator_QueryInt(t *testing.T) {
	v := NewRequestValidator(discardLogger(), apperrors.NewErrorHandler(discardLogger(), false))

	tests := []struct {
		name   string
		query  string
		want   int
		wantOK bool
	}{
		{name: "default", query: "", want: 50, wantOK: true},
		{name: "in range", query: "?limit=10", want: 10, wantOK: true},
		{name: "not a number", query: "?limit=ten"},
		{name: "too large", query: "?limit=501"},
		{name: "zero", query: "?limit=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			got, ok := v.QueryInt(rec, httptest.NewRequest(http.MethodGet, "/"+tt.query, nil), "limit", 1, 500, 50)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestContentTypeValidator(t *testing.T) {
	h := ContentTypeValidator("application/json")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a,b"))
	req.Header.Set("Content-Type", "text/csv")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorsMiddleware(t *testing.T) {
	tests := []struct {
		name              string
		method            string
		allowedOrigins    []string
		requestOrigin     string
		expectAllowOrigin string
	}{
		{
			name:              "allowed origin",
			allowedOrigins:    []string{"https://claude.ai", "https://example.com"},
			requestOrigin:     "https://claude.ai",
			expectAllowOrigin: "https://claude.ai",
		},
		{
			name:              "disallowed origin",
			allowedOrigins:    []string{"https://claude.ai", "https://example.com"},
			requestOrigin:     "https://evil.com",
			expectAllowOrigin: "",
		},
		{
			name:              "no origin header",
			allowedOrigins:    []string{"https://claude.ai"},
			requestOrigin:     "",
			expectAllowOrigin: "",
		},
		{
			name:              "empty allowed origins with origin",
			allowedOrigins:    []string{},
			requestOrigin:     "https://claude.ai",
			expectAllowOrigin: "*",
		},
		{
			name:              "empty allowed origins no origin",
			allowedOrigins:    nil,
			requestOrigin:     "",
			expectAllowOrigin: "*",
		},
		{
			name:              "preflight request",
			method:            http.MethodOptions,
			allowedOrigins:    []string{"https://claude.ai"},
			requestOrigin:     "https://claude.ai",
			expectAllowOrigin: "https://claude.ai",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusTeapot)
			})

			corsHandler := NewCORSMiddleware(tt.allowedOrigins)(handler)

			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req := httptest.NewRequest(method, "/test", nil)
			if tt.requestOrigin != "" {
				req.Header.Set("Origin", tt.requestOrigin)
			}

			rr := httptest.NewRecorder()
			corsHandler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectAllowOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
			assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Mcp-Session-Id")
			assert.Equal(t, "Mcp-Session-Id", rr.Header().Get("Access-Control-Expose-Headers"))
			assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))

			if method == http.MethodOptions {
				assert.Equal(t, http.StatusOK, rr.Code)
				assert.False(t, called, "preflight must not reach the handler")
			} else {
				assert.Equal(t, http.StatusTeapot, rr.Code)
				assert.True(t, called)
			}
		})
	}
}

func TestCorsMiddleware_CaseSensitivity(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	corsHandler := NewCORSMiddleware([]string{"https://Claude.AI"})(handler)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "https://claude.ai")

	rr := httptest.NewRecorder()
	corsHandler.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggerMiddleware_CapturesStatus(t *testing.T) {
	var seen *responseWriterDelegator
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = w.(*responseWriterDelegator)
		w.WriteHeader(http.StatusAccepted)
		w.WriteHeader(http.StatusInternalServerError) // ignored
		_, _ = w.Write([]byte("hello"))
	})

	rr := httptest.NewRecorder()
	NewLoggerMiddleware("test")(handler).ServeHTTP(rr, httptest.NewRequest("GET", "/x?y=1", nil))

	require.NotNil(t, seen)
	assert.Equal(t, http.StatusAccepted, seen.Status())
	assert.Equal(t, 5, seen.BytesWritten())
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "hello", rr.Body.String())
}

func TestRecoverMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	NewRecoverMiddleware("test")(handler).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "internal_server_error", body["error"])
}

func TestChainMiddleware_Order(t *testing.T) {
	var order []string
	mw := func(name string) MiddlewareFunc {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := ChainMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("inner"), mw("outer"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

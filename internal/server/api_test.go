package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgellow/perfectemail/internal/config"
	"github.com/dgellow/perfectemail/internal/disposable"
)

func newTestHandler() http.Handler {
	return NewHandler(HandlerConfig{
		Name:      "perfectemail",
		Version:   "test",
		Transport: config.TransportStreamable,
		API:       NewAPI(disposable.New("burner.test")),
	})
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestAPI(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		want       map[string]any
	}{
		{
			name:       "validate_ok",
			path:       "/v1/validate",
			body:       `{"email": "user@example.com"}`,
			wantStatus: http.StatusOK,
			want:       map[string]any{"email": "user@example.com", "valid": true},
		},
		{
			name:       "validate_rejects_untrimmed",
			path:       "/v1/validate",
			body:       `{"email": " user@example.com"}`,
			wantStatus: http.StatusOK,
			want:       map[string]any{"email": " user@example.com", "valid": false},
		},
		{
			name:       "normalize",
			path:       "/v1/normalize",
			body:       `{"email": "  John.Doe+x@Example.COM "}`,
			wantStatus: http.StatusOK,
			want:       map[string]any{"input": "  John.Doe+x@Example.COM ", "normalized": "john.doe@example.com"},
		},
		{
			name:       "normalize_invalid",
			path:       "/v1/normalize",
			body:       `{"email": "bad"}`,
			wantStatus: http.StatusUnprocessableEntity,
			want:       map[string]any{"error": "invalid_email", "message": "invalid argument: invalid email format"},
		},
		{
			name:       "normalize_blank",
			path:       "/v1/normalize",
			body:       `{"email": "   "}`,
			wantStatus: http.StatusUnprocessableEntity,
			want:       map[string]any{"error": "invalid_email", "message": "invalid argument: email is empty"},
		},
		{
			name:       "fix_exact",
			path:       "/v1/fix",
			body:       `{"email": "alice@gmial.com"}`,
			wantStatus: http.StatusOK,
			want:       map[string]any{"input": "alice@gmial.com", "fixed": "alice@gmail.com", "changed": true, "match": "exact"},
		},
		{
			name:       "fix_unknown_domain",
			path:       "/v1/fix",
			body:       `{"email": "dave@example.com"}`,
			wantStatus: http.StatusOK,
			want:       map[string]any{"input": "dave@example.com", "fixed": "dave@example.com", "changed": false, "match": "none"},
		},
		{
			name:       "disposable_extra_domain",
			path:       "/v1/disposable",
			body:       `{"email": "me@Burner.test"}`,
			wantStatus: http.StatusOK,
			want:       map[string]any{"input": "me@Burner.test", "disposable": true},
		},
		{
			name:       "missing_email",
			path:       "/v1/fix",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"error": "bad_request", "message": "email: non zero value required"},
		},
	}

	h := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.want, decodeBody(t, w))
		})
	}
}

func TestAPI_MalformedBody(t *testing.T) {
	w := post(t, newTestHandler(), "/v1/validate", `{"email": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "bad_request", body["error"])
	assert.Contains(t, body["message"], "invalid JSON body")
}

func TestAPI_BodyTooLarge(t *testing.T) {
	big := `{"email": "` + strings.Repeat("a", maxRequestBody) + `"}`
	w := post(t, newTestHandler(), "/v1/validate", big)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

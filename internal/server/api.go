package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dgellow/perfectemail/emailutil"
	"github.com/dgellow/perfectemail/internal/disposable"
	jsonwriter "github.com/dgellow/perfectemail/internal/json"
	"github.com/dgellow/perfectemail/internal/validation"
)

const maxRequestBody = 64 << 10

// API serves the single-address operations as plain JSON endpoints.
type API struct {
	disposable *disposable.Checker
}

// NewAPI creates the JSON API handlers.
func NewAPI(checker *disposable.Checker) *API {
	if checker == nil {
		checker = disposable.New()
	}
	return &API{disposable: checker}
}

// Register mounts the API routes on mux under /v1.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/validate", a.handleValidate)
	mux.HandleFunc("POST /v1/normalize", a.handleNormalize)
	mux.HandleFunc("POST /v1/fix", a.handleFix)
	mux.HandleFunc("POST /v1/disposable", a.handleDisposable)
}

type emailRequest struct {
	Email string `json:"email" valid:"required"`
}

type validateResponse struct {
	Email string `json:"email"`
	Valid bool   `json:"valid"`
}

type normalizeResponse struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
}

type fixResponse struct {
	Input   string `json:"input"`
	Fixed   string `json:"fixed"`
	Changed bool   `json:"changed"`
	Match   string `json:"match"`
}

type disposableResponse struct {
	Input      string `json:"input"`
	Disposable bool   `json:"disposable"`
}

func (a *API) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}
	_ = jsonwriter.Write(w, validateResponse{Email: req.Email, Valid: emailutil.IsValid(req.Email)})
}

func (a *API) handleNormalize(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}
	normalized, err := emailutil.Normalize(req.Email)
	if err != nil {
		writeEmailError(w, err)
		return
	}
	_ = jsonwriter.Write(w, normalizeResponse{Input: req.Email, Normalized: normalized})
}

func (a *API) handleFix(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}
	s, err := emailutil.Suggest(req.Email)
	if err != nil {
		writeEmailError(w, err)
		return
	}
	_ = jsonwriter.Write(w, fixResponse{
		Input:   req.Email,
		Fixed:   s.Email,
		Changed: s.Changed(),
		Match:   s.Kind.String(),
	})
}

func (a *API) handleDisposable(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeEmailRequest(w, r)
	if !ok {
		return
	}
	_ = jsonwriter.Write(w, disposableResponse{Input: req.Email, Disposable: a.disposable.IsDisposableEmail(req.Email)})
}

// decodeEmailRequest reads and checks the request body, writing a 400 and
// returning false when it is unusable.
func decodeEmailRequest(w http.ResponseWriter, r *http.Request) (emailRequest, bool) {
	var req emailRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		jsonwriter.WriteBadRequest(w, fmt.Sprintf("invalid JSON body: %v", err))
		return emailRequest{}, false
	}
	if err := validation.Struct(req); err != nil {
		jsonwriter.WriteBadRequest(w, describeFieldErrors(err))
		return emailRequest{}, false
	}
	return req, true
}

func describeFieldErrors(err error) string {
	fields := validation.FieldErrors(err)
	if len(fields) == 0 {
		return err.Error()
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = strings.ToLower(name) + ": " + fields[name]
	}
	return strings.Join(parts, "; ")
}

func writeEmailError(w http.ResponseWriter, err error) {
	if errors.Is(err, emailutil.ErrInvalidArgument) {
		jsonwriter.WriteUnprocessable(w, "invalid_email", err.Error())
		return
	}
	jsonwriter.WriteInternalServerError(w, err.Error())
}

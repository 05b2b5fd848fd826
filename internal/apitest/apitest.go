// Package apitest provides an in-process fake of the authentication service and the
// portfolio API, for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Request is a request received by the Backend.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          string
}

// Backend serves POST /login, GET /portfolio and GET /portfolio/{id}/nav.
type Backend struct {
	Username string
	Password string
	Token    string // returned on a successful login

	Portfolios string            // body of GET /portfolio
	Details    map[string]string // body of GET /portfolio/{id}/nav, by id

	mu       sync.Mutex
	requests []Request
}

// Start serves the backend until the end of the test, and returns the server.
func (b *Backend) Start(tb testing.TB) *httptest.Server {
	srv := httptest.NewServer(b.Router())
	tb.Cleanup(srv.Close)
	return srv
}

// Router returns the chi router implementing the backend.
func (b *Backend) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)
	r.Post("/login", b.login)
	r.Get("/portfolio", b.portfolios)
	r.Get("/portfolio/{id}/nav", b.nav)
	return r
}

// Requests returns the requests received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns the number of requests received for path.
func (b *Backend) Count(path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          string(body),
		})
		b.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}
	if creds.Username != b.Username || creds.Password != b.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": b.Token})
}

func (b *Backend) portfolios(w http.ResponseWriter, r *http.Request) {
	body := b.Portfolios
	if body == "" {
		body = "[]"
	}
	writeRaw(w, http.StatusOK, body)
}

func (b *Backend) nav(w http.ResponseWriter, r *http.Request) {
	body, ok := b.Details[chi.URLParam(r, "id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "portfolio not found"})
		return
	}
	writeRaw(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, _ := json.Marshal(v)
	writeRaw(w, status, string(data))
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

// Package testutil provides shared test helpers, chiefly an in-process fake
// of the Shlink short-URL API.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// CreateCall records one POST /short-urls request.
type CreateCall struct {
	LongURL      string
	FindIfExists bool
}

// UpdateCall records one PATCH /short-urls/{code} request.
type UpdateCall struct {
	Code    string
	LongURL string
}

// ShlinkServer is a fake Shlink instance backed by httptest. It mints
// sequential short codes, honors findIfExists, and records every call.
type ShlinkServer struct {
	*httptest.Server
	APIKey string

	mu      sync.Mutex
	creates []CreateCall
	updates []UpdateCall
	byLong  map[string]string
	byCode  map[string]string
	next    int
}

// NewShlinkServer starts a fake Shlink requiring apiKey on every request.
// The server is shut down automatically when the test ends.
func NewShlinkServer(t *testing.T, apiKey string) *ShlinkServer {
	t.Helper()
	s := &ShlinkServer{
		APIKey: apiKey,
		byLong: make(map[string]string),
		byCode: make(map[string]string),
	}

	r := chi.NewRouter()
	r.Post("/short-urls", s.handleCreate)
	r.Patch("/short-urls/{code}", s.handleUpdate)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Server.Close)
	return s
}

func (s *ShlinkServer) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("X-Api-Key") != s.APIKey {
		http.Error(w, `{"detail":"invalid API key"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

func (s *ShlinkServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	var body struct {
		LongURL      string `json:"longUrl"`
		FindIfExists bool   `json:"findIfExists"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"detail":"malformed body"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, CreateCall{LongURL: body.LongURL, FindIfExists: body.FindIfExists})

	code, found := s.byLong[body.LongURL]
	if !found || !body.FindIfExists {
		s.next++
		code = fmt.Sprintf("c%d", s.next)
		s.byCode[code] = body.LongURL
		s.byLong[body.LongURL] = code
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"shortUrl": s.Server.URL + "/" + code})
}

func (s *ShlinkServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	code := chi.URLParam(r, "code")
	var body struct {
		LongURL string `json:"longUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"detail":"malformed body"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byCode[code]; !ok {
		http.Error(w, `{"detail":"short URL not found"}`, http.StatusNotFound)
		return
	}
	s.byCode[code] = body.LongURL
	s.updates = append(s.updates, UpdateCall{Code: code, LongURL: body.LongURL})
	w.WriteHeader(http.StatusNoContent)
}

// Creates returns a copy of the recorded create calls.
func (s *ShlinkServer) Creates() []CreateCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CreateCall(nil), s.creates...)
}

// Updates returns a copy of the recorded update calls.
func (s *ShlinkServer) Updates() []UpdateCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UpdateCall(nil), s.updates...)
}

// Calls returns the total number of recorded registry calls.
func (s *ShlinkServer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.creates) + len(s.updates)
}

// LongFor returns the long URL a short URL currently points at.
func (s *ShlinkServer) LongFor(shortURL string) string {
	code := shortURL
	if i := strings.LastIndexByte(code, '/'); i >= 0 {
		code = code[i+1:]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byCode[code]
}

// Package stubapi provides an in-memory stand-in for the remote waitlist
// service, for local development and tests. Nothing is persisted.
package stubapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/waitlist/internal/waitlist"
)

// Entry is one waitlist row.
type Entry struct {
	FID             int    `json:"fid"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	VerifiedAccount bool   `json:"verified_account"`
	VerifiedChannel bool   `json:"verified_channel"`
}

// Verified reports whether both flags are set.
func (e Entry) Verified() bool {
	return e.VerifiedAccount && e.VerifiedChannel
}

// SubmitResponse is the body returned for an accepted submission.
type SubmitResponse struct {
	Success bool  `json:"success"`
	User    Entry `json:"user"`
	IsNew   bool  `json:"isNew"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server is the in-memory waitlist service.
type Server struct {
	mu      sync.RWMutex
	entries map[int]Entry
	logger  *slog.Logger
}

// New creates an empty stub service.
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		entries: make(map[int]Entry),
		logger:  logger,
	}
}

// Handler returns the service's HTTP handler. It serves the endpoint root.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(corsHeaders)
	r.Options("/", s.handlePreflight)
	r.Get("/", s.handleStats)
	r.Post("/", s.handleSubmit)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})
	return r
}

// Stats returns the current counters.
func (s *Server) Stats() waitlist.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := waitlist.Stats{Total: len(s.entries)}
	for _, e := range s.entries {
		if e.Verified() {
			stats.Verified++
		}
	}
	return stats
}

// Entries returns all rows ordered by fid.
func (s *Server) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FID < out[j].FID })
	return out
}

// Upsert inserts or replaces the entry keyed by its fid and reports whether
// it was new.
func (s *Server) Upsert(e Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.entries[e.FID]
	s.entries[e.FID] = e
	return !existed
}

func (s *Server) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, X-User-Id")
	h.Set("Access-Control-Max-Age", "86400")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Stats())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var rec waitlist.UserRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if rec.ID == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "FID is required"})
		return
	}

	entry := Entry{
		FID:             rec.ID,
		Username:        rec.Handle,
		DisplayName:     rec.DisplayName,
		VerifiedAccount: rec.AccountVerified,
		VerifiedChannel: rec.ChannelVerified,
	}
	isNew := s.Upsert(entry)
	s.logger.Debug("stub waitlist upsert", "fid", entry.FID, "new", isNew)

	writeJSON(w, http.StatusOK, SubmitResponse{Success: true, User: entry, IsNew: isNew})
}

func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

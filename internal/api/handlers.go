package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"stoicbot/internal/index"
	"stoicbot/internal/library"
	"stoicbot/internal/segment"
)

// handleTodayEntry returns the entry for the server's current date.
func (s *Server) handleTodayEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lib.TodayEntry(time.Now())
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleEntryByDate returns the entry for an exact date label, e.g.
// "January 1". Duplicate dates resolve first-wins.
func (s *Server) handleEntryByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	entry, err := s.lib.EntryByDate(date)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleSearchTopic returns entries matching a topic term. No match is
// an empty list, not an error.
func (s *Server) handleSearchTopic(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("topic")
	if term == "" {
		jsonError(w, "topic query parameter is required", http.StatusBadRequest)
		return
	}

	entries, err := s.lib.SearchTopic(term)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if entries == nil {
		entries = []segment.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"topic":   term,
		"count":   len(entries),
		"entries": entries,
	})
}

// handleReload re-parses the configured document and atomically swaps
// the published collection. A failed reload leaves the previous
// collection serving queries.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.lib.Reload(s.cfg.BookPath); err != nil {
		s.log.Error("reload failed", "path", s.cfg.BookPath, "error", err)
		jsonError(w, "reload failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, s.lib.Stats())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.lib.Stats())
}

// writeQueryError maps query-level errors to status codes: a missing
// entry is 404, an unloaded library is 503.
func writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, index.ErrNotFound):
		jsonError(w, "no entry for that date", http.StatusNotFound)
	case errors.Is(err, library.ErrNotLoaded):
		jsonError(w, "no document loaded yet", http.StatusServiceUnavailable)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Package server exposes the conversation catalog over HTTP: a paged
// listing, full-text search, detail records, and audio streaming.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/quellen/murmur/internal/conversation"
	"github.com/quellen/murmur/internal/debuglog"
	"github.com/quellen/murmur/internal/index"
)

const (
	defaultPageSize = 30
	maxPageSize     = 100
)

type Server struct {
	ix  *index.Index
	mux *http.ServeMux
}

func New(ix *index.Index) *Server {
	s := &Server{ix: ix, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /conversations", s.handleList)
	s.mux.HandleFunc("GET /conversations/search", s.handleSearch)
	s.mux.HandleFunc("GET /conversations/{id}", s.handleGet)
	s.mux.HandleFunc("GET /conversations/{id}/audio/{version}", s.handleAudio)
	s.mux.HandleFunc("POST /index/sync", s.handleSync)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	debuglog.Debugf("%s %s (%s)", r.Method, r.URL.RequestURI(), time.Since(start))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debuglog.Errorf("Encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}

// pageParams reads page, page_size and the optional epoch bounds. A bad
// value is a client error, not a silent default.
func pageParams(r *http.Request) (page, pageSize int, start, end *int64, err error) {
	page, pageSize = 1, defaultPageSize

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, nil, nil, fmt.Errorf("invalid page %q", raw)
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize < 1 || pageSize > maxPageSize {
			return 0, 0, nil, nil, fmt.Errorf("invalid page_size %q", raw)
		}
	}
	for name, dst := range map[string]**int64{"start_timestamp": &start, "end_timestamp": &end} {
		if raw := r.URL.Query().Get(name); raw != "" {
			ts, parseErr := strconv.ParseInt(raw, 10, 64)
			if parseErr != nil {
				return 0, 0, nil, nil, fmt.Errorf("invalid %s %q", name, raw)
			}
			*dst = &ts
		}
	}
	return page, pageSize, start, end, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"syncing": s.ix.Syncing(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page, pageSize, start, end, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	writeJSON(w, http.StatusOK, s.ix.List(page, pageSize, start, end))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	page, pageSize, start, end, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	env, err := s.ix.Search(query, page, pageSize, start, end)
	if err != nil {
		debuglog.Errorf("Search %q: %v", query, err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if env.Items == nil {
		env.Items = []conversation.Summary{}
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	conv, ok := s.ix.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "conversation %s not found", id)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	id, version := r.PathValue("id"), r.PathValue("version")
	path, ok := s.ix.AudioPath(id, version)
	if !ok {
		writeError(w, http.StatusNotFound, "no audio for conversation %s version %s", id, version)
		return
	}
	// ServeFile handles range requests, which players rely on for seeking.
	http.ServeFile(w, r, path)
}

func (s *Server) handleSync(w http.ResponseWriter, _ *http.Request) {
	if err := s.ix.Sync(); err != nil {
		if err == index.ErrSyncRunning {
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "already running"})
			return
		}
		debuglog.Errorf("Index sync: %v", err)
		writeError(w, http.StatusInternalServerError, "sync failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "synced"})
}

// ListenAndServe runs the server until the listener fails.
func ListenAndServe(addr string, ix *index.Index) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      New(ix),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	debuglog.Infof("Serving on %s", addr)
	return srv.ListenAndServe()
}

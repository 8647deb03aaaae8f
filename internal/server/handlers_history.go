package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-profile/internal/types"
)

// handleTailor generates a résumé for a job and records it in the profile's history.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w, r) {
		return
	}
	id, ok := s.pathUUID(w, r, "id", "profile")
	if !ok {
		return
	}

	var req types.TailorRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "job_description is required and job_title must be at most 200 characters")
		return
	}

	record, ok := s.loadProfile(w, r, id)
	if !ok {
		return
	}

	entry, err := s.tailor.Generate(r.Context(), &record.Profile, req.JobTitle, req.JobDescription)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.store.AppendHistory(r.Context(), id, entry); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, entry)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id", "profile")
	if !ok {
		return
	}
	if _, ok := s.loadProfile(w, r, id); !ok {
		return
	}

	entries, err := s.store.ListHistory(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []types.GenerationHistoryEntry{}
	}
	s.jsonResponse(w, http.StatusOK, entries)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id", "profile")
	if !ok {
		return
	}

	deleted, err := s.store.ClearHistory(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (s *Server) handleDeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id", "history entry")
	if !ok {
		return
	}
	if err := s.store.DeleteHistoryEntry(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

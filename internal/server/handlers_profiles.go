package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-profile/internal/db"
	"github.com/jonathan/resume-profile/internal/schemas"
	"github.com/jonathan/resume-profile/internal/types"
)

// maxJSONBodyBytes caps JSON request bodies.
const maxJSONBodyBytes = 2 << 20

// pathUUID parses a UUID path value, writing a 400 when it is malformed.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// loadProfile fetches a profile, writing a 404 when it does not exist.
func (s *Server) loadProfile(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*db.ProfileRecord, bool) {
	record, err := s.store.GetProfile(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return nil, false
	}
	if record == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "profile", ID: id.String()})
		return nil, false
	}
	return record, true
}

// decodeProfileBody reads a CoreProfile body and validates it against the
// core profile schema before decoding.
func (s *Server) decodeProfileBody(w http.ResponseWriter, r *http.Request) (*types.CoreProfile, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err != nil {
		s.handleError(w, r, err)
		return nil, false
	}
	if err := schemas.ValidateCoreProfile(string(body)); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			s.jsonResponse(w, http.StatusBadRequest, map[string]any{
				"error":  "Invalid profile",
				"fields": validationErr.Errors,
			})
			return nil, false
		}
		s.handleError(w, r, err)
		return nil, false
	}

	var profile types.CoreProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	profile.Normalize()
	return &profile, true
}

// requireAI writes a 503 when no LLM client is configured.
func (s *Server) requireAI(w http.ResponseWriter, r *http.Request) bool {
	if s.llm == nil {
		s.handleError(w, r, ErrAIUnavailable)
		return false
	}
	return true
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.decodeProfileBody(w, r)
	if !ok {
		return
	}

	record, err := s.store.CreateProfile(r.Context(), profile)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, record)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id", "profile")
	if !ok {
		return
	}
	record, ok := s.loadProfile(w, r, id)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id", "profile")
	if !ok {
		return
	}
	profile, ok := s.decodeProfileBody(w, r)
	if !ok {
		return
	}

	record, err := s.store.UpdateProfile(r.Context(), id, profile)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id", "profile")
	if !ok {
		return
	}
	if err := s.store.DeleteProfile(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleMergeProfiles merges profiles supplied in the body without touching storage.
func (s *Server) handleMergeProfiles(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w, r) {
		return
	}

	var req types.MergeProfilesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "primary and at least one secondary profile are required")
		return
	}

	merged, err := s.reconciler.MergeProfiles(r.Context(), req.Primary, req.Secondaries)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, merged)
}

// handleEditProfile applies a natural-language edit and saves the result.
func (s *Server) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	if !s.requireAI(w, r) {
		return
	}
	id, ok := s.pathUUID(w, r, "id", "profile")
	if !ok {
		return
	}

	var req types.EditProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "instruction must be at least 3 characters")
		return
	}

	record, ok := s.loadProfile(w, r, id)
	if !ok {
		return
	}

	edited, err := s.reconciler.ApplyProfileEdit(r.Context(), &record.Profile, req.Instruction)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	updated, err := s.store.UpdateProfile(r.Context(), id, edited)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

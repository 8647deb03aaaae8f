package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-profile/internal/db"
	"github.com/jonathan/resume-profile/internal/ingestion"
	"github.com/jonathan/resume-profile/internal/pipeline"
	"github.com/jonathan/resume-profile/internal/storage"
)

// UploadResponse is returned after a résumé upload has been processed.
type UploadResponse struct {
	Document *db.Document      `json:"document"`
	Profile  *db.ProfileRecord `json:"profile"`
	Merged   bool              `json:"merged"`
}

// upload is a parsed multipart upload.
type upload struct {
	doc       pipeline.Document
	profileID *uuid.UUID
}

// readUpload reads the "file" part and the optional "profile_id" field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, tooLarge
		}
		return nil, &ErrValidation{Field: "file", Message: "expected a multipart form upload"}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, &ErrValidation{Field: "file", Message: "file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	u := &upload{doc: pipeline.Document{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}}

	if raw := r.FormValue("profile_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, &ErrValidation{Field: "profile_id", Message: "must be a UUID"}
		}
		u.profileID = &id
	}
	return u, nil
}

// processUpload runs the pipeline for one upload, merging into the target
// profile when one is given, then archives the file and persists the results.
// A file the target profile already holds is rejected before any AI call.
func (s *Server) processUpload(ctx context.Context, u *upload, onProgress pipeline.ProgressCallback) (*UploadResponse, error) {
	if s.llm == nil {
		return nil, ErrAIUnavailable
	}

	var existing *db.ProfileRecord
	if u.profileID != nil {
		var err error
		existing, err = s.store.GetProfile(ctx, *u.profileID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		if existing == nil {
			return nil, &ErrNotFound{Resource: "profile", ID: u.profileID.String()}
		}

		dup, err := s.store.FindDocumentByHash(ctx, existing.ID, ingestion.ContentHash(u.doc.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to check for duplicate upload: %w", err)
		}
		if dup != nil {
			return nil, &ErrConflict{Message: fmt.Sprintf("%s has already been processed for this profile", dup.FileName)}
		}
	}

	opts := pipeline.Options{
		Documents:   []pipeline.Document{u.doc},
		Client:      s.llm,
		Concurrency: s.concurrency,
		OnProgress:  onProgress,
		Out:         io.Discard,
		Metrics:     s.pipelineMetrics,
	}
	if existing != nil {
		opts.Existing = &existing.Profile
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	var record *db.ProfileRecord
	if existing != nil {
		record, err = s.store.UpdateProfile(ctx, existing.ID, result.Profile)
	} else {
		record, err = s.store.CreateProfile(ctx, result.Profile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	docResult := result.Documents[0]
	input := &db.DocumentCreateInput{
		ProfileID:   &record.ID,
		FileName:    docResult.Name,
		ContentType: docResult.Metadata.ContentType,
		SizeBytes:   docResult.Metadata.Size,
		ContentHash: docResult.Metadata.Hash,
		StorageKey:  s.archive(ctx, record.ID, u.doc, docResult.Metadata.ContentType, docResult.Metadata.Hash),
		RawText:     docResult.Text,
		Parsed:      docResult.Parsed,
	}
	document, err := s.store.SaveDocument(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	return &UploadResponse{Document: document, Profile: record, Merged: result.Merged}, nil
}

// archive stores the original file when object storage is configured. A
// failed upload is logged and the request carries on without an archive copy.
func (s *Server) archive(ctx context.Context, profileID uuid.UUID, doc pipeline.Document, contentType, hash string) *string {
	if s.storage == nil {
		return nil
	}

	key := storage.DocumentKey(profileID.String(), hash, doc.Name)
	_, err := s.storage.Put(ctx, key, bytes.NewReader(doc.Data), storage.PutObjectOptions{
		Size:        int64(len(doc.Data)),
		ContentType: contentType,
		Metadata:    map[string]string{"file-name": doc.Name},
	})
	if err != nil {
		log.Printf("Warning: failed to archive %s: %v", doc.Name, err)
		return nil
	}
	return &key
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp, err := s.processUpload(r.Context(), u, nil)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	status := http.StatusCreated
	if resp.Merged {
		status = http.StatusOK
	}
	s.jsonResponse(w, status, resp)
}

// handleUploadDocumentStream processes an upload and streams pipeline progress via SSE
func (s *Server) handleUploadDocumentStream(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := s.processUpload(r.Context(), u, func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	})
	if err != nil {
		if HTTPStatus(err) >= http.StatusInternalServerError {
			log.Printf("[%s] %s failed: %v", r.Method, r.URL.Path, err)
		}
		sse.WriteError(HTTPStatus(err), PublicMessage(err))
		return
	}
	sse.WriteComplete(resp)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id", "profile")
	if !ok {
		return
	}
	if _, ok := s.loadProfile(w, r, id); !ok {
		return
	}

	docs, err := s.store.ListDocuments(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if docs == nil {
		docs = []db.Document{}
	}
	s.jsonResponse(w, http.StatusOK, docs)
}

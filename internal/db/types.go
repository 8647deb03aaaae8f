package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-profile/internal/extraction"
	"github.com/jonathan/resume-profile/internal/types"
)

// ProfileRecord is a stored core profile
type ProfileRecord struct {
	ID        uuid.UUID         `json:"id"`
	Profile   types.CoreProfile `json:"profile"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Document is an uploaded résumé file and what was parsed from it
type Document struct {
	ID          uuid.UUID               `json:"id"`
	ProfileID   *uuid.UUID              `json:"profile_id,omitempty"`
	FileName    string                  `json:"file_name"`
	ContentType string                  `json:"content_type"`
	SizeBytes   int64                   `json:"size_bytes"`
	ContentHash string                  `json:"content_hash"`
	StorageKey  *string                 `json:"storage_key,omitempty"`
	RawText     string                  `json:"raw_text"`
	Parsed      extraction.ParsedResume `json:"parsed"`
	CreatedAt   time.Time               `json:"created_at"`
}

// DocumentCreateInput holds the fields needed to record an upload
type DocumentCreateInput struct {
	ProfileID   *uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	ContentHash string
	StorageKey  *string
	RawText     string
	Parsed      extraction.ParsedResume
}

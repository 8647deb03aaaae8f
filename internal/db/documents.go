package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveDocument records an uploaded document
func (db *DB) SaveDocument(ctx context.Context, input *DocumentCreateInput) (*Document, error) {
	parsed, err := json.Marshal(input.Parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parsed resume: %w", err)
	}

	doc := Document{
		ID:          uuid.New(),
		ProfileID:   input.ProfileID,
		FileName:    input.FileName,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		ContentHash: input.ContentHash,
		StorageKey:  input.StorageKey,
		RawText:     input.RawText,
		Parsed:      input.Parsed,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resume_documents
		   (id, profile_id, file_name, content_type, size_bytes, content_hash, storage_key, raw_text, parsed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		doc.ID, doc.ProfileID, doc.FileName, doc.ContentType, doc.SizeBytes,
		doc.ContentHash, doc.StorageKey, doc.RawText, parsed,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	return &doc, nil
}

// FindDocumentByHash returns the profile's document with the given content
// hash. Returns nil, nil when the profile has no such document.
func (db *DB) FindDocumentByHash(ctx context.Context, profileID uuid.UUID, hash string) (*Document, error) {
	var doc Document
	var parsed []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, profile_id, file_name, content_type, size_bytes, content_hash, storage_key, raw_text, parsed, created_at
		 FROM resume_documents WHERE profile_id = $1 AND content_hash = $2
		 ORDER BY created_at ASC LIMIT 1`,
		profileID, hash,
	).Scan(&doc.ID, &doc.ProfileID, &doc.FileName, &doc.ContentType, &doc.SizeBytes,
		&doc.ContentHash, &doc.StorageKey, &doc.RawText, &parsed, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	if err := json.Unmarshal(parsed, &doc.Parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parsed resume: %w", err)
	}
	return &doc, nil
}

// ListDocuments returns the documents attached to a profile, oldest first
func (db *DB) ListDocuments(ctx context.Context, profileID uuid.UUID) ([]Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, file_name, content_type, size_bytes, content_hash, storage_key, raw_text, parsed, created_at
		 FROM resume_documents WHERE profile_id = $1 ORDER BY created_at ASC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		var parsed []byte
		if err := rows.Scan(&doc.ID, &doc.ProfileID, &doc.FileName, &doc.ContentType, &doc.SizeBytes,
			&doc.ContentHash, &doc.StorageKey, &doc.RawText, &parsed, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if err := json.Unmarshal(parsed, &doc.Parsed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal parsed resume: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

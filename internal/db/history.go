package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-profile/internal/types"
)

// AppendHistory stores a generation history entry for a profile. Entries
// are immutable once written.
func (db *DB) AppendHistory(ctx context.Context, profileID uuid.UUID, entry *types.GenerationHistoryEntry) error {
	id, err := uuid.Parse(entry.ID)
	if err != nil {
		return fmt.Errorf("invalid history entry id %q: %w", entry.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid history entry timestamp %q: %w", entry.Timestamp, err)
	}
	snapshot, err := json.Marshal(entry.CoreProfileSnapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal profile snapshot: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO generation_history
		   (id, profile_id, job_title, job_description, generated_resume, profile_snapshot, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, profileID, entry.JobTitle, entry.JobDescription, entry.GeneratedResume, snapshot, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// ListHistory returns the history of a profile, newest first
func (db *DB) ListHistory(ctx context.Context, profileID uuid.UUID) ([]types.GenerationHistoryEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_title, job_description, generated_resume, profile_snapshot, created_at
		 FROM generation_history WHERE profile_id = $1 ORDER BY created_at DESC, id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := []types.GenerationHistoryEntry{}
	for rows.Next() {
		var (
			entry     types.GenerationHistoryEntry
			id        uuid.UUID
			snapshot  []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &entry.JobTitle, &entry.JobDescription, &entry.GeneratedResume, &snapshot, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if err := unmarshalProfile(snapshot, &entry.CoreProfileSnapshot); err != nil {
			return nil, err
		}
		entry.ID = id.String()
		entry.Timestamp = createdAt.UTC().Format(time.RFC3339)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// DeleteHistoryEntry removes one entry. Returns ErrNotFound for unknown IDs.
func (db *DB) DeleteHistoryEntry(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM generation_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearHistory removes every entry of a profile and returns how many were deleted
func (db *DB) ClearHistory(ctx context.Context, profileID uuid.UUID) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM generation_history WHERE profile_id = $1`, profileID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return tag.RowsAffected(), nil
}

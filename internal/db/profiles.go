package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-profile/internal/types"
)

// CreateProfile stores a new core profile and returns the record
func (db *DB) CreateProfile(ctx context.Context, profile *types.CoreProfile) (*ProfileRecord, error) {
	content, err := marshalProfile(profile)
	if err != nil {
		return nil, err
	}

	var rec ProfileRecord
	var stored []byte
	err = db.pool.QueryRow(ctx,
		`INSERT INTO core_profiles (id, profile)
		 VALUES ($1, $2)
		 RETURNING id, profile, created_at, updated_at`,
		uuid.New(), content,
	).Scan(&rec.ID, &stored, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	if err := unmarshalProfile(stored, &rec.Profile); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetProfile retrieves a profile by ID. Returns nil, nil when it does not exist.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileRecord, error) {
	var rec ProfileRecord
	var stored []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, profile, created_at, updated_at FROM core_profiles WHERE id = $1`,
		id,
	).Scan(&rec.ID, &stored, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if err := unmarshalProfile(stored, &rec.Profile); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateProfile replaces the stored profile. Returns ErrNotFound for unknown IDs.
func (db *DB) UpdateProfile(ctx context.Context, id uuid.UUID, profile *types.CoreProfile) (*ProfileRecord, error) {
	content, err := marshalProfile(profile)
	if err != nil {
		return nil, err
	}

	var rec ProfileRecord
	var stored []byte
	err = db.pool.QueryRow(ctx,
		`UPDATE core_profiles SET profile = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, profile, created_at, updated_at`,
		id, content,
	).Scan(&rec.ID, &stored, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if err := unmarshalProfile(stored, &rec.Profile); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteProfile removes a profile together with its history. Documents are
// kept and detached from the profile.
func (db *DB) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM core_profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalProfile(profile *types.CoreProfile) ([]byte, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile is required")
	}
	normalized := *profile
	normalized.Normalize()
	content, err := json.Marshal(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	return content, nil
}

func unmarshalProfile(data []byte, out *types.CoreProfile) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	out.Normalize()
	return nil
}

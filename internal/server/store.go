package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/resume-profile/internal/db"
	"github.com/jonathan/resume-profile/internal/types"
)

// Store is the persistence used by the handlers. *db.DB implements it.
type Store interface {
	CreateProfile(ctx context.Context, profile *types.CoreProfile) (*db.ProfileRecord, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*db.ProfileRecord, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile *types.CoreProfile) (*db.ProfileRecord, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	SaveDocument(ctx context.Context, input *db.DocumentCreateInput) (*db.Document, error)
	ListDocuments(ctx context.Context, profileID uuid.UUID) ([]db.Document, error)
	FindDocumentByHash(ctx context.Context, profileID uuid.UUID, hash string) (*db.Document, error)

	AppendHistory(ctx context.Context, profileID uuid.UUID, entry *types.GenerationHistoryEntry) error
	ListHistory(ctx context.Context, profileID uuid.UUID) ([]types.GenerationHistoryEntry, error)
	DeleteHistoryEntry(ctx context.Context, id uuid.UUID) error
	ClearHistory(ctx context.Context, profileID uuid.UUID) (int64, error)

	Ping(ctx context.Context) error
	Close()
}

var _ Store = (*db.DB)(nil)

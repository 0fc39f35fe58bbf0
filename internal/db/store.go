package db

import (
	"context"

	"github.com/google/uuid"
)

// Store persists generation results.
//
// GetResult returns (nil, nil) when no result has the given id.
// ListResults returns the newest results first.
type Store interface {
	SaveResult(ctx context.Context, r *Result) error
	GetResult(ctx context.Context, id uuid.UUID) (*Result, error)
	ListResults(ctx context.Context, limit int) ([]ResultSummary, error)
	Close()
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*MemoryStore)(nil)
)

package draft

import (
	"context"

	"github.com/google/uuid"
)

// Store persists drafts. Get and Delete return ErrNotFound for unknown ids.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (Draft, error)
	Save(ctx context.Context, d Draft) error
	Delete(ctx context.Context, id uuid.UUID) error
}

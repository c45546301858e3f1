package season

import (
	"context"
	"errors"
)

// ErrMalformedStore marks a persisted collection that could not be parsed.
var ErrMalformedStore = errors.New("malformed store")

// Repository loads and saves the four league collections as one unit.
// Load must never observe a partially applied Save.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}

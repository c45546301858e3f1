package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/league-simulator/internal/domain/league"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
)

// SeasonRepository keeps the snapshot in process. Load and Save copy so
// callers never share state with the store.
type SeasonRepository struct {
	mu       sync.RWMutex
	snapshot season.Snapshot
}

func NewSeasonRepository(leagues []league.League) *SeasonRepository {
	return &SeasonRepository{
		snapshot: season.NewSnapshot(leagues).Clone(),
	}
}

func (r *SeasonRepository) Load(ctx context.Context) (season.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return season.Snapshot{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshot.Clone(), nil
}

func (r *SeasonRepository) Save(ctx context.Context, snapshot season.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	next := snapshot.Clone()
	next.Normalize()

	r.mu.Lock()
	r.snapshot = next
	r.mu.Unlock()
	return nil
}

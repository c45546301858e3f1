package cache

import (
	"context"

	"github.com/riskibarqy/league-simulator/internal/domain/season"
	basecache "github.com/riskibarqy/league-simulator/internal/platform/cache"
)

const snapshotKey = "season:snapshot"

// SeasonRepository keeps the last loaded snapshot in memory in front of a
// slower store. Every Save goes through and drops the cached copy.
type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store[season.Snapshot]
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store[season.Snapshot]) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) Load(ctx context.Context) (season.Snapshot, error) {
	snap, err := r.cache.GetOrLoad(ctx, snapshotKey, r.next.Load)
	if err != nil {
		return season.Snapshot{}, err
	}

	return snap.Clone(), nil
}

func (r *SeasonRepository) Save(ctx context.Context, snapshot season.Snapshot) error {
	defer r.cache.Purge(ctx)

	return r.next.Save(ctx, snapshot)
}

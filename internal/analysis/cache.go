package analysis

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/devledger/devledger/pkg/metrics"
)

// Record is a cached analysis keyed by its content hash. The mapping is
// append-only: one hash maps to at most one record, and a record may be
// referenced by many entities.
type Record struct {
	Hash      string
	Narrative string
	Score     int
	Breakdown ScoreBreakdown
}

// Store is the persistence contract the cache runs on. GetRecord returns
// nil when the hash is unknown. InsertRecord must be insert-if-absent:
// when a concurrent writer already inserted the hash, it returns the
// stored record instead of overwriting it.
type Store interface {
	GetRecord(ctx context.Context, hash string) (*Record, error)
	InsertRecord(ctx context.Context, record Record) (*Record, error)
}

type ComputeFunc func(ctx context.Context) (Record, error)

// Cache is the content-addressed analysis cache. Concurrent in-process
// callers for the same hash are coalesced with singleflight; cross-process
// races are resolved by the store's insert-if-absent semantics, where the
// first successful insert wins.
type Cache struct {
	store Store
	group singleflight.Group
}

func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

// GetOrCompute returns the record for hash, invoking compute only when no
// record exists yet. The compute function is never invoked on a hit, which
// guards the expensive scoring path against redundant work.
func (c *Cache) GetOrCompute(ctx context.Context, hash string, compute ComputeFunc) (*Record, error) {
	existing, err := c.store.GetRecord(ctx, hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		metrics.IncreaseAnalysisCache(metrics.CacheHit)
		return existing, nil
	}

	v, err, shared := c.group.Do(hash, func() (interface{}, error) {
		// Another process may have inserted between the miss and now.
		existing, err := c.store.GetRecord(ctx, hash)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			metrics.IncreaseAnalysisCache(metrics.CacheHit)
			return existing, nil
		}

		computed, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		computed.Hash = hash

		winner, err := c.store.InsertRecord(ctx, computed)
		if err != nil {
			return nil, err
		}
		if winner.Narrative != computed.Narrative || winner.Score != computed.Score {
			// Lost the insert race; adopt the winner's record.
			metrics.IncreaseAnalysisCache(metrics.CacheRaceLost)
		} else {
			metrics.IncreaseAnalysisCache(metrics.CacheMiss)
		}
		return winner, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		metrics.IncreaseAnalysisCache(metrics.CacheHit)
	}

	return v.(*Record), nil
}

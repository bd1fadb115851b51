package analysis

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore implements Store with insert-if-absent semantics.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]Record)}
}

func (s *memoryStore) GetRecord(ctx context.Context, hash string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[hash]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (s *memoryStore) InsertRecord(ctx context.Context, record Record) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if winner, ok := s.records[record.Hash]; ok {
		return &winner, nil
	}
	s.records[record.Hash] = record
	return &record, nil
}

func TestGetOrComputeInvokesComputeAtMostOnce(t *testing.T) {
	cache := NewCache(newMemoryStore())

	computeCalls := 0
	compute := func(ctx context.Context) (Record, error) {
		computeCalls++
		return Record{Narrative: "solid project", Score: 72}, nil
	}

	first, err := cache.GetOrCompute(context.Background(), "h1", compute)
	require.NoError(t, err)
	second, err := cache.GetOrCompute(context.Background(), "h1", compute)
	require.NoError(t, err)

	assert.Equal(t, 1, computeCalls)
	assert.Equal(t, first, second)
	assert.Equal(t, "h1", first.Hash)
}

func TestGetOrComputeCoalescesConcurrentCallers(t *testing.T) {
	cache := NewCache(newMemoryStore())

	var mu sync.Mutex
	computeCalls := 0
	started := make(chan struct{})
	release := make(chan struct{})

	compute := func(ctx context.Context) (Record, error) {
		mu.Lock()
		computeCalls++
		mu.Unlock()
		close(started)
		<-release
		return Record{Narrative: "n", Score: 50}, nil
	}

	var wg sync.WaitGroup
	results := make([]*Record, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := cache.GetOrCompute(context.Background(), "h2", compute)
			assert.NoError(t, err)
			results[i] = rec
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	assert.Equal(t, 1, computeCalls)
	assert.Equal(t, results[0], results[1])
}

func TestGetOrComputeAdoptsRaceWinner(t *testing.T) {
	store := newMemoryStore()
	cache := NewCache(store)

	// A concurrent writer (e.g. another process) inserted first.
	winner := Record{Hash: "h3", Narrative: "winner", Score: 90}
	store.records["h3"] = winner

	rec, err := cache.GetOrCompute(context.Background(), "h3", func(ctx context.Context) (Record, error) {
		t.Fatal("compute must not run on a hit")
		return Record{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, winner, *rec)
}

func TestGetOrComputeDiscardsLoserResult(t *testing.T) {
	store := newMemoryStore()
	cache := NewCache(store)

	winner := Record{Hash: "h4", Narrative: "winner", Score: 90}
	compute := func(ctx context.Context) (Record, error) {
		// Simulate losing the cross-process race: the winner lands while
		// our computation is in flight.
		store.mu.Lock()
		store.records["h4"] = winner
		store.mu.Unlock()
		return Record{Narrative: "loser", Score: 10}, nil
	}

	rec, err := cache.GetOrCompute(context.Background(), "h4", compute)
	require.NoError(t, err)
	assert.Equal(t, winner, *rec)
}

package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

const DefaultSize = 4096

// Store is a bounded in-process cache with a shared TTL. Loads for the same
// key are collapsed into one call. A load that overlaps a Delete or
// DeletePrefix is returned to its callers but not stored.
type Store struct {
	lru    *expirable.LRU[string, any]
	flight resilience.SingleFlight

	// mu orders fills against invalidations; generation counts invalidations.
	mu         sync.Mutex
	generation uint64
}

// NewStore keeps at most size entries; ttl <= 0 means entries never expire.
func NewStore(size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Store{lru: expirable.NewLRU[string, any](size, nil, ttl)}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	return s.lru.Get(key)
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}
	s.lru.Add(key, value)
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.lru.Remove(key)
	s.flight.Forget(key)
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	for _, key := range s.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.lru.Remove(key)
			s.flight.Forget(key)
		}
	}
}

func (s *Store) Len() int {
	return s.lru.Len()
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.lru.Get(key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.lru.Get(key); ok {
			return cached, nil
		}
		started := s.currentGeneration()
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.fill(key, loaded, started)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// fill stores value only if nothing was invalidated since the load started.
func (s *Store) fill(key string, value any, started uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != started {
		return
	}
	s.lru.Add(key, value)
}

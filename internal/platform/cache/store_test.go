package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoadCollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(16, time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "fixture:id:GW1-ARS-CHE", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errors.New("unexpected loaded value")
			}
		}()
	}
	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("got=%d want=1", got)
	}
}

func TestStore_LoaderErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(16, time.Minute)
	boom := errors.New("db down")
	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("failed load must not be cached")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(16, time.Minute)
	store.Set(ctx, "leaderboard:limit:10", 1)
	store.Set(ctx, "leaderboard:limit:50", 2)
	store.Set(ctx, "team:list", 3)

	store.DeletePrefix(ctx, "leaderboard:")

	if _, ok := store.Get(ctx, "leaderboard:limit:10"); ok {
		t.Fatalf("expected leaderboard key to be removed")
	}
	if _, ok := store.Get(ctx, "team:list"); !ok {
		t.Fatalf("expected unrelated key to survive")
	}
	if got := store.Len(); got != 1 {
		t.Fatalf("got=%d want=1", got)
	}
}

func TestStore_EvictsBeyondSize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(2, 0)
	store.Set(ctx, "a", 1)
	store.Set(ctx, "b", 2)
	store.Set(ctx, "c", 3)

	if _, ok := store.Get(ctx, "a"); ok {
		t.Fatalf("expected oldest entry to be evicted")
	}
	if got := store.Len(); got != 2 {
		t.Fatalf("got=%d want=2", got)
	}
}

func TestStore_InvalidatedLoadIsNotStored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(16, time.Minute)
	entered := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any, 1)
	go func() {
		v, _ := store.GetOrLoad(ctx, "fixture:gameweek:1", func(context.Context) (any, error) {
			close(entered)
			<-release
			return "before write", nil
		})
		done <- v
	}()

	<-entered
	store.DeletePrefix(ctx, "fixture:")
	close(release)

	if got := <-done; got != "before write" {
		t.Fatalf("in-flight caller got=%v want=%q", got, "before write")
	}
	if _, ok := store.Get(ctx, "fixture:gameweek:1"); ok {
		t.Fatalf("load that overlapped an invalidation must not be cached")
	}

	v, err := store.GetOrLoad(ctx, "fixture:gameweek:1", func(context.Context) (any, error) { return "after write", nil })
	if err != nil || v != "after write" {
		t.Fatalf("got=%v err=%v want fresh load", v, err)
	}
	if cached, ok := store.Get(ctx, "fixture:gameweek:1"); !ok || cached != "after write" {
		t.Fatalf("fresh load should be cached, got %v", cached)
	}
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/conc/pool"
)

func TestStore_GetOrLoad_CoalescesConcurrentMisses(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int64

	start := make(chan struct{})
	p := pool.New().WithErrors()
	for i := 0; i < 24; i++ {
		p.Go(func() error {
			<-start
			v, err := store.GetOrLoad(context.Background(), "live:gw-7", func(context.Context) (any, error) {
				loads.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "sheet", nil
			})
			if err != nil {
				return err
			}
			if got, _ := v.(string); got != "sheet" {
				return fmt.Errorf("unexpected value %v", v)
			}
			return nil
		})
	}
	close(start)
	if err := p.Wait(); err != nil {
		t.Fatalf("concurrent GetOrLoad failed: %v", err)
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ServesCachedValueOnRepeat(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int64

	for i := 0; i < 3; i++ {
		v, err := store.GetOrLoad(context.Background(), "bootstrap", func(context.Context) (any, error) {
			loads.Add(1)
			return "catalog", nil
		})
		if err != nil {
			t.Fatalf("GetOrLoad call %d: %v", i, err)
		}
		if got, _ := v.(string); got != "catalog" {
			t.Fatalf("GetOrLoad call %d returned %v", i, v)
		}
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int64
	errLoad := errors.New("upstream fetch failed")

	_, err := store.GetOrLoad(context.Background(), "standings", func(context.Context) (any, error) {
		loads.Add(1)
		return nil, errLoad
	})
	if !errors.Is(err, errLoad) {
		t.Fatalf("expected loader error, got %v", err)
	}

	v, err := store.GetOrLoad(context.Background(), "standings", func(context.Context) (any, error) {
		loads.Add(1)
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("retry after failed load: %v", err)
	}
	if got, _ := v.(string); got != "recovered" {
		t.Fatalf("retry returned %v", v)
	}
	if got := loads.Load(); got != 2 {
		t.Fatalf("loader ran %d times, want 2", got)
	}
}

func TestStore_Get_ExpiresEntriesByClock(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, time.March, 7, 15, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	advance := func(d time.Duration) {
		mu.Lock()
		current = current.Add(d)
		mu.Unlock()
	}

	store := NewStoreWithClock(5*time.Minute, now)
	store.Set(context.Background(), "k", 42)

	advance(4 * time.Minute)
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("entry expired before ttl elapsed")
	}

	advance(time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("entry survived past ttl")
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, time.March, 7, 15, 0, 0, 0, time.UTC)
	store := NewStoreWithClock(0, func() time.Time { return current })
	store.Set(context.Background(), "k", "v")

	current = current.Add(1000 * time.Hour)
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("entry with zero ttl expired")
	}
}

func TestStore_ClearAndDeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	store.Set(context.Background(), "picks:1:10", "a")
	store.Set(context.Background(), "picks:2:10", "b")
	store.Set(context.Background(), "transfers:1", "c")

	store.DeletePrefix(context.Background(), "picks:")
	if got := store.Len(); got != 1 {
		t.Fatalf("after DeletePrefix len=%d, want 1", got)
	}
	if _, ok := store.Get(context.Background(), "transfers:1"); !ok {
		t.Fatalf("unrelated key removed by DeletePrefix")
	}

	store.Clear(context.Background())
	if got := store.Len(); got != 0 {
		t.Fatalf("after Clear len=%d, want 0", got)
	}
}

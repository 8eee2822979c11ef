// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cruisy/internal/models"
)

type stubFetcher struct {
	calls atomic.Int32
	delay time.Duration
	list  []models.Itinerary
	err   error
}

func (f *stubFetcher) FetchAll(ctx context.Context) ([]models.Itinerary, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

type memCache struct {
	mu   sync.Mutex
	list []models.Itinerary
	ok   bool
	sets int
}

func (c *memCache) Get(context.Context) ([]models.Itinerary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list, c.ok
}

func (c *memCache) Set(_ context.Context, list []models.Itinerary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list, c.ok = list, true
	c.sets++
}

func (c *memCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list, c.ok = nil, false
}

var sample = []models.Itinerary{
	{ID: 1, Name: "Snorkel Tour"},
	{ID: 2, Name: "Harbor Walk"},
	{ID: 3, Name: "Rum Tasting"},
}

func TestListCachesSuccess(t *testing.T) {
	f := &stubFetcher{list: sample}
	c := &memCache{}
	s := New(f, c)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("expected 3 items, got %d", len(list))
		}
	}
	if got := f.calls.Load(); got != 1 {
		t.Errorf("expected 1 fetch, got %d", got)
	}

	s.Refresh(ctx)
	if _, err := s.List(ctx); err != nil {
		t.Fatalf("List after Refresh: %v", err)
	}
	if got := f.calls.Load(); got != 2 {
		t.Errorf("expected refetch after Refresh, got %d fetches", got)
	}
}

func TestListDoesNotCacheErrors(t *testing.T) {
	boom := errors.New("boom")
	f := &stubFetcher{err: boom}
	c := &memCache{}
	s := New(f, c)

	list, err := s.List(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", list)
	}
	if c.sets != 0 {
		t.Error("error result must not be cached")
	}

	f.err = nil
	f.list = sample
	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List after recovery: %v", err)
	}
	if got := f.calls.Load(); got != 2 {
		t.Errorf("expected 2 fetches, got %d", got)
	}
}

func TestListWithoutCache(t *testing.T) {
	f := &stubFetcher{list: sample}
	s := New(f, nil)
	for i := 0; i < 2; i++ {
		if _, err := s.List(context.Background()); err != nil {
			t.Fatalf("List: %v", err)
		}
	}
	if got := f.calls.Load(); got != 2 {
		t.Errorf("expected a fetch per call without cache, got %d", got)
	}
	s.Refresh(context.Background())
}

func TestListSharesInFlightFetch(t *testing.T) {
	f := &stubFetcher{list: sample, delay: 50 * time.Millisecond}
	s := New(f, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.List(context.Background()); err != nil {
				t.Errorf("List: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := f.calls.Load(); got >= 8 {
		t.Errorf("expected concurrent callers to share fetches, got %d", got)
	}
}

func TestListSurvivesCancelledCaller(t *testing.T) {
	f := &stubFetcher{list: sample, delay: 200 * time.Millisecond}
	c := &memCache{}
	s := New(f, c)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := s.List(ctxA)
		errA <- err
	}()

	// B joins the fetch A started.
	time.Sleep(20 * time.Millisecond)
	type result struct {
		list []models.Itinerary
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		list, err := s.List(context.Background())
		resB <- result{list, err}
	}()

	time.Sleep(30 * time.Millisecond)
	cancelA()

	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("caller A: got %v, want context.Canceled", err)
	}
	b := <-resB
	if b.err != nil {
		t.Fatalf("caller B: %v", b.err)
	}
	if len(b.list) != len(sample) {
		t.Errorf("caller B: got %d items, want %d", len(b.list), len(sample))
	}
	if got := f.calls.Load(); got != 1 {
		t.Errorf("expected 1 shared fetch, got %d", got)
	}
	if c.sets != 1 {
		t.Errorf("expected the shared result cached once, got %d sets", c.sets)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		want []int64
	}{
		{"ordered by ids", []int64{3, 1}, []int64{3, 1}},
		{"stale ids skipped", []int64{99, 2, 100}, []int64{2}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lookup(sample, tt.ids)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("[%d] = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

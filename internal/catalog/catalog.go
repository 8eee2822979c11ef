// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog orchestrates itinerary fetches: concurrent callers share
// one in-flight request, and successful results are cached.
package catalog

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"cruisy/internal/models"
)

// Fetcher downloads the full itinerary list.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]models.Itinerary, error)
}

// Cache keeps the last successful fetch.
type Cache interface {
	Get(ctx context.Context) ([]models.Itinerary, bool)
	Set(ctx context.Context, list []models.Itinerary)
	Invalidate(ctx context.Context)
}

// Service serves the itinerary catalog.
type Service struct {
	fetcher Fetcher
	cache   Cache
	group   singleflight.Group
}

// New creates a catalog service. A nil cache disables caching.
func New(fetcher Fetcher, cache Cache) *Service {
	return &Service{fetcher: fetcher, cache: cache}
}

// List returns the catalog from the cache, or fetches it. Fetch errors are
// returned to the caller with an empty list and never cached. The shared
// fetch outlives any single caller; a caller whose ctx ends stops waiting
// without failing the others.
func (s *Service) List(ctx context.Context) ([]models.Itinerary, error) {
	if s.cache != nil {
		if list, ok := s.cache.Get(ctx); ok {
			return list, nil
		}
	}

	ch := s.group.DoChan("all", func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		list, err := s.fetcher.FetchAll(fetchCtx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(fetchCtx, list)
		}
		slog.Info("itinerary catalog fetched", "count", len(list))
		return list, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return []models.Itinerary{}, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		slog.Warn("itinerary fetch failed", "error", res.Err, "shared", res.Shared)
		return []models.Itinerary{}, res.Err
	}

	// Callers sharing one fetch each get their own slice header.
	list := res.Val.([]models.Itinerary)
	return append([]models.Itinerary(nil), list...), nil
}

// Refresh drops any cached catalog so the next List fetches again.
func (s *Service) Refresh(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// Lookup returns the itineraries whose ids appear in ids, in ids order.
// Ids missing from list are skipped.
func Lookup(list []models.Itinerary, ids []int64) []models.Itinerary {
	byID := make(map[int64]models.Itinerary, len(list))
	for _, it := range list {
		if _, dup := byID[it.ID]; !dup {
			byID[it.ID] = it
		}
	}

	out := make([]models.Itinerary, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

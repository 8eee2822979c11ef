// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"cruisy/internal/models"
)

const catalogName = "itineraries"

// CatalogCache keeps the last successful itinerary fetch as JSON.
type CatalogCache struct {
	blobs
}

// NewCatalogCache returns a catalog cache. ttl must be positive.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{blobs{client: client, prefix: "catalog:", ttl: ttl}}
}

// Get returns the cached list. An undecodable entry reads as a miss.
func (c *CatalogCache) Get(ctx context.Context) ([]models.Itinerary, bool) {
	data, ok := c.get(ctx, catalogName)
	if !ok {
		return nil, false
	}
	var list []models.Itinerary
	if err := json.Unmarshal(data, &list); err != nil {
		slog.Warn("catalog cache entry corrupt", "error", err)
		return nil, false
	}
	return list, true
}

// Set caches list.
func (c *CatalogCache) Set(ctx context.Context, list []models.Itinerary) {
	data, err := json.Marshal(list)
	if err != nil {
		slog.Warn("catalog cache encode failed", "error", err)
		return
	}
	c.put(ctx, catalogName, data)
}

// Invalidate drops the cached list.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	c.drop(ctx, catalogName)
}

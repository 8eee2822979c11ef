// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCardTTL bounds how stale a cached card can get when nothing
// invalidates it.
const DefaultCardTTL = 5 * time.Minute

// CardCache holds rendered public card HTML by ambassador slug.
type CardCache struct {
	blobs
}

// NewCardCache returns a card cache. A ttl of zero uses DefaultCardTTL.
func NewCardCache(client *redis.Client, ttl time.Duration) *CardCache {
	if ttl <= 0 {
		ttl = DefaultCardTTL
	}
	return &CardCache{blobs{client: client, prefix: "card:", ttl: ttl}}
}

// Get returns the cached card of slug.
func (c *CardCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	return c.get(ctx, slug)
}

// Set caches the rendered card of slug.
func (c *CardCache) Set(ctx context.Context, slug string, html []byte) {
	c.put(ctx, slug, html)
}

// Invalidate drops the card of slug after its profile or review state
// changed.
func (c *CardCache) Invalidate(ctx context.Context, slug string) {
	c.drop(ctx, slug)
}

// InvalidateAll drops every card. Any card may list an itinerary that
// changed in the catalog.
func (c *CardCache) InvalidateAll(ctx context.Context) {
	if n := c.dropAll(ctx); n > 0 {
		slog.Info("card cache cleared", "cards", n)
	}
}

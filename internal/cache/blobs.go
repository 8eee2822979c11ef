// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// blobs is a namespace of expiring byte values in Valkey. Cache failures
// are logged and reported as misses; callers fall back to the source.
type blobs struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (b blobs) get(ctx context.Context, name string) ([]byte, bool) {
	val, err := b.client.Get(ctx, b.prefix+name).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", "key", b.prefix+name, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (b blobs) put(ctx context.Context, name string, val []byte) {
	if err := b.client.Set(ctx, b.prefix+name, val, b.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", b.prefix+name, "error", err)
	}
}

func (b blobs) drop(ctx context.Context, name string) {
	if err := b.client.Del(ctx, b.prefix+name).Err(); err != nil {
		slog.Warn("cache delete failed", "key", b.prefix+name, "error", err)
	}
}

// dropAll deletes every key in the namespace and returns how many went.
func (b blobs) dropAll(ctx context.Context) int {
	n := 0
	iter := b.client.Scan(ctx, 0, b.prefix+"*", 100).Iterator()
	var batch []string
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := b.client.Unlink(ctx, batch...).Err(); err != nil {
			slog.Warn("cache bulk delete failed", "prefix", b.prefix, "error", err)
		} else {
			n += len(batch)
		}
		batch = batch[:0]
	}
	for iter.Next(ctx) {
		if batch = append(batch, iter.Val()); len(batch) == 100 {
			flush()
		}
	}
	flush()
	if err := iter.Err(); err != nil {
		slog.Warn("cache scan failed", "prefix", b.prefix, "error", err)
	}
	return n
}

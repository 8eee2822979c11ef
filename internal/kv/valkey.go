// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// valkeyKeyPrefix namespaces profile keys away from sessions and caches.
const valkeyKeyPrefix = "kv:"

// Valkey stores values in Valkey (or Redis) without expiry.
type Valkey struct {
	client *redis.Client
}

// NewValkey creates a Storage backed by the given Valkey client.
func NewValkey(client *redis.Client) *Valkey {
	return &Valkey{client: client}
}

// Get returns the value stored under key.
func (v *Valkey) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := v.client.Get(ctx, valkeyKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv valkey get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value under key with no TTL.
func (v *Valkey) Set(ctx context.Context, key string, value []byte) error {
	if err := v.client.Set(ctx, valkeyKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv valkey set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (v *Valkey) Remove(ctx context.Context, key string) error {
	if err := v.client.Del(ctx, valkeyKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("kv valkey remove %s: %w", key, err)
	}
	return nil
}

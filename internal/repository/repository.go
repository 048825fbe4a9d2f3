// Package repository contains the store adapters: MongoDB collections for the
// authoritative entities, the Neo4j relationship mirror, the Redis cache and
// session stores, and the InfluxDB activity recorder.
package repository

import (
	"context"
	"time"
)

// defaultStoreTimeout bounds a store round trip when no timeout is configured.
const defaultStoreTimeout = 5 * time.Second

// withTimeout derives a bounded context for one store call. Every adapter
// call goes through this so a stuck store cannot block a user interaction
// indefinitely.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}

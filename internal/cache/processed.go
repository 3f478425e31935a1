// Package cache guards against duplicate per-account submissions inside a
// configurable processing window. The guard is shared between collector
// replicas through Redis, so it is best-effort: two concurrent submissions
// can both pass the check before either marks the account.
package cache

import (
	"strconv"
	"time"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

// ProcessedCache records which accounts were recently forwarded
type ProcessedCache struct {
	db     redis.UniversalClient
	window time.Duration
}

// NewProcessedCache wraps a Redis client with the processing window TTL
func NewProcessedCache(db redis.UniversalClient, window time.Duration) *ProcessedCache {
	return &ProcessedCache{db: db, window: window}
}

// Processed reports whether the account was marked within the window.
// Cache unavailability is an error, never silently "not processed".
func (c *ProcessedCache) Processed(account int) (bool, error) {
	_, err := c.db.Get(key(account)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "processed check failed")
	}
	return true, nil
}

// MarkProcessed sets the account entry, expiring after the window elapses
func (c *ProcessedCache) MarkProcessed(account int) error {
	if err := c.db.Set(key(account), 1, c.window).Err(); err != nil {
		return errors.Wrap(err, "unable to mark account processed")
	}
	return nil
}

// Ping reports whether the cache backend is reachable
func (c *ProcessedCache) Ping() bool {
	return c.db.Ping().Err() == nil
}

func key(account int) string {
	return strconv.Itoa(account)
}

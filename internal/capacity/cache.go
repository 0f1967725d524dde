package capacity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bluepeak/home-services-platform/pkg/logging"
)

// SnapshotCache is a Redis-backed cache for capacity snapshots. Cache
// failures are never surfaced to callers; a broken cache degrades to
// recomputing every snapshot.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewSnapshotCache creates a snapshot cache with the given TTL.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *SnapshotCache {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SnapshotCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(date time.Time, zip string) string {
	if zip == "" {
		zip = "any"
	}
	return fmt.Sprintf("capacity:%s:%s", date.Format("2006-01-02"), zip)
}

// Get returns a cached snapshot, if present.
func (c *SnapshotCache) Get(ctx context.Context, date time.Time, zip string) (*Snapshot, bool) {
	raw, err := c.client.Get(ctx, cacheKey(date, zip)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("capacity: cache read failed", "error", err)
		}
		return nil, false
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.logger.Debug("capacity: cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	return &snap, true
}

// Put stores a snapshot; errors are logged and dropped.
func (c *SnapshotCache) Put(ctx context.Context, date time.Time, zip string, snap *Snapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(date, zip), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("capacity: cache write failed", "error", err)
	}
}

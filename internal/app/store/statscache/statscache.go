// Package statscache keeps computed calendar months in Redis.
//
// Only months that lie entirely in the past are stored; callers decide that
// with Cacheable before calling Set.
package statscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/workpulse/internal/app/attendance"
	"github.com/dalemusser/workpulse/internal/app/system/metrics"
	"github.com/dalemusser/workpulse/internal/app/system/reportkind"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "stats:calendar:"

// Cache stores []attendance.DayStat per (zone, kind, month).
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func New(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, log: logger}
}

// Key returns the Redis key for kind and month. month carries the calendar
// zone it was parsed in, and the zone is part of the key so grids built for
// a previous timezone setting are never served.
func Key(kind reportkind.Kind, month time.Time) string {
	return keyPrefix + month.Location().String() + ":" + kind.String() + ":" + month.Format(attendance.MonthLayout)
}

// Cacheable reports whether every day of month's calendar grid is before
// today, so its stats can no longer change through the passage of time.
func Cacheable(month, today time.Time, loc *time.Location) bool {
	_, end := attendance.GridRange(month, loc)
	return end.Before(today)
}

// Get returns the cached month. found is false on a miss.
func (c *Cache) Get(ctx context.Context, kind reportkind.Kind, month time.Time) (stats []attendance.DayStat, found bool, err error) {
	b, err := c.rdb.Get(ctx, Key(kind, month)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMisses.Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(b, &stats); err != nil {
		// Treat a corrupt entry as a miss and drop it.
		c.log.Warn("discarding unreadable calendar cache entry", zap.String("key", Key(kind, month)), zap.Error(err))
		_ = c.rdb.Del(ctx, Key(kind, month)).Err()
		metrics.CacheMisses.Inc()
		return nil, false, nil
	}
	metrics.CacheHits.Inc()
	return stats, true, nil
}

// Set stores stats for kind and month.
func (c *Cache) Set(ctx context.Context, kind reportkind.Kind, month time.Time, stats []attendance.DayStat) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return c.rdb.Set(ctx, Key(kind, month), b, c.ttl).Err()
}

// InvalidateAll removes every cached month of every kind.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	return c.deleteMatching(ctx, keyPrefix+"*")
}

func (c *Cache) deleteMatching(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Package cache provides a short-TTL redis cache for leaderboard reads.
// Ranks are advisory, so serving a few-seconds-stale snapshot is fine and
// keeps the O(U log U) sort off the hot path.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cleancity/pkg/logger"
	"cleancity/pkg/models"
)

// LeaderboardCache caches leaderboard listings keyed by timeframe and
// limit. A nil *LeaderboardCache is valid and disables caching.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis and returns a cache, or nil when addr is empty.
func New(addr, password string, db int, ttl time.Duration) *LeaderboardCache {
	if addr == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &LeaderboardCache{client: client, ttl: ttl}
}

// Close releases the redis connection.
func (c *LeaderboardCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func key(timeframe string, limit int) string {
	return fmt.Sprintf("cleancity:leaderboard:%s:%d", timeframe, limit)
}

// Get returns a cached listing, or nil on miss. Cache failures only log;
// the caller falls through to a direct read.
func (c *LeaderboardCache) Get(ctx context.Context, timeframe string, limit int) *models.LeaderboardResponse {
	if c == nil {
		return nil
	}
	data, err := c.client.Get(ctx, key(timeframe, limit)).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		logger.Warnf("leaderboard cache get failed: %v", err)
		return nil
	}
	var resp models.LeaderboardResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.Warnf("leaderboard cache decode failed: %v", err)
		return nil
	}
	return &resp
}

// Set stores a listing for the configured TTL.
func (c *LeaderboardCache) Set(ctx context.Context, timeframe string, limit int, resp *models.LeaderboardResponse) {
	if c == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Warnf("leaderboard cache encode failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, key(timeframe, limit), data, c.ttl).Err(); err != nil {
		logger.Warnf("leaderboard cache set failed: %v", err)
	}
}

// Invalidate drops all cached listings after a score change.
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, "cleancity:leaderboard:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warnf("leaderboard cache invalidate failed: %v", err)
			return
		}
	}
	if err := iter.Err(); err != nil {
		logger.Warnf("leaderboard cache scan failed: %v", err)
	}
}

package streak

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"habittracker/models"

	"github.com/go-redis/redis/v8"
)

// ReportCache stores rendered reports for a short time so frequent polling
// does not walk the event log on every request.
type ReportCache interface {
	Get(ctx context.Context, key string) (models.StreakReport, bool, error)
	Set(ctx context.Context, key string, report models.StreakReport, ttl time.Duration) error
	Flush(ctx context.Context) error
}

// NewReportCache returns a Redis-backed cache when client is non-nil and an
// in-memory one otherwise.
func NewReportCache(client *redis.Client) ReportCache {
	if client != nil {
		return &redisReportCache{client: client, prefix: "habittracker:report:"}
	}
	return NewMemoryReportCache()
}

type memoryEntry struct {
	report    models.StreakReport
	expiresAt time.Time
}

type memoryReportCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryReportCache() ReportCache {
	return &memoryReportCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *memoryReportCache) Get(_ context.Context, key string) (models.StreakReport, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return models.StreakReport{}, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return models.StreakReport{}, false, nil
	}
	return entry.report, true, nil
}

func (c *memoryReportCache) Set(_ context.Context, key string, report models.StreakReport, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{report: report, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *memoryReportCache) Flush(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	return nil
}

type redisReportCache struct {
	client *redis.Client
	prefix string
}

func (c *redisReportCache) Get(ctx context.Context, key string) (models.StreakReport, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return models.StreakReport{}, false, nil
	}
	if err != nil {
		return models.StreakReport{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var report models.StreakReport
	if err := json.Unmarshal(data, &report); err != nil {
		return models.StreakReport{}, false, fmt.Errorf("decode cached report %s: %w", key, err)
	}
	return report, true, nil
}

func (c *redisReportCache) Set(ctx context.Context, key string, report models.StreakReport, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *redisReportCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

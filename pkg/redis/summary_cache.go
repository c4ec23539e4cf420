package redis

import (
	"context"
	"errors"
	"time"

	"github.com/greenmomguide/review-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// SummaryCache stores rendered product summaries as opaque bytes with a TTL.
type SummaryCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewSummaryCache(c *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{
		client: c,
		prefix: "review:summary:",
		ttl:    ttl,
	}
}

// Get returns (nil, false, nil) on a miss.
func (s *SummaryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		logger.Error("Failed to read summary cache", err, map[string]interface{}{
			"key": key,
		})
		return nil, false, err
	}
	return val, true, nil
}

func (s *SummaryCache) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		logger.Error("Failed to write summary cache", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

func (s *SummaryCache) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

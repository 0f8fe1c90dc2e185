package eventlog

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"Paratoner/internal/domain/repository"
)

// RedisSinkConfig configures the Redis-backed event sink.
type RedisSinkConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
	MaxLen   int64
}

// RedisSink keeps a bounded Redis list of friendly event lines, newest first.
type RedisSink struct {
	client *redis.Client
	key    string
	maxLen int64
}

// NewRedisSink connects to Redis and verifies the connection.
func NewRedisSink(cfg RedisSinkConfig) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	maxLen := cfg.MaxLen
	if maxLen < 1 {
		maxLen = 1000
	}
	return &RedisSink{client: client, key: cfg.Key, maxLen: maxLen}, nil
}

// Record pushes the event line and trims the list to its bound atomically.
func (s *RedisSink) Record(ctx context.Context, ev repository.SystemEvent) error {
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key, ev.Line)
	pipe.LTrim(ctx, s.key, 0, s.maxLen-1)
	_, err := pipe.Exec(ctx)
	return err
}

// RecentLines returns the last n lines, oldest first.
func (s *RedisSink) RecentLines(ctx context.Context, n int) ([]string, error) {
	if n < 1 {
		return nil, nil
	}
	lines, err := s.client.LRange(ctx, s.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	// list is newest-first; callers expect chronological order
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, nil
}

// Close closes the Redis connection.
func (s *RedisSink) Close() error {
	return s.client.Close()
}

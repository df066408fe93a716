package limiter

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage stores and retrieves token buckets by key
type Storage interface {
	// Get retrieves the bucket for key, nil if absent
	Get(key string) (*TokenBucket, error)

	// Set stores the bucket for key
	Set(key string, bucket *TokenBucket) error

	// Delete removes the bucket for key
	Delete(key string) error

	// Reset clears all stored buckets
	Reset() error
}

type InMemoryStorage struct {
	buckets map[string]*TokenBucket
	mu      sync.RWMutex
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		buckets: make(map[string]*TokenBucket),
	}
}

func (s *InMemoryStorage) Get(key string) (*TokenBucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.buckets[key], nil
}

func (s *InMemoryStorage) Set(key string, bucket *TokenBucket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buckets[key] = bucket
	return nil
}

func (s *InMemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.buckets, key)
	return nil
}

func (s *InMemoryStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buckets = make(map[string]*TokenBucket)
	return nil
}

// RedisStorage shares buckets across instances. Bucket state is stored as
// JSON under a "ratelimit:" prefix with a TTL so idle clients age out.
type RedisStorage struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		ctx:    context.Background(),
		ttl:    ttl,
	}
}

func (s *RedisStorage) Get(key string) (*TokenBucket, error) {
	data, err := s.client.Get(s.ctx, "ratelimit:"+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var bucket TokenBucket
	if err := json.Unmarshal(data, &bucket); err != nil {
		return nil, err
	}

	bucket.refill()

	return &bucket, nil
}

func (s *RedisStorage) Set(key string, bucket *TokenBucket) error {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	data, err := json.Marshal(bucket)
	if err != nil {
		return err
	}
	return s.client.Set(s.ctx, "ratelimit:"+key, data, s.ttl).Err()
}

func (s *RedisStorage) Delete(key string) error {
	return s.client.Del(s.ctx, "ratelimit:"+key).Err()
}

func (s *RedisStorage) Reset() error {
	return s.client.FlushDB(s.ctx).Err()
}

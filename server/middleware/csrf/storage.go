package csrf

import (
	"context"
	"sync"
	"time"

	"estately/apperrors"
	"estately/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Storage stores and retrieves CSRF tokens keyed by session ID
type Storage interface {
	Get(key string) (string, error)
	Set(key string, value string, expiration time.Duration) error
	Delete(key string) error
}

type tokenEntry struct {
	value      string
	expiration time.Time
}

// InMemoryStorage keeps tokens in a process-local map
type InMemoryStorage struct {
	mu     sync.RWMutex
	tokens map[string]tokenEntry
}

func NewInMemoryStorage() *InMemoryStorage {
	storage := &InMemoryStorage{
		tokens: make(map[string]tokenEntry),
	}

	go storage.cleanup()

	return storage
}

func (s *InMemoryStorage) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.tokens[key]
	if !exists {
		return "", apperrors.New(apperrors.ErrCodeNotFound, "Token not found", fiber.StatusNotFound)
	}

	if time.Now().After(entry.expiration) {
		return "", apperrors.New(apperrors.ErrCodeSessionExpired, "Token expired", fiber.StatusUnauthorized)
	}

	return entry.value, nil
}

func (s *InMemoryStorage) Set(key string, value string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[key] = tokenEntry{
		value:      value,
		expiration: time.Now().Add(expiration),
	}

	return nil
}

func (s *InMemoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, key)
	return nil
}

func (s *InMemoryStorage) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for key, entry := range s.tokens {
			if now.After(entry.expiration) {
				delete(s.tokens, key)
			}
		}
		s.mu.Unlock()
	}
}

// RedisStorage shares tokens across instances. A local cache keeps form
// submissions working while Redis is unavailable.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	cache  sync.Map
}

func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		prefix: "csrf:",
		ttl:    ttl,
	}
}

func (s *RedisStorage) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == nil {
		s.cache.Store(key, tokenEntry{
			value:      val,
			expiration: time.Now().Add(s.ttl),
		})
		return val, nil
	}

	if err != redis.Nil {
		logger.WithError(err).Warn("CSRF Redis unavailable, checking local cache")
		if entry, ok := s.cache.Load(key); ok {
			e := entry.(tokenEntry)
			if time.Now().Before(e.expiration) {
				return e.value, nil
			}
		}
		return "", err
	}

	return "", apperrors.New(apperrors.ErrCodeNotFound, "Token not found", fiber.StatusNotFound)
}

func (s *RedisStorage) Set(key string, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s.cache.Store(key, tokenEntry{
		value:      value,
		expiration: time.Now().Add(expiration),
	})

	if err := s.client.Set(ctx, s.prefix+key, value, expiration).Err(); err != nil {
		// The local cache still holds the token, so the user can keep
		// submitting forms while Redis is down
		logger.WithFields(map[string]any{
			"key":   key,
			"error": err.Error(),
		}).Error("CSRF Redis write failed, relying on local cache")
	}

	return nil
}

func (s *RedisStorage) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s.cache.Delete(key)

	return s.client.Del(ctx, s.prefix+key).Err()
}

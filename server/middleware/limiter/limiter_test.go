package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedApp(capacity int64) *fiber.App {
	app := fiber.New()
	app.Use(New(Config{
		Capacity:     capacity,
		RefillRate:   1,
		RefillPeriod: time.Hour,
	}))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestLimiterAllowsWithinCapacity(t *testing.T) {
	app := newLimitedApp(3)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestLimiterBlocksWhenExhausted(t *testing.T) {
	app := newLimitedApp(2)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestTokenBucketRefill(t *testing.T) {
	bucket := NewTokenBucket(2, 1, 10*time.Millisecond)

	require.True(t, bucket.Take(2))
	require.False(t, bucket.Take(1))

	time.Sleep(25 * time.Millisecond)
	assert.True(t, bucket.Take(1))
}

func TestTokenBucketNeverExceedsCapacity(t *testing.T) {
	bucket := NewTokenBucket(2, 10, time.Millisecond)

	time.Sleep(10 * time.Millisecond)
	require.True(t, bucket.Take(2))
	assert.False(t, bucket.Take(1))
}

type recordingStorage struct {
	*InMemoryStorage
	gets int
	sets int
}

func (s *recordingStorage) Get(key string) (*TokenBucket, error) {
	s.gets++
	return s.InMemoryStorage.Get(key)
}

func (s *recordingStorage) Set(key string, bucket *TokenBucket) error {
	s.sets++
	return s.InMemoryStorage.Set(key, bucket)
}

func TestLimiterUsesConfiguredStorage(t *testing.T) {
	storage := &recordingStorage{InMemoryStorage: NewInMemoryStorage()}

	app := fiber.New()
	app.Use(New(Config{
		Capacity:     5,
		RefillRate:   1,
		RefillPeriod: time.Hour,
		Storage:      storage,
	}))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, storage.gets)
	assert.Equal(t, 1, storage.sets)
}

func TestInMemoryStorage(t *testing.T) {
	storage := NewInMemoryStorage()

	got, err := storage.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	bucket := NewTokenBucket(5, 1, time.Second)
	require.NoError(t, storage.Set("client", bucket))

	got, err = storage.Get("client")
	require.NoError(t, err)
	assert.Same(t, bucket, got)

	require.NoError(t, storage.Delete("client"))
	got, err = storage.Get("client")
	require.NoError(t, err)
	assert.Nil(t, got)
}

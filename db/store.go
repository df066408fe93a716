package db

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"estately/pkg/logger"
	"estately/pkg/metrics"
)

// Bucket names. Each bucket is one JSON document on disk.
const (
	UsersBucket     = "users"
	FavoritesBucket = "favorites"
	ListingsBucket  = "listings"
)

// BucketStore persists named JSON documents as whole files. Every mutation
// is a read-modify-write of the entire bucket; there are no partial updates
// and no cross-bucket transactions. Concurrent processes sharing a data dir
// are last-write-wins.
type BucketStore struct {
	dir string
	mu  sync.Mutex
}

// OpenBucketStore opens (creating if needed) the data directory
func OpenBucketStore(dir string) (*BucketStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &BucketStore{dir: dir}, nil
}

func (s *BucketStore) path(bucket string) string {
	return filepath.Join(s.dir, bucket+".json")
}

// Load reads a bucket into v. An absent file or malformed document leaves v
// at its zero value: the store always degrades to an empty mapping rather
// than refusing to start.
func (s *BucketStore) Load(bucket string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(bucket))
	if err != nil {
		if !os.IsNotExist(err) {
			metrics.BucketLoadFailures.WithLabelValues(bucket).Inc()
			logger.WithFields(map[string]any{
				"bucket": bucket,
				"error":  err.Error(),
			}).Warn("Bucket read failed, treating as empty")
		}
		return
	}

	if len(data) == 0 {
		return
	}

	if err := json.Unmarshal(data, v); err != nil {
		metrics.BucketLoadFailures.WithLabelValues(bucket).Inc()
		logger.WithFields(map[string]any{
			"bucket": bucket,
			"error":  err.Error(),
		}).Warn("Bucket document malformed, treating as empty")
	}
}

// Save serializes v and rewrites the whole bucket file
func (s *BucketStore) Save(bucket string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bucket %s: %w", bucket, err)
	}

	f, err := os.OpenFile(s.path(bucket), os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	metrics.BucketWrites.WithLabelValues(bucket).Inc()
	return nil
}

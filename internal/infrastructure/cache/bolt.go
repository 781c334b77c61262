package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/alkarama/hub/internal/domain"
)

var cacheBucket = []byte("cache")

// boltEntry is the stored envelope; a zero ExpiresAt never expires
type boltEntry struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e boltEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// BoltCache persists entries in a bbolt file so a restarted process starts warm.
// Expired entries read as misses and are removed on access.
type BoltCache struct {
	db     *bolt.DB
	now    func() time.Time
	logger *zap.Logger
}

// NewBoltCache opens (or creates) a bbolt database at the given path
func NewBoltCache(path string, logger *zap.Logger) (*BoltCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: bbolt open: %v", domain.ErrCacheUnavailable, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create bucket: %v", domain.ErrCacheUnavailable, err)
	}

	return &BoltCache{db: db, now: time.Now, logger: logger}, nil
}

// Get retrieves a value from the bbolt file
func (c *BoltCache) Get(_ context.Context, key string) ([]byte, error) {
	var (
		entry boltEntry
		found bool
	)

	err := c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(cacheBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		found = true
		// bbolt slices are only valid within the transaction; Unmarshal copies
		return json.Unmarshal(raw, &entry)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", domain.ErrCacheUnavailable, key, err)
	}
	if !found {
		return nil, domain.ErrCacheMiss
	}

	if entry.expired(c.now()) {
		if err := c.deleteIfExpired(key); err != nil {
			c.logger.Warn("expired cache entry not removed", zap.String("key", key), zap.Error(err))
		}
		return nil, domain.ErrCacheMiss
	}
	return entry.Value, nil
}

// Set stores a value. ttl <= 0 keeps the entry until it is deleted.
func (c *BoltCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := boltEntry{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = c.now().Add(ttl).UTC()
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", domain.ErrCacheUnavailable, key, err)
	}
	return nil
}

// Delete removes a key
func (c *BoltCache) Delete(_ context.Context, key string) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", domain.ErrCacheUnavailable, key, err)
	}
	return nil
}

// Exists checks if a key exists and is not expired
func (c *BoltCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrCacheMiss):
		return false, nil
	default:
		return false, err
	}
}

// Close closes the underlying bbolt database.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// deleteIfExpired re-checks under the write lock so a concurrent Set is kept
func (c *BoltCache) deleteIfExpired(key string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(cacheBucket)
		raw := b.Get([]byte(key))
		if raw == nil {
			return nil
		}
		var entry boltEntry
		if err := json.Unmarshal(raw, &entry); err != nil || entry.expired(c.now()) {
			return b.Delete([]byte(key))
		}
		return nil
	})
}

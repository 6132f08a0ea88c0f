package web

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/ga4lens/ga4lens/dataset"
)

// ============================================================================
// DATASET CACHE — content-addressed, owned by the presentation layer
// ============================================================================
// Loading is deterministic (identical bytes → identical Dataset), so a
// dataset is cached under the SHA-256 of its source bytes. The Loader itself
// knows nothing about caching.
// ============================================================================

// DatasetCache holds uploaded datasets addressable by content hash.
type DatasetCache struct {
	cache *ttlcache.Cache[string, *dataset.Dataset]
}

// NewDatasetCache creates a cache whose entries expire ttl after last use.
func NewDatasetCache(ttl time.Duration) *DatasetCache {
	return &DatasetCache{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, *dataset.Dataset](ttl),
		),
	}
}

// Start runs the cache's expiration loop. Call in a goroutine.
func (c *DatasetCache) Start() { c.cache.Start() }

// Stop halts the expiration loop.
func (c *DatasetCache) Stop() { c.cache.Stop() }

// Put loads the CSV bytes and stores the resulting dataset under their
// content hash. Re-uploading identical bytes yields the same hash and simply
// refreshes the entry.
func (c *DatasetCache) Put(data []byte) (string, *dataset.Dataset, error) {
	key := HashSource(data)
	if item := c.cache.Get(key); item != nil {
		return key, item.Value(), nil
	}
	ds, err := dataset.LoadBytes(data)
	if err != nil {
		return "", nil, err
	}
	c.cache.Set(key, ds, ttlcache.DefaultTTL)
	return key, ds, nil
}

// Get returns the dataset stored under a content hash, if still cached.
func (c *DatasetCache) Get(hash string) (*dataset.Dataset, bool) {
	item := c.cache.Get(hash)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// HashSource returns the content address of a source: hex SHA-256.
func HashSource(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

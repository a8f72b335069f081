package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint passed to SCAN and the DEL batch size.
const scanBatch = 100

// DefaultCachePrefixes are the storefront keys that embed catalog data.
var DefaultCachePrefixes = []string{"catalog:", "product:", "category:"}

// CatalogCache invalidates storefront cache entries derived from the
// catalog tables.
type CatalogCache struct {
	client   redis.UniversalClient
	prefixes []string
}

// NewCatalogCache creates a cache purger for the given key prefixes. Empty
// prefixes are ignored so a blank entry can never match every key.
func NewCatalogCache(client redis.UniversalClient, prefixes []string) *CatalogCache {
	kept := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return &CatalogCache{client: client, prefixes: kept}
}

// Purge deletes every key under the configured prefixes and returns how
// many were removed.
func (c *CatalogCache) Purge(ctx context.Context) (int64, error) {
	var deleted int64
	for _, prefix := range c.prefixes {
		n, err := c.purgePrefix(ctx, prefix)
		deleted += n
		if err != nil {
			return deleted, err
		}
	}
	return deleted, nil
}

func (c *CatalogCache) purgePrefix(ctx context.Context, prefix string) (int64, error) {
	var deleted int64
	batch := make([]string, 0, scanBatch)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis del %s*: %w", prefix, err)
		}
		deleted += n
		batch = batch[:0]
		return nil
	}

	iter := c.client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return deleted, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("redis scan %s*: %w", prefix, err)
	}
	if err := flush(); err != nil {
		return deleted, err
	}
	return deleted, nil
}

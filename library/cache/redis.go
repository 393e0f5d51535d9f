package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Laisky/errors/v2"

	rdb "github.com/sheersh03/CaveBeat-Search-Engine/library/db/redis"
)

// RedisCache keeps entries in redis so several api instances share them.
// Expiry is delegated to redis.
type RedisCache struct {
	db  *rdb.DB
	ttl time.Duration
}

// NewRedisCache creates a Cache backed by db
func NewRedisCache(db *rdb.DB, ttl time.Duration) (*RedisCache, error) {
	if db == nil {
		return nil, errors.New("redis db is required")
	}

	return &RedisCache{
		db:  db,
		ttl: normalizeTTL(ttl),
	}, nil
}

// Get loads and decodes the entry under key
func (c *RedisCache) Get(ctx context.Context, key string) (*Entry, bool, error) {
	payload, found, err := c.db.GetEntry(ctx, rdb.KeyPrefixSearchCache, key)
	if err != nil || !found {
		return nil, false, err
	}

	entry := new(Entry)
	if err := json.Unmarshal(payload, entry); err != nil {
		return nil, false, errors.Wrapf(err, "decode cache entry %q", key)
	}

	return entry, true, nil
}

// Set encodes and stores entry with the cache ttl
func (c *RedisCache) Set(ctx context.Context, key string, entry *Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "encode cache entry")
	}

	return c.db.SetEntry(ctx, rdb.KeyPrefixSearchCache, key, payload, c.ttl)
}

// Keys lists the keys currently held in redis
func (c *RedisCache) Keys(ctx context.Context) ([]string, error) {
	keys, err := c.db.ListKeys(ctx, rdb.KeyPrefixSearchCache)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []string{}
	}

	return keys, nil
}

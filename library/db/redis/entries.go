package redis

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint passed to SCAN
const scanBatch = 100

// SetEntry stores payload under prefix+key with the given ttl
func (db *DB) SetEntry(ctx context.Context, prefix, key string, payload []byte, ttl time.Duration) error {
	if err := db.db.Set(ctx, prefix+key, payload, ttl).Err(); err != nil {
		return errors.Wrapf(err, "set %q", prefix+key)
	}

	return nil
}

// GetEntry loads prefix+key. found is false when the key does not exist.
func (db *DB) GetEntry(ctx context.Context, prefix, key string) (payload []byte, found bool, err error) {
	payload, err = db.db.Get(ctx, prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, errors.Wrapf(err, "get %q", prefix+key)
	}

	return payload, true, nil
}

// ListKeys returns every live key under prefix, with prefix stripped
func (db *DB) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := db.db.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, errors.Wrap(err, "scan keys")
		}

		for _, key := range batch {
			keys = append(keys, key[len(prefix):])
		}

		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

package redis

import (
	"context"

	"github.com/Laisky/errors/v2"
	"github.com/redis/go-redis/v9"
)

// DB is a wrapper for go-redis
type DB struct {
	db *redis.Client
}

// NewDB creates a new DB instance
func NewDB(opt *redis.Options) *DB {
	return &DB{
		db: redis.NewClient(opt),
	}
}

// Ping checks the connection to redis
func (db *DB) Ping(ctx context.Context) error {
	if err := db.db.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "ping redis")
	}

	return nil
}

// Close releases the underlying connection pool
func (db *DB) Close() error {
	return db.db.Close()
}

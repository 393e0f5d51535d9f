// Package cache stores recent search responses keyed by request fingerprint.
package cache

import (
	"context"
	"time"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

// DefaultTTL is used when no positive ttl is configured
const DefaultTTL = 60 * time.Second

// Entry is one cached search result list
type Entry struct {
	Results []search.PublicResult `json:"results"`
}

// Cache is a keyed response store with expiry.
//
// Expired entries are never returned by Get nor listed by Keys.
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, entry *Entry) error
	Keys(ctx context.Context) ([]string, error)
}

// Clock returns the current time
type Clock func() time.Time

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}

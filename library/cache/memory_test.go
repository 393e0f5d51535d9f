package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func sampleEntry(title string) *Entry {
	return &Entry{Results: []search.PublicResult{{Title: title, URL: "https://example.com/" + title}}}
}

func TestMemoryCacheHitWithinTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	c := NewMemoryCache(60*time.Second, WithClock(clock.Now))

	require.NoError(t, c.Set(ctx, "k", sampleEntry("a")))
	clock.Advance(59 * time.Second)

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", got.Results[0].Title)
}

func TestMemoryCacheExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	c := NewMemoryCache(60*time.Second, WithClock(clock.Now))

	require.NoError(t, c.Set(ctx, "k", sampleEntry("a")))
	clock.Advance(60 * time.Second)

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, got)

	keys, err := c.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestMemoryCacheKeysSkipsExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	c := NewMemoryCache(10*time.Second, WithClock(clock.Now))

	require.NoError(t, c.Set(ctx, "old", sampleEntry("old")))
	clock.Advance(6 * time.Second)
	require.NoError(t, c.Set(ctx, "b", sampleEntry("b")))
	require.NoError(t, c.Set(ctx, "a", sampleEntry("a")))
	clock.Advance(5 * time.Second)

	keys, err := c.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, keys)
}

func TestMemoryCacheSetReplaces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	c := NewMemoryCache(10*time.Second, WithClock(clock.Now))

	require.NoError(t, c.Set(ctx, "k", sampleEntry("first")))
	clock.Advance(8 * time.Second)
	require.NoError(t, c.Set(ctx, "k", sampleEntry("second")))
	clock.Advance(8 * time.Second)

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", got.Results[0].Title)
}

func TestMemoryCacheDefaultTTL(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(0)
	require.Equal(t, DefaultTTL, c.ttl)
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, "k", sampleEntry("x"))
			_, _, _ = c.Get(ctx, "k")
			_, _ = c.Keys(ctx)
		}()
	}
	wg.Wait()

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
}

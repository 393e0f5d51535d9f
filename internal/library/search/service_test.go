package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/cache"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

type countingSearcher struct {
	calls   int32
	results []search.PublicResult
	err     error
	gate    chan struct{}
}

func (c *countingSearcher) Search(ctx context.Context, req *search.Request) ([]search.PublicResult, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.gate != nil {
		<-c.gate
	}
	return c.results, c.err
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*cache.Entry, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, *cache.Entry) error {
	return errors.New("cache down")
}

func (failingCache) Keys(context.Context) ([]string, error) {
	return nil, errors.New("cache down")
}

func newRequest(t *testing.T, query string) *search.Request {
	t.Helper()
	req, err := search.NewRequest(query, search.Filters{}, "", search.ResultTypeWeb)
	require.NoError(t, err)
	return req
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, &countingSearcher{})
	require.Error(t, err)

	_, err = NewService(cache.NewMemoryCache(time.Minute), nil)
	require.Error(t, err)
}

func TestServiceSearchCachesResults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	searcher := &countingSearcher{results: []search.PublicResult{{Title: "a", URL: "https://a.example"}}}
	svc, err := NewService(cache.NewMemoryCache(time.Minute), searcher)
	require.NoError(t, err)

	first, err := svc.Search(ctx, newRequest(t, "golang"))
	require.NoError(t, err)
	require.False(t, first.FromCache)

	second, err := svc.Search(ctx, newRequest(t, "golang"))
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.Equal(t, first.Results, second.Results)
	require.EqualValues(t, 1, atomic.LoadInt32(&searcher.calls))

	keys, err := svc.CacheKeys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{search.CacheKey(newRequest(t, "golang"))}, keys)
}

func TestServiceDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	searcher := &countingSearcher{err: search.ErrMissingCredentials}
	store := cache.NewMemoryCache(time.Minute)
	svc, err := NewService(store, searcher)
	require.NoError(t, err)

	_, err = svc.Search(ctx, newRequest(t, "golang"))
	require.ErrorIs(t, err, search.ErrMissingCredentials)
	_, err = svc.Search(ctx, newRequest(t, "golang"))
	require.Error(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&searcher.calls))

	keys, err := svc.CacheKeys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestServiceEmptyResultsAreCachedAsEmptyList(t *testing.T) {
	t.Parallel()

	svc, err := NewService(cache.NewMemoryCache(time.Minute), &countingSearcher{})
	require.NoError(t, err)

	resp, err := svc.Search(context.Background(), newRequest(t, "nothing"))
	require.NoError(t, err)
	require.NotNil(t, resp.Results)
	require.Empty(t, resp.Results)
}

func TestServiceSurvivesBrokenCache(t *testing.T) {
	t.Parallel()

	searcher := &countingSearcher{results: []search.PublicResult{{Title: "a"}}}
	svc, err := NewService(failingCache{}, searcher)
	require.NoError(t, err)

	resp, err := svc.Search(context.Background(), newRequest(t, "golang"))
	require.NoError(t, err)
	require.False(t, resp.FromCache)
	require.Len(t, resp.Results, 1)

	_, err = svc.CacheKeys(context.Background())
	require.Error(t, err)
}

func TestServiceCoalescesConcurrentMisses(t *testing.T) {
	t.Parallel()

	searcher := &countingSearcher{
		results: []search.PublicResult{{Title: "a"}},
		gate:    make(chan struct{}),
	}
	svc, err := NewService(cache.NewMemoryCache(time.Minute), searcher, WithCoalescing(true))
	require.NoError(t, err)

	const callers = 4
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.Search(context.Background(), newRequest(t, "golang"))
			require.NoError(t, err)
			require.Len(t, resp.Results, 1)
		}()
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&searcher.calls) >= 1
	}, time.Second, 5*time.Millisecond)
	// let every caller reach the singleflight group before releasing the fetch
	time.Sleep(50 * time.Millisecond)
	close(searcher.gate)
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&searcher.calls))
}

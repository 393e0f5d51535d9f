package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComposeQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "web without scope",
			req:  Request{Query: "rust vs go", Type: ResultTypeWeb},
			want: "rust vs go",
		},
		{
			name: "site scope before hints",
			req:  Request{Query: "generics", SiteScope: "site:go.dev", Type: ResultTypeCode},
			want: "generics site:go.dev (code example OR repository OR implementation) " +
				"(site:github.com OR site:gitlab.com OR site:bitbucket.org OR site:npmjs.com OR site:stackoverflow.com)",
		},
		{
			name: "video hints",
			req:  Request{Query: "gophercon", Type: ResultTypeVideo},
			want: "gophercon (video OR watch OR playlist) (site:youtube.com OR site:vimeo.com OR site:dailymotion.com)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ComposeQuery(&tt.req))
		})
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	t.Parallel()

	a := &Request{Query: "x", Filters: Filters{Time: TimeAny, Region: RegionGlobal, Safe: true}, Type: ResultTypeWeb}
	b := &Request{Type: ResultTypeWeb, Filters: Filters{Safe: true, Region: RegionGlobal, Time: TimeAny}, Query: "x"}
	require.Equal(t, CacheKey(a), CacheKey(b))
	require.Equal(t,
		`{"query":"x","filters":{"time":"Any time","region":"Global","safe":true},"siteScope":"","searchType":"web"}`,
		CacheKey(a))

	b.Filters.Safe = false
	require.NotEqual(t, CacheKey(a), CacheKey(b))
}

func TestCacheKeyKeepsHTMLCharacters(t *testing.T) {
	t.Parallel()

	req := &Request{Query: "a&b <c>", Filters: Filters{Time: TimeAny, Region: RegionGlobal}, Type: ResultTypeWeb}
	require.Equal(t,
		`{"query":"a&b <c>","filters":{"time":"Any time","region":"Global","safe":false},"siteScope":"","searchType":"web"}`,
		CacheKey(req))
}

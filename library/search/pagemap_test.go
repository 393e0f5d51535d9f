package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPagemapUnmarshalDropsOffShapeBlocks(t *testing.T) {
	t.Parallel()

	var item RawItem
	err := json.Unmarshal([]byte(`{
		"title": "odd",
		"link": "https://odd.example/page",
		"pagemap": {
			"metatags": [{"og:image": "/x.png"}, "junk", null],
			"hcard": ["plain string"],
			"cse_image": {"src": "not-an-array"},
			"videoobject": [{"duration": "PT2M"}]
		}
	}`), &item)
	require.NoError(t, err)

	require.Equal(t, Pagemap{
		"metatags":    {{"og:image": "/x.png"}},
		"videoobject": {{"duration": "PT2M"}},
	}, item.Pagemap)

	result := Normalize(item, ResultTypeWeb)
	require.NotNil(t, result.Image)
	require.Equal(t, "https://odd.example/x.png", *result.Image)
	require.Equal(t, "PT2M", *result.Duration)
}

func TestPagemapUnmarshalNonObject(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`{"pagemap": "text"}`, `{"pagemap": [1, 2]}`, `{"pagemap": null}`, `{}`} {
		var item RawItem
		require.NoError(t, json.Unmarshal([]byte(raw), &item), raw)
		require.Empty(t, item.Pagemap, raw)
		require.Empty(t, item.Pagemap.Metatags(), raw)
	}
}

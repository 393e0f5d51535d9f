package search

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Pagemap is the provider's optional per-item structured metadata,
// every block is a list of loosely typed objects.
type Pagemap map[string][]map[string]any

// UnmarshalJSON decodes leniently: blocks that are not arrays and entries that
// are not objects are dropped, a non-object pagemap decodes to nil.
func (p *Pagemap) UnmarshalJSON(data []byte) error {
	var blocks map[string]json.RawMessage
	if err := json.Unmarshal(data, &blocks); err != nil || blocks == nil {
		*p = nil
		return nil
	}

	out := make(Pagemap, len(blocks))
	for name, rawBlock := range blocks {
		var entries []json.RawMessage
		if err := json.Unmarshal(rawBlock, &entries); err != nil {
			continue
		}

		objects := make([]map[string]any, 0, len(entries))
		for _, rawEntry := range entries {
			var obj map[string]any
			if err := json.Unmarshal(rawEntry, &obj); err != nil || obj == nil {
				continue
			}
			objects = append(objects, obj)
		}
		if len(objects) > 0 {
			out[name] = objects
		}
	}

	*p = out
	return nil
}

// first returns the first object of the named block, nil when absent.
func (p Pagemap) first(name string) map[string]any {
	if p == nil {
		return nil
	}
	block := p[name]
	if len(block) == 0 {
		return nil
	}
	return block[0]
}

// firstString returns field of the first object of the named block.
func (p Pagemap) firstString(name, field string) string {
	return stringValue(p.first(name)[field])
}

// metatagBlocks returns the raw metatags blocks in provider order.
func (p Pagemap) metatagBlocks() []map[string]any {
	if p == nil {
		return nil
	}
	return p["metatags"]
}

// Metatags flattens the metatags blocks into one mapping,
// later blocks overwrite earlier ones on key collision.
func (p Pagemap) Metatags() map[string]string {
	out := map[string]string{}
	for _, block := range p.metatagBlocks() {
		for k, v := range block {
			out[k] = stringValue(v)
		}
	}
	return out
}

// stringValue renders scalar JSON values as strings, anything else is empty.
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64, int, int64, bool:
		return fmt.Sprint(val)
	default:
		return ""
	}
}

// resolveAbsolute resolves ref against base and returns an absolute http(s) URL.
// ok is false for empty, malformed or non-http results.
func resolveAbsolute(ref, base string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", false
	}

	resolved := refURL
	if !refURL.IsAbs() {
		baseURL, err := url.Parse(strings.TrimSpace(base))
		if err != nil || !baseURL.IsAbs() {
			return "", false
		}
		resolved = baseURL.ResolveReference(refURL)
	}

	switch strings.ToLower(resolved.Scheme) {
	case "http", "https":
	default:
		return "", false
	}
	if resolved.Host == "" {
		return "", false
	}

	return resolved.String(), true
}

// bareHost returns the lower-cased host of rawURL without a leading "www.".
func bareHost(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www."), true
}

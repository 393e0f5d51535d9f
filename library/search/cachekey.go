package search

import (
	"bytes"
	"encoding/json"
	"strings"
)

// fingerprint is the serialized shape of a cache key, field order is fixed.
type fingerprint struct {
	Query      string     `json:"query"`
	Filters    Filters    `json:"filters"`
	SiteScope  string     `json:"siteScope"`
	SearchType ResultType `json:"searchType"`
}

// CacheKey returns the deterministic fingerprint of req.
// HTML characters are kept literal so keys read like the query text.
func CacheKey(req *Request) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// encoding plain strings and a bool cannot fail
	_ = enc.Encode(fingerprint{
		Query:      req.Query,
		Filters:    req.Filters,
		SiteScope:  req.SiteScope,
		SearchType: req.Type,
	})
	return strings.TrimSuffix(buf.String(), "\n")
}

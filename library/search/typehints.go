package search

import (
	"strings"
)

// TypeHint augments the query of a non-web ResultType.
type TypeHint struct {
	// QuerySuffix is a disjunctive clause appended to the query text.
	QuerySuffix string
	// SiteFilters are rendered as `(site:a OR site:b)`.
	SiteFilters []string
	// DateRestrict applies only when the time filter set none.
	DateRestrict string
}

// TypeHints holds the augmentation table, adding a result type is a data change.
var TypeHints = map[ResultType]TypeHint{
	ResultTypeNews: {
		QuerySuffix:  "(news OR press release OR announcement)",
		SiteFilters:  []string{"news.google.com", "reuters.com", "apnews.com", "bbc.com", "bloomberg.com"},
		DateRestrict: "w1",
	},
	ResultTypeVideo: {
		QuerySuffix: "(video OR watch OR playlist)",
		SiteFilters: []string{"youtube.com", "vimeo.com", "dailymotion.com"},
	},
	ResultTypeAcademic: {
		QuerySuffix: "(research OR academic paper OR whitepaper)",
		SiteFilters: []string{"arxiv.org", "ieee.org", "springer.com", "acm.org", "nature.com"},
	},
	ResultTypeCode: {
		QuerySuffix: "(code example OR repository OR implementation)",
		SiteFilters: []string{"github.com", "gitlab.com", "bitbucket.org", "npmjs.com", "stackoverflow.com"},
	},
}

// HintFor returns the TypeHint of t, ok is false for types without one.
func HintFor(t ResultType) (TypeHint, bool) {
	hint, ok := TypeHints[t]
	return hint, ok
}

// Apply appends the suffix and the site clause to query.
func (h TypeHint) Apply(query string) string {
	if h.QuerySuffix != "" {
		query = query + " " + h.QuerySuffix
	}
	if len(h.SiteFilters) > 0 {
		clauses := make([]string, 0, len(h.SiteFilters))
		for _, domain := range h.SiteFilters {
			clauses = append(clauses, "site:"+domain)
		}
		query = query + " (" + strings.Join(clauses, " OR ") + ")"
	}

	return query
}

// ComposeQuery builds the provider query text: query, then site scope, then type hints.
func ComposeQuery(req *Request) string {
	q := req.Query
	if req.SiteScope != "" {
		q = q + " " + req.SiteScope
	}
	if hint, ok := HintFor(req.Type); ok {
		q = hint.Apply(q)
	}

	return q
}

// videoHosts is the allowlist used by the video post-filter.
func videoHosts() map[string]struct{} {
	hint := TypeHints[ResultTypeVideo]
	hosts := make(map[string]struct{}, len(hint.SiteFilters))
	for _, h := range hint.SiteFilters {
		hosts[h] = struct{}{}
	}
	return hosts
}

package search

import (
	"strings"
)

// ResultType is the requested search category, it drives query augmentation
// and provider parameters.
type ResultType string

const (
	ResultTypeWeb      ResultType = "web"
	ResultTypeImage    ResultType = "image"
	ResultTypeNews     ResultType = "news"
	ResultTypeVideo    ResultType = "video"
	ResultTypeAcademic ResultType = "academic"
	ResultTypeCode     ResultType = "code"
)

// ParseResultType maps raw user input onto a known ResultType.
// Unknown or empty values fall back to ResultTypeWeb.
func ParseResultType(raw string) ResultType {
	switch t := ResultType(strings.ToLower(strings.TrimSpace(raw))); t {
	case ResultTypeWeb, ResultTypeImage, ResultTypeNews,
		ResultTypeVideo, ResultTypeAcademic, ResultTypeCode:
		return t
	default:
		return ResultTypeWeb
	}
}

// TimeRange restricts results by publication age.
type TimeRange string

const (
	TimeAny       TimeRange = "Any time"
	TimePastDay   TimeRange = "Past day"
	TimePastWeek  TimeRange = "Past week"
	TimePastMonth TimeRange = "Past month"
	TimePastYear  TimeRange = "Past year"
)

// ParseTimeRange returns the matching TimeRange or TimeAny.
func ParseTimeRange(raw string) TimeRange {
	switch t := TimeRange(strings.TrimSpace(raw)); t {
	case TimeAny, TimePastDay, TimePastWeek, TimePastMonth, TimePastYear:
		return t
	default:
		return TimeAny
	}
}

// Region geolocates results.
type Region string

const (
	RegionGlobal Region = "Global"
	RegionUS     Region = "US"
	RegionIndia  Region = "India"
	RegionEU     Region = "EU"
	RegionSEA    Region = "SEA"
)

// ParseRegion returns the matching Region or RegionGlobal.
func ParseRegion(raw string) Region {
	switch r := Region(strings.TrimSpace(raw)); r {
	case RegionGlobal, RegionUS, RegionIndia, RegionEU, RegionSEA:
		return r
	default:
		return RegionGlobal
	}
}

// Filters are the user-selectable search filters.
// Field order is part of the cache fingerprint, do not reorder.
type Filters struct {
	Time   TimeRange `json:"time"`
	Region Region    `json:"region"`
	Safe   bool      `json:"safe"`
}

// Request is one logical search request.
type Request struct {
	Query     string
	Filters   Filters
	SiteScope string
	Type      ResultType
}

// NewRequest builds a validated Request from raw user input.
// It returns an *InputError when the query is blank.
func NewRequest(query string, filters Filters, siteScope string, resultType ResultType) (*Request, error) {
	req := &Request{
		Query:     query,
		Filters:   filters,
		SiteScope: siteScope,
		Type:      resultType,
	}
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	return req, nil
}

// Normalize trims text fields and replaces unknown enum values with defaults.
func (r *Request) Normalize() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return &InputError{Field: "query", Message: "Missing query parameter"}
	}

	r.SiteScope = strings.TrimSpace(r.SiteScope)
	r.Filters.Time = ParseTimeRange(string(r.Filters.Time))
	r.Filters.Region = ParseRegion(string(r.Filters.Region))
	r.Type = ParseResultType(string(r.Type))
	return nil
}

// Result is a normalized search result.
// IsVideo is only used by the video post-filter and never leaves the package
// boundary, see PublicResult.
type Result struct {
	Title     string
	URL       string
	Site      string
	Snippet   string
	Image     *string
	Published *string
	Byline    *string
	Duration  *string
	IsVideo   bool
}

// PublicResult is the wire representation of Result.
type PublicResult struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Site      string  `json:"site"`
	Snippet   string  `json:"snippet"`
	Image     *string `json:"image"`
	Published *string `json:"published"`
	Byline    *string `json:"byline"`
	Duration  *string `json:"duration"`
}

// Response is the body returned for a successful search.
type Response struct {
	FromCache bool           `json:"fromCache"`
	Results   []PublicResult `json:"results"`
}

// RawItem is one item of the provider's `items` array.
type RawItem struct {
	Title       string  `json:"title"`
	Link        string  `json:"link"`
	DisplayLink string  `json:"displayLink"`
	Snippet     string  `json:"snippet"`
	Pagemap     Pagemap `json:"pagemap,omitempty"`
}

// identity returns the dedup key of the item, empty when it has none.
func (i RawItem) identity() string {
	if i.Link != "" {
		return i.Link
	}
	return i.Title
}

// Page is one provider response page.
type Page struct {
	Items       []RawItem
	HasNextPage bool
}

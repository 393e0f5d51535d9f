package google

import (
	"net/url"
	"strconv"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

const (
	resultsPerPage = 10

	imageFields = "items(title,link,snippet,image,displayLink),queries(nextPage)"
	webFields   = "items(title,link,snippet,displayLink,pagemap),queries(nextPage)"
)

var regionParams = map[search.Region]string{
	search.RegionUS:    "us",
	search.RegionIndia: "in",
	search.RegionEU:    "uk",
	search.RegionSEA:   "sg",
}

var timeParams = map[search.TimeRange]string{
	search.TimePastDay:   "d1",
	search.TimePastWeek:  "w1",
	search.TimePastMonth: "m1",
	search.TimePastYear:  "y1",
}

// BuildParams converts req into Custom Search query parameters.
// start <= 0 omits the `start` parameter.
func BuildParams(creds Credentials, req *search.Request, start int) (url.Values, error) {
	if !creds.Valid() {
		return nil, search.ErrMissingCredentials
	}

	params := url.Values{}
	params.Set("key", creds.APIKey)
	params.Set("cx", creds.CX)
	params.Set("num", strconv.Itoa(resultsPerPage))
	if req.Filters.Safe {
		params.Set("safe", "active")
	} else {
		params.Set("safe", "off")
	}

	if gl, ok := regionParams[req.Filters.Region]; ok {
		params.Set("gl", gl)
	}
	dateRestrict, hasDateRestrict := timeParams[req.Filters.Time]
	if hasDateRestrict {
		params.Set("dateRestrict", dateRestrict)
	}

	if req.Type == search.ResultTypeImage {
		params.Set("searchType", "image")
		params.Set("fields", imageFields)
	} else {
		params.Set("fields", webFields)
	}

	if hint, ok := search.HintFor(req.Type); ok && hint.DateRestrict != "" && !hasDateRestrict {
		params.Set("dateRestrict", hint.DateRestrict)
	}

	params.Set("q", search.ComposeQuery(req))
	if start > 0 {
		params.Set("start", strconv.Itoa(start))
	}

	return params, nil
}

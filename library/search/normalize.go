package search

import (
	"strings"

	"github.com/Laisky/zap"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/log"
)

// imageMetaKeys are page meta tags that may carry a preview image, in priority order.
var imageMetaKeys = []string{
	"og:image",
	"og:image:url",
	"og:image:secure_url",
	"twitter:image",
	"twitter:image:src",
}

// Normalize maps one provider item into a Result.
func Normalize(item RawItem, resultType ResultType) Result {
	if resultType == ResultTypeImage {
		return Result{
			Title:   item.Title,
			URL:     item.Link,
			Site:    item.DisplayLink,
			Snippet: item.Snippet,
			Image:   optional(item.Link),
		}
	}

	metatags := item.Pagemap.Metatags()
	video := item.Pagemap.first("videoobject")

	byline := metatags["og:site_name"]
	if byline == "" {
		byline = metatags["twitter:creator"]
	}
	if byline == "" {
		byline = item.DisplayLink
	}

	duration := stringValue(video["duration"])
	if duration == "" {
		duration = stringValue(video["length"])
	}

	return Result{
		Title:     item.Title,
		URL:       item.Link,
		Site:      item.DisplayLink,
		Snippet:   item.Snippet,
		Image:     extractImage(item),
		Published: extractPublished(item, metatags),
		Byline:    optional(byline),
		Duration:  optional(duration),
		IsVideo: strings.Contains(strings.ToLower(metatags["og:type"]), "video") ||
			video != nil,
	}
}

// extractImage returns the first image candidate that resolves to an absolute URL.
func extractImage(item RawItem) *string {
	candidates := make([]string, 0, 4)
	if src := item.Pagemap.firstString("cse_image", "src"); src != "" {
		candidates = append(candidates, src)
	}
	if src := item.Pagemap.firstString("cse_thumbnail", "src"); src != "" {
		candidates = append(candidates, src)
	}
	for _, block := range item.Pagemap.metatagBlocks() {
		for _, key := range imageMetaKeys {
			if v := stringValue(block[key]); v != "" {
				candidates = append(candidates, v)
			}
		}
	}

	for _, candidate := range candidates {
		if resolved, ok := resolveAbsolute(candidate, item.Link); ok {
			return &resolved
		}
		log.Logger.Debug("skip unresolvable image candidate",
			zap.String("candidate", candidate),
			zap.String("link", item.Link))
	}

	return nil
}

// extractPublished returns the first parseable publish date as ISO-8601.
func extractPublished(item RawItem, metatags map[string]string) *string {
	article := item.Pagemap.first("newsarticle")
	if article == nil {
		article = item.Pagemap.first("article")
	}

	candidates := []string{
		stringValue(article["datepublished"]),
		stringValue(article["datemodified"]),
		item.Pagemap.firstString("videoobject", "uploaddate"),
		metatags["article:published_time"],
		metatags["og:updated_time"],
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if t, ok := parseDate(candidate); ok {
			iso := formatISO(t)
			return &iso
		}
		log.Logger.Debug("skip unparseable date candidate",
			zap.String("candidate", candidate),
			zap.String("link", item.Link))
	}

	return nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

package search

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/jinzhu/copier"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/log"
)

const (
	// imageResultCap bounds the unique items collected for an image search.
	imageResultCap = 30
)

// imagePageStarts are the provider start offsets fetched for image searches.
var imagePageStarts = []int{1, 11, 21}

// PageFetcher fetches one provider page.
type PageFetcher interface {
	// FetchPage requests the page beginning at start, start <= 0 omits the offset.
	FetchPage(ctx context.Context, req *Request, start int) (*Page, error)
}

// OrchestratorOption customises an Orchestrator during construction.
type OrchestratorOption func(*Orchestrator)

// WithLogger overrides the fallback logger used when no contextual logger is available.
func WithLogger(logger logSDK.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator issues the page requests of one search, merges and filters them.
type Orchestrator struct {
	fetcher PageFetcher
	logger  logSDK.Logger
}

// NewOrchestrator constructs an Orchestrator on top of fetcher.
func NewOrchestrator(fetcher PageFetcher, opts ...OrchestratorOption) (*Orchestrator, error) {
	if fetcher == nil {
		return nil, errors.New("page fetcher cannot be nil")
	}

	o := &Orchestrator{
		fetcher: fetcher,
		logger:  log.Logger.Named("search_orchestrator"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return o, nil
}

func (o *Orchestrator) loggerFor(ctx context.Context, req *Request) logSDK.Logger {
	logger := o.logger
	if ctx != nil {
		if ctxLogger := gmw.GetLogger(ctx); ctxLogger != nil {
			logger = ctxLogger.Named("search_orchestrator")
		}
	}
	return logger.With(
		zap.String("query", req.Query),
		zap.String("type", string(req.Type)),
	)
}

// FetchAll fetches every page required by req and returns the deduplicated raw items.
//
// Image searches fetch up to three pages sequentially and stop early when the
// provider reports no next page. Any page failure aborts the whole request.
func (o *Orchestrator) FetchAll(ctx context.Context, req *Request) ([]RawItem, error) {
	if req == nil {
		return nil, errors.New("search request cannot be nil")
	}
	logger := o.loggerFor(ctx, req)

	starts := []int{0}
	if req.Type == ResultTypeImage {
		starts = imagePageStarts
	}

	var collected []RawItem
	for _, start := range starts {
		startAt := time.Now()
		page, err := o.fetcher.FetchPage(ctx, req, start)
		if err != nil {
			if start > 0 {
				return nil, errors.Wrapf(err, "fetch page at start %d", start)
			}
			return nil, err
		}

		logger.Debug("fetched page",
			zap.Int("start", start),
			zap.Int("items", len(page.Items)),
			zap.Bool("has_next_page", page.HasNextPage),
			zap.Duration("cost", time.Since(startAt)))

		collected = append(collected, page.Items...)
		if !page.HasNextPage {
			break
		}
	}

	limit := 0
	if req.Type == ResultTypeImage {
		limit = imageResultCap
	}

	return Dedupe(collected, limit), nil
}

// Dedupe keeps the first item of every identity in order.
// Items without link and title are dropped, limit <= 0 means unbounded.
func Dedupe(items []RawItem, limit int) []RawItem {
	seen := make(map[string]struct{}, len(items))
	unique := make([]RawItem, 0, len(items))
	for _, item := range items {
		key := item.identity()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		unique = append(unique, item)
		if limit > 0 && len(unique) >= limit {
			break
		}
	}

	return unique
}

// Search fetches, normalizes and filters the results of req.
func (o *Orchestrator) Search(ctx context.Context, req *Request) ([]PublicResult, error) {
	items, err := o.FetchAll(ctx, req)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		results = append(results, Normalize(item, req.Type))
	}

	if req.Type == ResultTypeVideo {
		results = FilterVideos(results)
	}

	return ToPublic(results)
}

// FilterVideos keeps results flagged as video or hosted on a known video site.
func FilterVideos(results []Result) []Result {
	hosts := videoHosts()
	kept := make([]Result, 0, len(results))
	for _, r := range results {
		if r.IsVideo {
			kept = append(kept, r)
			continue
		}

		host, ok := bareHost(r.URL)
		if !ok {
			continue
		}
		if _, allowed := hosts[host]; allowed {
			kept = append(kept, r)
		}
	}

	return kept
}

// ToPublic strips internal-only fields from results.
func ToPublic(results []Result) ([]PublicResult, error) {
	out := make([]PublicResult, 0, len(results))
	if len(results) == 0 {
		return out, nil
	}
	if err := copier.Copy(&out, &results); err != nil {
		return nil, errors.Wrap(err, "copy results")
	}

	return out, nil
}

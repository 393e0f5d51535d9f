package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	appLog "github.com/sheersh03/CaveBeat-Search-Engine/library/log"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

const (
	httpRequestTimeout = 10 * time.Second
	// logBodyLimit caps the number of response bytes logged for debugging.
	logBodyLimit = 4096
	// DefaultEndpoint is the Custom Search JSON API endpoint.
	DefaultEndpoint = "https://www.googleapis.com/customsearch/v1"
)

// Option configures the SearchEngine instance.
type Option func(*SearchEngine)

// WithHTTPClient overrides the HTTP client used to talk to the API.
func WithHTTPClient(client *http.Client) Option {
	return func(engine *SearchEngine) {
		if client != nil {
			engine.client = client
		}
	}
}

// WithEndpoint overrides the API endpoint, primarily for testing.
func WithEndpoint(endpoint string) Option {
	return func(engine *SearchEngine) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			engine.endpoint = trimmed
		}
	}
}

// WithLogger overrides the default logger used when no contextual logger is present.
func WithLogger(logger logSDK.Logger) Option {
	return func(engine *SearchEngine) {
		if logger != nil {
			engine.logger = logger
		}
	}
}

// SearchEngine provides access to the Google Programmable Search API.
// It implements search.PageFetcher.
type SearchEngine struct {
	credentials CredentialSource
	endpoint    string
	client      *http.Client
	logger      logSDK.Logger
}

// NewSearchEngine instantiates a Programmable Search client.
// Credentials are read from source on every request.
func NewSearchEngine(source CredentialSource, opts ...Option) *SearchEngine {
	if source == nil {
		source = StaticCredentials("", "")
	}

	engine := &SearchEngine{
		credentials: source,
		endpoint:    DefaultEndpoint,
		client:      &http.Client{Timeout: httpRequestTimeout},
		logger:      appLog.Logger.Named("google_search"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(engine)
		}
	}

	return engine
}

// Credentials returns the currently resolved credentials.
func (se *SearchEngine) Credentials() Credentials {
	return ResolveCredentials(se.credentials())
}

// customSearchResponse models the subset of the Custom Search payload we read.
type customSearchResponse struct {
	Items   []search.RawItem `json:"items"`
	Queries *struct {
		NextPage []json.RawMessage `json:"nextPage,omitempty"`
	} `json:"queries,omitempty"`
}

// FetchPage executes one Custom Search request.
func (se *SearchEngine) FetchPage(ctx context.Context, req *search.Request, start int) (*search.Page, error) {
	params, err := BuildParams(se.Credentials(), req, start)
	if err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(se.endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid google search endpoint %q", se.endpoint)
	}
	endpoint.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create google search request")
	}
	httpReq.Header.Set("Accept", "application/json")

	logger := se.logger
	if ctx != nil {
		if ctxLogger := gmw.GetLogger(ctx); ctxLogger != nil {
			logger = ctxLogger.Named("google_search")
		}
	}

	logURL := redactURL(endpoint)
	logger.Debug("outgoing http request",
		zap.String("method", httpReq.Method),
		zap.String("url", logURL),
		zap.String("query", req.Query),
		zap.Int("start", start),
	)

	startAt := time.Now()
	resp, err := se.client.Do(httpReq)
	if err != nil {
		return nil, errors.Errorf("send google search request to %s: %s", logURL, redactError(err, params.Get("key")))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read google search response body")
	}

	truncatedBody, truncated := truncateForLog(body, logBodyLimit)
	logger.Debug("incoming http response",
		zap.String("url", logURL),
		zap.Int("status", resp.StatusCode),
		zap.String("body", truncatedBody),
		zap.Bool("body_truncated", truncated),
		zap.Duration("cost", time.Since(startAt)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &search.UpstreamError{Status: resp.StatusCode, Body: truncatedBody}
	}

	result := new(customSearchResponse)
	if err := json.Unmarshal(body, result); err != nil {
		return nil, &search.UpstreamError{
			Status: resp.StatusCode,
			Body:   "malformed JSON response: " + err.Error(),
		}
	}

	if len(result.Items) == 0 {
		logger.Warn("google search returned no results",
			zap.String("query", req.Query),
			zap.Int("start", start),
		)
	}

	return &search.Page{
		Items:       result.Items,
		HasNextPage: result.Queries != nil && len(result.Queries.NextPage) > 0,
	}, nil
}

// redactURL renders u without the api key.
func redactURL(u *url.URL) string {
	clone := *u
	q := clone.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
	}
	clone.RawQuery = q.Encode()
	return clone.String()
}

// redactError strips secret from the message of err.
func redactError(err error, secret string) string {
	msg := err.Error()
	if secret == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(secret), "REDACTED")
	return strings.ReplaceAll(msg, secret, "REDACTED")
}

func truncateForLog(body []byte, limit int) (string, bool) {
	if len(body) <= limit {
		return string(body), false
	}
	return string(body[:limit]), true
}

// Package web gin server
package web

import (
	"context"
	"net/http"

	"github.com/Laisky/errors/v2"
	ginMw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/sheersh03/CaveBeat-Search-Engine/internal/library/llm"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/log"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

// SearchService answers cached searches
type SearchService interface {
	Search(ctx context.Context, req *search.Request) (*search.Response, error)
	CacheKeys(ctx context.Context) ([]string, error)
}

// ChatService answers chat conversations
type ChatService interface {
	Chat(ctx context.Context, messages []llm.Message, temperature float64) (*llm.Reply, error)
}

// Handlers are the services mounted on the server.
// Chat and MCP are optional.
type Handlers struct {
	Search SearchService
	Chat   ChatService
	MCP    http.Handler
}

// Options tunes the gin engine
type Options struct {
	// AllowedOrigins lists CORS origins, `*` allows any and `*.example.com` allows subdomains
	AllowedOrigins []string
	// EnableMetric exposes prometheus metrics on /metrics
	EnableMetric bool
	// Limiter throttles the upstream-backed routes, nil disables throttling
	Limiter Limiter
}

// Limiter decides whether a client may issue one more request
type Limiter interface {
	Allow(client string) bool
}

// NewServer builds the gin engine serving every api route
func NewServer(h Handlers, opts Options) (*gin.Engine, error) {
	if h.Search == nil {
		return nil, errors.New("search service is required")
	}

	server := gin.New()
	// handlers pass *gin.Context down as context.Context
	server.ContextWithFallback = true
	server.Use(
		gin.Recovery(),
		ginMw.NewLoggerMiddleware(
			ginMw.WithLoggerMwColored(),
			ginMw.WithLevel(log.Logger.Level().String()),
			ginMw.WithLogger(log.Logger.Named("gin")),
		),
		newCORSMiddleware(opts.AllowedOrigins),
	)

	if opts.EnableMetric {
		if err := ginMw.EnableMetric(server); err != nil {
			return nil, errors.Wrap(err, "enable metric server")
		}
	}

	server.Any("/health", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world")
	})

	api := server.Group("/api")
	api.GET("/search", throttleMiddleware(opts.Limiter), searchHandler(h.Search))
	api.GET("/health", healthHandler(h.Search))
	if h.Chat != nil {
		api.POST("/chat", throttleMiddleware(opts.Limiter), chatHandler(h.Chat))
	}

	if h.MCP != nil {
		server.Any("/mcp", gin.WrapH(h.MCP))
	}

	return server, nil
}

// RunServer serves engine on addr until the listener fails
func RunServer(addr string, engine *gin.Engine) error {
	log.Logger.Info("listening on http", zap.String("addr", addr))
	if err := engine.Run(addr); err != nil {
		return errors.Wrapf(err, "serve http on %s", addr)
	}

	return nil
}

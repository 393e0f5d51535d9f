package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods  = "GET, POST, DELETE, OPTIONS"
	corsAllowHeaders  = "Content-Type, Authorization, Accept, Origin, X-Requested-With, Mcp-Session-Id, Mcp-Protocol-Version"
	corsExposeHeaders = "Mcp-Session-Id"
	corsMaxAge        = "86400"
)

type originPolicy struct {
	any      bool
	exact    map[string]struct{}
	suffixes []string
}

func newOriginPolicy(allowed []string) *originPolicy {
	policy := &originPolicy{exact: map[string]struct{}{}}
	for _, raw := range allowed {
		entry := strings.ToLower(strings.TrimRight(strings.TrimSpace(raw), "/"))
		switch {
		case entry == "":
		case entry == "*":
			policy.any = true
		case strings.HasPrefix(entry, "*."):
			policy.suffixes = append(policy.suffixes, entry[1:])
		default:
			policy.exact[entry] = struct{}{}
		}
	}

	return policy
}

// allows reports whether origin may call the api
func (p *originPolicy) allows(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	normalized := strings.ToLower(parsed.Scheme + "://" + parsed.Host)
	if _, ok := p.exact[normalized]; ok {
		return true
	}

	host := strings.ToLower(parsed.Hostname())
	for _, suffix := range p.suffixes {
		if strings.HasSuffix(host, suffix) || host == suffix[1:] {
			return true
		}
	}

	return false
}

// newCORSMiddleware answers preflights and sets CORS headers.
// An empty allow list behaves like `*`.
func newCORSMiddleware(allowed []string) gin.HandlerFunc {
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	policy := newOriginPolicy(allowed)

	return func(ctx *gin.Context) {
		origin := strings.TrimSpace(ctx.Request.Header.Get("Origin"))

		allowedOrigin := ""
		switch {
		case policy.any:
			allowedOrigin = "*"
		case origin != "" && policy.allows(origin):
			allowedOrigin = origin
		}

		if allowedOrigin != "" {
			ctx.Header("Access-Control-Allow-Origin", allowedOrigin)
			ctx.Header("Access-Control-Allow-Methods", corsAllowMethods)
			ctx.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			ctx.Header("Access-Control-Expose-Headers", corsExposeHeaders)
			ctx.Header("Access-Control-Max-Age", corsMaxAge)
			if allowedOrigin != "*" {
				ctx.Header("Access-Control-Allow-Credentials", "true")
				ctx.Header("Vary", "Origin")
			}

			if ctx.Request.Method == http.MethodOptions {
				ctx.AbortWithStatus(http.StatusNoContent)
				return
			}
		} else if origin != "" && ctx.Request.Method == http.MethodOptions {
			// deny preflight from disallowed origins
			ctx.AbortWithStatus(http.StatusForbidden)
			return
		}

		ctx.Next()
	}
}

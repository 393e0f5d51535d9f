package web

import (
	"encoding/json"
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/sheersh03/CaveBeat-Search-Engine/internal/library/llm"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
)

const (
	msgFetchFailed      = "Failed to fetch live results"
	msgMessagesRequired = "Messages array is required."
	msgTooManyRequests  = "Too many requests, slow down."
)

func throttleMiddleware(limiter Limiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if limiter == nil {
			ctx.Next()
			return
		}

		if !limiter.Allow(ctx.ClientIP()) {
			gmw.GetLogger(ctx).Debug("request throttled",
				zap.String("client", ctx.ClientIP()),
				zap.String("path", ctx.FullPath()))
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": msgTooManyRequests})
			return
		}

		ctx.Next()
	}
}

func searchHandler(svc SearchService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		logger := gmw.GetLogger(ctx).Named("api_search")

		req, err := search.NewRequest(
			ctx.Query("query"),
			search.Filters{
				Time:   search.ParseTimeRange(ctx.Query("time")),
				Region: search.ParseRegion(ctx.Query("region")),
				// safe search stays on unless explicitly disabled
				Safe: ctx.Query("safe") != "off",
			},
			ctx.Query("siteScope"),
			search.ParseResultType(ctx.Query("type")),
		)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": inputMessage(err)})
			return
		}

		resp, err := svc.Search(ctx, req)
		if err != nil {
			status := searchErrorStatus(err)
			logger.Error("search failed",
				zap.String("query", req.Query),
				zap.Int("status", status),
				zap.Error(err))
			if status == http.StatusBadRequest {
				ctx.JSON(status, gin.H{"error": inputMessage(err)})
				return
			}

			ctx.JSON(status, gin.H{"error": msgFetchFailed, "details": err.Error()})
			return
		}

		ctx.JSON(http.StatusOK, resp)
	}
}

func searchErrorStatus(err error) int {
	switch {
	case search.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrMissingCredentials):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func inputMessage(err error) string {
	var inputErr *search.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	return err.Error()
}

func healthHandler(svc SearchService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		keys, err := svc.CacheKeys(ctx)
		if err != nil {
			gmw.GetLogger(ctx).Warn("list cache keys", zap.Error(err))
			keys = nil
		}
		if keys == nil {
			keys = []string{}
		}

		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "cacheKeys": keys})
	}
}

type chatRequest struct {
	Messages    json.RawMessage `json:"messages"`
	Temperature any             `json:"temperature"`
}

func chatHandler(svc ChatService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		body := new(chatRequest)
		if raw, err := ctx.GetRawData(); err == nil && len(raw) > 0 {
			// malformed bodies fall through to the empty messages check
			_ = json.Unmarshal(raw, body)
		}

		messages, err := llm.ParseMessages(body.Messages)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": msgMessagesRequired})
			return
		}

		reply, err := svc.Chat(ctx, messages, llm.ParseTemperature(body.Temperature))
		if err != nil {
			if reply == nil {
				reply = &llm.Reply{
					Reply:    llm.FallbackReply(messages, err.Error()),
					Provider: llm.ProviderFallback,
					Error:    err.Error(),
				}
			}
			ctx.JSON(http.StatusInternalServerError, reply)
			return
		}

		ctx.JSON(http.StatusOK, reply)
	}
}

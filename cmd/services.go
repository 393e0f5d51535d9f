package cmd

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/redis/go-redis/v9"

	isearch "github.com/sheersh03/CaveBeat-Search-Engine/internal/library/search"
	"github.com/sheersh03/CaveBeat-Search-Engine/internal/library/llm"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/cache"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/config"
	rdb "github.com/sheersh03/CaveBeat-Search-Engine/library/db/redis"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/log"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/search"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/search/google"
	"github.com/sheersh03/CaveBeat-Search-Engine/library/throttle"
)

const defaultCacheTTLSeconds = 60

// googleCredentials reads the Programmable Search credentials on every call,
// so a reloaded configuration is picked up without a restart.
func googleCredentials() (apiKey, cx string) {
	return config.StringOrEnv("settings.search.google.api_key", "GOOGLE_API_KEY"),
		config.StringOrEnv("settings.search.google.cx", "GOOGLE_CX")
}

func newSearchEngine() *google.SearchEngine {
	return google.NewSearchEngine(googleCredentials,
		google.WithEndpoint(gconfig.Shared.GetString("settings.search.google.endpoint")),
		google.WithLogger(log.Logger.Named("google_search")),
	)
}

// warnIfCredentialsMissing logs once at startup when search cannot reach Google.
func warnIfCredentialsMissing(engine *google.SearchEngine) {
	if engine.Credentials().Valid() {
		return
	}

	log.Logger.Warn("google credentials are not configured, /api/search will answer 503",
		zap.String("api_key_setting", "settings.search.google.api_key or GOOGLE_API_KEY"),
		zap.String("cx_setting", "settings.search.google.cx or GOOGLE_CX"))
}

// newCache picks redis when settings.db.redis.addr is set, otherwise memory.
// The returned closer releases the redis pool and is never nil.
func newCache(ctx context.Context) (cache.Cache, func() error, error) {
	ttl := time.Duration(config.IntOrEnv("settings.search.cache_ttl_seconds",
		"SEARCH_CACHE_TTL", defaultCacheTTLSeconds)) * time.Second
	noop := func() error { return nil }

	addr := config.StringOrEnv("settings.db.redis.addr", "REDIS_ADDR")
	if addr == "" {
		log.Logger.Info("use memory search cache", zap.Duration("ttl", ttl))
		return cache.NewMemoryCache(ttl), noop, nil
	}

	db := rdb.NewDB(&redis.Options{
		Addr:     addr,
		Password: gconfig.Shared.GetString("settings.db.redis.password"),
		DB:       gconfig.Shared.GetInt("settings.db.redis.db"),
	})
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, noop, errors.Wrapf(err, "connect redis %s", addr)
	}

	store, err := cache.NewRedisCache(db, ttl)
	if err != nil {
		_ = db.Close()
		return nil, noop, err
	}

	log.Logger.Info("use redis search cache", zap.String("addr", addr), zap.Duration("ttl", ttl))
	return store, db.Close, nil
}

func newSearchService(ctx context.Context, engine *google.SearchEngine) (*isearch.Service, func() error, error) {
	orchestrator, err := search.NewOrchestrator(engine,
		search.WithLogger(log.Logger.Named("search_orchestrator")))
	if err != nil {
		return nil, nil, errors.Wrap(err, "new orchestrator")
	}

	store, closer, err := newCache(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "new cache")
	}

	svc, err := isearch.NewService(store, orchestrator,
		isearch.WithCoalescing(gconfig.Shared.GetBool("settings.search.coalesce_inflight")))
	if err != nil {
		_ = closer()
		return nil, nil, errors.Wrap(err, "new search service")
	}

	return svc, closer, nil
}

func newChatService() *llm.ChatService {
	svc := llm.NewChatService(llm.Settings{
		HuggingFace: llm.ProviderConfig{
			URL:   config.StringOrEnv("settings.chat.huggingface.endpoint_url", "HF_ENDPOINT_URL"),
			Token: config.StringOrEnv("settings.chat.huggingface.api_token", "HF_API_TOKEN"),
			Model: config.StringOrEnv("settings.chat.huggingface.model", "HF_MODEL"),
		},
		OpenAI: llm.ProviderConfig{
			URL:   config.StringOrEnv("settings.chat.openai.api_url", "OPENAI_API_URL"),
			Token: config.StringOrEnv("settings.chat.openai.api_key", "OPENAI_API_KEY"),
			Model: config.StringOrEnv("settings.chat.openai.model", "OPENAI_MODEL"),
		},
	})

	name, cfg, _ := svc.Provider()
	log.Logger.Info("chat provider selected",
		zap.String("provider", name),
		zap.String("model", cfg.Model))
	return svc
}

// newThrottle limits search and chat calls, defaults keep well under the
// free Programmable Search quota burst.
func newThrottle(ctx context.Context) (*throttle.Throttle, error) {
	cfg := throttle.Config{
		TotalNPerSec:  config.IntOrEnv("settings.web.throttle.total_per_sec", "THROTTLE_TOTAL_PER_SEC", 10),
		TotalBurst:    config.IntOrEnv("settings.web.throttle.total_burst", "THROTTLE_TOTAL_BURST", 20),
		ClientNPerSec: config.IntOrEnv("settings.web.throttle.client_per_sec", "THROTTLE_CLIENT_PER_SEC", 1),
		ClientBurst:   config.IntOrEnv("settings.web.throttle.client_burst", "THROTTLE_CLIENT_BURST", 5),
		MaxClients:    config.IntOrEnv("settings.web.throttle.max_clients", "THROTTLE_MAX_CLIENTS", throttle.DefaultMaxClients),
		IdleTimeout: time.Duration(config.IntOrEnv("settings.web.throttle.idle_timeout_seconds",
			"THROTTLE_IDLE_TIMEOUT", int(throttle.DefaultIdleTimeout/time.Second))) * time.Second,
	}

	t, err := throttle.New(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create throttle")
	}

	log.Logger.Info("request throttle enabled",
		zap.Int("total_per_sec", cfg.TotalNPerSec),
		zap.Int("client_per_sec", cfg.ClientNPerSec))
	return t, nil
}

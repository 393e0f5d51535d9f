package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidateStartupConfigWithGetterEmpty verifies empty configuration passes validation.
func TestValidateStartupConfigWithGetterEmpty(t *testing.T) {
	err := validateStartupConfigWithGetter(newMapConfigGetter(map[string]any{}))
	require.NoError(t, err)
}

func TestValidateStartupConfigWithGetterNil(t *testing.T) {
	require.Error(t, validateStartupConfigWithGetter(nil))
}

// TestValidateStartupConfigWithGetterValidConfig verifies valid explicit configuration passes validation.
func TestValidateStartupConfigWithGetterValidConfig(t *testing.T) {
	cfg := map[string]any{
		"settings": map[string]any{
			"db": map[string]any{
				"redis": map[string]any{"addr": "localhost:6379", "db": 0},
			},
			"search": map[string]any{
				"google": map[string]any{
					"api_key":  "AIza-real",
					"cx":       "0123:abc",
					"endpoint": "https://www.googleapis.com/customsearch/v1",
				},
				"cache_ttl_seconds": 60,
				"coalesce_inflight": "false",
			},
			"chat": map[string]any{
				"openai": map[string]any{
					"api_url": "https://api.openai.com/v1/chat/completions",
					"model":   "gpt-4o-mini",
				},
				"huggingface": map[string]any{
					"endpoint_url": "https://router.huggingface.co/v1/chat/completions",
					"api_token":    "hf_token",
				},
			},
			"web": map[string]any{
				"allowed_origins": []any{"*", "*.cavebeat.dev", "http://localhost:5173"},
				"throttle": map[string]any{
					"enabled":        true,
					"client_per_sec": 1,
					"client_burst":   5,
				},
			},
			"mcp": map[string]any{"enabled": true},
		},
	}

	err := validateStartupConfigWithGetter(newMapConfigGetter(cfg))
	require.NoError(t, err)
}

// TestValidateStartupConfigWithGetterInvalidValues verifies each malformed key is reported.
func TestValidateStartupConfigWithGetterInvalidValues(t *testing.T) {
	cfg := map[string]any{
		"settings": map[string]any{
			"db": map[string]any{
				"redis": map[string]any{"addr": " ", "db": -1},
			},
			"search": map[string]any{
				"google":            map[string]any{"endpoint": "not a url", "cx": 12},
				"cache_ttl_seconds": 0,
				"coalesce_inflight": "sometimes",
			},
			"chat": map[string]any{
				"openai":      map[string]any{"api_url": "/relative", "model": ""},
				"huggingface": map[string]any{"endpoint_url": "https://hf.example/v1"},
			},
			"web": map[string]any{
				"allowed_origins": []any{"https://ok.example", "ftp://bad.example", "https://bad.example/path", 3},
				"throttle":        map[string]any{"enabled": "on", "client_burst": 0},
			},
			"mcp": map[string]any{"enabled": "maybe"},
		},
	}

	err := validateStartupConfigWithGetter(newMapConfigGetter(cfg))
	require.Error(t, err)

	for _, key := range []string{
		"settings.db.redis.addr",
		"settings.db.redis.db",
		"settings.search.google.endpoint",
		"settings.search.google.cx",
		"settings.search.cache_ttl_seconds",
		"settings.search.coalesce_inflight",
		"settings.chat.openai.api_url",
		"settings.chat.openai.model",
		"settings.chat.huggingface.api_token",
		"settings.web.allowed_origins must be a list of strings",
		"settings.web.throttle.enabled",
		"settings.web.throttle.client_burst",
		"settings.mcp.enabled",
	} {
		require.Contains(t, err.Error(), key)
	}
}

func TestValidateWebConfigOrigins(t *testing.T) {
	errs := []string{}
	validateWebConfig(newMapConfigGetter(map[string]any{
		"settings": map[string]any{
			"web": map[string]any{
				"allowed_origins": []string{"https://ok.example", "ftp://bad.example", "*.", "https://bad.example/path"},
			},
		},
	}), &errs)

	require.Len(t, errs, 3)
	require.Contains(t, errs[0], "allowed_origins[1]")
	require.Contains(t, errs[1], "allowed_origins[2]")
	require.Contains(t, errs[2], "allowed_origins[3]")
}

// newMapConfigGetter builds a dotted-path getter for nested map-based test configuration.
// It accepts a nested map and returns a getter function compatible with validateStartupConfigWithGetter.
func newMapConfigGetter(root map[string]any) configGetter {
	return func(key string) any {
		if key == "" {
			return nil
		}

		parts := strings.Split(key, ".")
		var current any = root
		for _, part := range parts {
			nextMap, ok := current.(map[string]any)
			if !ok {
				return nil
			}

			next, exists := nextMap[part]
			if !exists {
				return nil
			}
			current = next
		}

		return current
	}
}

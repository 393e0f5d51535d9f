package cmd

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	errors "github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
)

// configGetter retrieves raw configuration values by dotted key path.
type configGetter func(key string) any

// validateStartupConfig validates startup configuration from the shared config source.
// It returns an error when any configured value is malformed or violates constraints.
func validateStartupConfig() error {
	return validateStartupConfigWithGetter(func(key string) any {
		return gconfig.S.Get(key)
	})
}

// validateStartupConfigWithGetter validates startup configuration via a key-value getter.
// It accepts a value getter and returns nil when all configured values are valid.
func validateStartupConfigWithGetter(get configGetter) error {
	if get == nil {
		return errors.New("config getter is nil")
	}

	validationErrs := make([]string, 0)

	validateRedisConfig(get, &validationErrs)
	validateSearchConfig(get, &validationErrs)
	validateChatConfig(get, &validationErrs)
	validateWebConfig(get, &validationErrs)
	validateOptionalBool(get, "settings.mcp.enabled", &validationErrs)

	if len(validationErrs) == 0 {
		return nil
	}

	return errors.Errorf("invalid configuration:\n - %s", strings.Join(validationErrs, "\n - "))
}

// validateRedisConfig validates redis-related startup configuration values.
func validateRedisConfig(get configGetter, errs *[]string) {
	validateOptionalStringNonEmpty(get, "settings.db.redis.addr", errs)
	validateOptionalIntMin(get, "settings.db.redis.db", 0, errs)
}

// validateSearchConfig validates Programmable Search and cache settings.
// Credentials stay optional, search then answers 503.
func validateSearchConfig(get configGetter, errs *[]string) {
	validateOptionalString(get, "settings.search.google.api_key", errs)
	validateOptionalString(get, "settings.search.google.cx", errs)
	validateOptionalURL(get, "settings.search.google.endpoint", errs)
	validateOptionalIntMin(get, "settings.search.cache_ttl_seconds", 1, errs)
	validateOptionalBool(get, "settings.search.coalesce_inflight", errs)
}

// validateChatConfig validates chat provider endpoints and models.
func validateChatConfig(get configGetter, errs *[]string) {
	validateOptionalURL(get, "settings.chat.openai.api_url", errs)
	validateOptionalStringNonEmpty(get, "settings.chat.openai.model", errs)
	validateOptionalString(get, "settings.chat.openai.api_key", errs)

	validateOptionalURL(get, "settings.chat.huggingface.endpoint_url", errs)
	validateOptionalStringNonEmpty(get, "settings.chat.huggingface.model", errs)
	validateOptionalString(get, "settings.chat.huggingface.api_token", errs)

	// an endpoint without a token would silently fall through to openai
	if get("settings.chat.huggingface.endpoint_url") != nil {
		token, err := parseStrictString(get("settings.chat.huggingface.api_token"))
		if err != nil || strings.TrimSpace(token) == "" {
			appendValidationError(errs, "settings.chat.huggingface.api_token is required when settings.chat.huggingface.endpoint_url is set")
		}
	}
}

// validateWebConfig validates the CORS allow list and request throttle.
func validateWebConfig(get configGetter, errs *[]string) {
	validateOptionalBool(get, "settings.web.throttle.enabled", errs)
	for _, key := range []string{
		"settings.web.throttle.total_per_sec",
		"settings.web.throttle.total_burst",
		"settings.web.throttle.client_per_sec",
		"settings.web.throttle.client_burst",
		"settings.web.throttle.max_clients",
		"settings.web.throttle.idle_timeout_seconds",
	} {
		validateOptionalIntMin(get, key, 1, errs)
	}

	raw := get("settings.web.allowed_origins")
	if raw == nil {
		return
	}

	origins, ok := toStringSlice(raw)
	if !ok {
		appendValidationError(errs, "settings.web.allowed_origins must be a list of strings")
		return
	}

	for i, origin := range origins {
		if !isValidOriginPattern(origin) {
			appendValidationError(errs, "settings.web.allowed_origins[%d] must be `*`, `*.domain` or an absolute origin", i)
		}
	}
}

// validateOptionalBool validates an optionally configured boolean key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalBool(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	if _, ok := parseStrictBool(raw); !ok {
		appendValidationError(errs, "%s must be a boolean", key)
	}
}

// validateOptionalIntMin validates an optionally configured integer key with a minimum constraint.
// It accepts a getter, the key, a minimum value, and an error collector pointer and appends validation errors.
func validateOptionalIntMin(get configGetter, key string, min int, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictInt(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be an integer", key)
		return
	}

	if value < min {
		appendValidationError(errs, "%s must be >= %d", key, min)
	}
}

// validateOptionalURL validates an optionally configured absolute URL key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalURL(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string URL", key)
		return
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		appendValidationError(errs, "%s must not be empty", key)
		return
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		appendValidationError(errs, "%s must be a valid absolute URL", key)
	}
}

// validateOptionalString validates that an optionally configured key holds a string.
func validateOptionalString(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	if _, parseErr := parseStrictString(raw); parseErr != nil {
		appendValidationError(errs, "%s must be a string", key)
	}
}

// validateOptionalStringNonEmpty validates an optionally configured non-empty string key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalStringNonEmpty(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string", key)
		return
	}

	if strings.TrimSpace(value) == "" {
		appendValidationError(errs, "%s must not be empty", key)
	}
}

// parseStrictBool parses a value as boolean using strict conversion rules.
// It accepts a raw value and returns the parsed boolean and whether parsing succeeded.
func parseStrictBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		if math.Trunc(v) != v {
			return false, false
		}
		return int64(v) != 0, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false, false
		}
		switch strings.ToLower(trimmed) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

// parseStrictInt parses a value as a strict integer.
// It accepts a raw value and returns the parsed int and an error when parsing fails.
func parseStrictInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.Trunc(v) != v {
			return 0, errors.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, errors.New("empty integer string")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, errors.Wrap(err, "atoi")
		}
		return parsed, nil
	default:
		return 0, errors.Errorf("unsupported int type %T", value)
	}
}

// parseStrictString parses a value as a strict string.
// It accepts a raw value and returns the parsed string and an error when parsing fails.
func parseStrictString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", errors.Errorf("unsupported string type %T", value)
	}
}

// toStringSlice accepts YAML-decoded lists of strings.
func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			text, err := parseStrictString(item)
			if err != nil {
				return nil, false
			}
			out = append(out, text)
		}
		return out, true
	default:
		return nil, false
	}
}

// isValidOriginPattern accepts `*`, `*.domain` and scheme://host[:port] origins.
func isValidOriginPattern(origin string) bool {
	trimmed := strings.TrimSpace(origin)
	switch {
	case trimmed == "*":
		return true
	case strings.HasPrefix(trimmed, "*."):
		host := trimmed[2:]
		return host != "" && !strings.ContainsAny(host, "/:*")
	}

	parsed, err := url.Parse(strings.TrimRight(trimmed, "/"))
	if err != nil || parsed.Host == "" {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Path == "" && parsed.RawQuery == ""
}

// appendValidationError appends a formatted validation error to the collector.
// It accepts an error slice pointer, a format string, and format arguments, and has no return value.
func appendValidationError(errs *[]string, format string, args ...any) {
	if errs == nil {
		return
	}
	*errs = append(*errs, fmt.Sprintf(format, args...))
}

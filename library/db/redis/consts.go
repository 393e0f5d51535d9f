package redis

const (
	keyPrefix = "cavebeat/"

	// KeyPrefixSearchCache is the key prefix for cached search responses
	KeyPrefixSearchCache = keyPrefix + "search/"
)

package google

import (
	"strings"
)

// placeholderMarkers flag sample values copied from example configuration.
var placeholderMarkers = []string{
	"your_google_api_key",
	"your_google_cx",
	"your_google_cx_id",
	"your_api_key",
	"changeme",
	"replace",
	"sample",
}

// Credentials are the Programmable Search API key and engine id.
type Credentials struct {
	APIKey string
	CX     string
}

// Valid reports whether both values are present.
func (c Credentials) Valid() bool {
	return c.APIKey != "" && c.CX != ""
}

// CredentialSource returns the raw configured key and cx.
type CredentialSource func() (apiKey, cx string)

// StaticCredentials returns a CredentialSource that always yields the given values.
func StaticCredentials(apiKey, cx string) CredentialSource {
	return func() (string, string) {
		return apiKey, cx
	}
}

// ResolveCredentials sanitizes raw values, placeholders become empty.
func ResolveCredentials(apiKey, cx string) Credentials {
	return Credentials{
		APIKey: sanitizeCredential(apiKey),
		CX:     sanitizeCredential(cx),
	}
}

func sanitizeCredential(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	normalized := strings.ToLower(trimmed)
	for _, marker := range placeholderMarkers {
		if strings.Contains(normalized, marker) {
			return ""
		}
	}

	return trimmed
}

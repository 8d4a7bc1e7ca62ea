package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

var (
	// Default allowed origins for development (web build and Expo dev servers)
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:8081",
		"http://localhost:19006",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		origins = append(origins, SplitList(allowedOrigins)...)
	}

	return origins
}

// SplitList splits a comma separated list, dropping blank entries.
func SplitList(value string) []string {
	var out []string

	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

// OriginAllowed reports whether origin is in AllowedOrigins. Requests with no
// Origin header (native mobile clients) are always allowed.
func OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}

	for _, allowed := range AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}

	return false
}

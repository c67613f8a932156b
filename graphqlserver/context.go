package graphqlserver

import (
	"context"
	"net/http"
)

// Context keys for resolver injection.
type contextKey string

const ctxKeyBaseURL contextKey = "baseURL"

// withBaseURL attaches the externally visible base URL of the current request.
func withBaseURL(ctx context.Context, baseURL string) context.Context {
	return context.WithValue(ctx, ctxKeyBaseURL, baseURL)
}

// baseURLFromContext returns the scheme and host the client used to reach
// the server, e.g. http://127.0.0.1:53122.
func baseURLFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyBaseURL).(string); ok {
		return v
	}
	return "http://localhost"
}

// requestBaseURL derives scheme://host from an incoming request.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}

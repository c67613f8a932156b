// Package admin talks to the Shopify GraphQL Admin API. Execute is stateless:
// everything it needs travels in a Config value.
package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"shopify.GO/core/auth"
)

// Config identifies one store connection.
type Config struct {
	Endpoint   string
	Credential string
	// Tenant is the store name; used for logging and admin links.
	Tenant     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func (c Config) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Execute posts one GraphQL request. It never returns nil; every failure is
// carried in the Result.
func Execute(ctx context.Context, cfg Config, req Request) *Result {
	log := cfg.logger().With(zap.String("store", cfg.Tenant), zap.String("operation", req.OperationName))

	body, err := json.Marshal(req)
	if err != nil {
		return failure(0, fmt.Errorf("encode request: %w", err))
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return failure(0, fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	auth.Apply(httpReq, cfg.Credential)

	start := time.Now()
	resp, err := cfg.client().Do(httpReq)
	if err != nil {
		log.Debug("admin request failed", zap.Error(err))
		return failure(0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(resp.StatusCode, fmt.Errorf("read response: %w", err))
	}
	log.Debug("admin request",
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
		zap.Int("bytes", len(raw)),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Result{
			Outcome:    OutcomeTransportFailure,
			StatusCode: resp.StatusCode,
			Failure:    &TransportError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)},
		}
	}
	return Parse(resp.StatusCode, raw)
}

func failure(status int, err error) *Result {
	return &Result{
		Outcome:    OutcomeTransportFailure,
		StatusCode: status,
		Failure:    &TransportError{StatusCode: status, Err: err},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

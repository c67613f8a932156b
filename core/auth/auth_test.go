package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestServer() *echo.Echo {
	e := echo.New()
	e.Use(Middleware("shpat_secret", "/uploads/"))
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.POST("/admin/api/2025-07/graphql.json", ok)
	e.PUT("/uploads/:key", ok)
	return e
}

func TestMiddleware(t *testing.T) {
	e := newTestServer()
	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"valid token", http.MethodPost, "/admin/api/2025-07/graphql.json", "shpat_secret", http.StatusOK},
		{"wrong token", http.MethodPost, "/admin/api/2025-07/graphql.json", "shpat_other", http.StatusUnauthorized},
		{"missing token", http.MethodPost, "/admin/api/2025-07/graphql.json", "", http.StatusUnauthorized},
		{"skipped path", http.MethodPut, "/uploads/abc", "", http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		if tt.token != "" {
			Apply(req, tt.token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.want)
		}
	}
}

func TestApplySetsHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	Apply(req, "shpat_x")
	if got := req.Header.Get("X-Shopify-Access-Token"); got != "shpat_x" {
		t.Errorf("header = %q, want shpat_x", got)
	}
}

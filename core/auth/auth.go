package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HeaderAccessToken carries the Admin API access token on every request.
const HeaderAccessToken = "X-Shopify-Access-Token"

// Apply sets the access token header on an outbound request.
func Apply(req *http.Request, token string) {
	req.Header.Set(HeaderAccessToken, token)
}

// Middleware checks the access token header against token. Requests whose
// path starts with one of skipPrefixes pass through unauthenticated.
func Middleware(token string, skipPrefixes ...string) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup: "header:" + HeaderAccessToken,
		Validator: func(key string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1, nil
		},
		Skipper: buildSkipper(skipPrefixes),
		ErrorHandler: func(err error, c echo.Context) error {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"errors": "[API] Invalid API key or access token (unrecognized login or wrong password)",
			})
		},
	})
}

func buildSkipper(prefixes []string) middleware.Skipper {
	return func(c echo.Context) bool {
		path := c.Request().URL.Path
		for _, skip := range prefixes {
			if strings.HasPrefix(path, skip) {
				return true
			}
		}
		return false
	}
}

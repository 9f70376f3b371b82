package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stocktrack/inventory-api/internal/core/domain"
)

// identityKey is the echo context key the verified identity is stored under.
const identityKey = "auth.identity"

// TokenVerifier validates a raw bearer token and returns the identity it
// carries.
type TokenVerifier interface {
	Verify(raw string) (domain.Identity, error)
}

// Auth validates the bearer token and injects the identity into the request
// context. Missing header, malformed token, and expired token are distinct
// reasons internally (logged) but all answer 401 with the same body so the
// response leaks nothing about which check failed.
func Auth(verifier TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				log.Debug().Str("path", c.Path()).Msg("auth: missing authorization header")
				return unauthorized()
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Debug().Str("path", c.Path()).Msg("auth: malformed authorization header")
				return unauthorized()
			}

			identity, err := verifier.Verify(parts[1])
			if err != nil {
				log.Debug().Err(err).Str("path", c.Path()).Msg("auth: token rejected")
				return unauthorized()
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}

// IdentityFrom returns the identity injected by Auth, if any.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

// SetIdentity stores an identity on the context the way Auth does. Intended
// for handler tests that bypass the middleware.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

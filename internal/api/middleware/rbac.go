package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stocktrack/inventory-api/internal/core/domain"
)

// Two authorization styles coexist and stay distinct per route:
//
//   - RequireRoles: flat set membership, used by the generic protected
//     resource routes.
//   - RequireRank: hierarchical "at least this privileged", used by the
//     admin and destructive routes.
//
// Both read the same role off the identity injected by Auth.

// RequireRoles admits callers whose role is in the allowed set.
func RequireRoles(allowed ...domain.Role) echo.MiddlewareFunc {
	set := make(map[domain.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return unauthorized()
			}
			if _, ok := set[identity.Role]; !ok {
				return forbidden()
			}
			return next(c)
		}
	}
}

// RequireRank admits callers whose role ranks at least min in the fixed
// hierarchy user < support < manager < admin.
func RequireRank(min domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return unauthorized()
			}
			if !identity.Role.AtLeast(min) {
				return forbidden()
			}
			return next(c)
		}
	}
}

func forbidden() error {
	return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
}

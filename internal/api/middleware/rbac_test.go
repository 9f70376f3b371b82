package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/stocktrack/inventory-api/internal/core/domain"
)

func contextWithRole(e *echo.Echo, role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(identityKey, domain.Identity{UserID: "u1", Role: role})
	return c, rec
}

func TestRequireRoles_Membership(t *testing.T) {
	e := echo.New()
	mw := RequireRoles(domain.RoleUser, domain.RoleSupport)

	// support is in the allowed set even though its rank is low.
	c, rec := contextWithRole(e, domain.RoleSupport)
	called := false
	if err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("support should be admitted, code=%d", rec.Code)
	}

	// admin outranks everyone but is not a member of this set.
	c, _ = contextWithRole(e, domain.RoleAdmin)
	err := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-member, got %v", err)
	}
}

func TestRequireRank_Hierarchy(t *testing.T) {
	e := echo.New()
	mw := RequireRank(domain.RoleManager)

	// support (rank 2) is below manager (rank 3).
	c, _ := contextWithRole(e, domain.RoleSupport)
	err := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}

	// admin (rank 4) clears the bar.
	c, rec := contextWithRole(e, domain.RoleAdmin)
	if err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_MissingIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := RequireRank(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when Auth never ran, got %v", err)
	}
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stocktrack/inventory-api/internal/api/handler"
	"github.com/stocktrack/inventory-api/internal/api/metrics"
	"github.com/stocktrack/inventory-api/internal/core/domain"
)

// Machine-readable error codes. Clients map these to localized messages;
// unknown codes fall back to a generic failure message on their side.
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeInvalidEmail      = "INVALID_EMAIL"
	CodeWeakPassword      = "WEAK_PASSWORD"
	CodeInvalidRole       = "INVALID_ROLE"
	CodeEmailInUse        = "EMAIL_IN_USE"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeTooManyAttempts   = "TOO_MANY_ATTEMPTS"
	CodeAccountInactive   = "ACCOUNT_INACTIVE"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the domain error taxonomy to deterministic HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the canonical {success:false, message, code, errors} envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, env := resolveError(err, log, c)

		switch status {
		case http.StatusUnauthorized:
			metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
		case http.StatusForbidden:
			metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
		case http.StatusTooManyRequests:
			metrics.LoginThrottledTotal.Inc()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, env)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.Envelope) {
	// Per-field validation failures carry their messages into the errors list.
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, handler.Envelope{
			Message: "validation failed",
			Code:    CodeValidation,
			Errors:  ve.Fields,
		}
	}

	// Echo's own errors (bind failures, 404 from the router, middleware 401/403).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		env := handler.Envelope{Message: fmt.Sprintf("%v", he.Message)}
		switch he.Code {
		case http.StatusUnauthorized:
			env.Code = CodeUnauthenticated
		case http.StatusForbidden:
			env.Code = CodeForbidden
		case http.StatusNotFound:
			env.Code = CodeNotFound
		case http.StatusBadRequest:
			env.Code = CodeValidation
		}
		return he.Code, env
	}

	// Domain taxonomy → deterministic codes.
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest, handler.Envelope{Message: err.Error(), Code: CodeInvalidEmail}
	case errors.Is(err, domain.ErrWeakPassword):
		return http.StatusBadRequest, handler.Envelope{Message: err.Error(), Code: CodeWeakPassword}
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, handler.Envelope{Message: err.Error(), Code: CodeInvalidRole}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, handler.Envelope{Message: err.Error(), Code: CodeValidation}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, handler.Envelope{Message: "invalid credentials", Code: CodeInvalidCredential}
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusUnauthorized, handler.Envelope{Message: err.Error(), Code: CodeAccountInactive}
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized, handler.Envelope{Message: "authentication required", Code: CodeUnauthenticated}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, handler.Envelope{Message: err.Error(), Code: CodeForbidden}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, handler.Envelope{Message: err.Error(), Code: CodeNotFound}
	case errors.Is(err, domain.ErrMaterialNotFound):
		return http.StatusNotFound, handler.Envelope{Message: err.Error(), Code: CodeNotFound}
	case errors.Is(err, domain.ErrEmailInUse):
		return http.StatusConflict, handler.Envelope{Message: err.Error(), Code: CodeEmailInUse}
	case errors.Is(err, domain.ErrDuplicateSKU):
		return http.StatusConflict, handler.Envelope{Message: err.Error(), Code: CodeConflict}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, handler.Envelope{Message: err.Error(), Code: CodeTooManyAttempts}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.Envelope{Message: "internal server error", Code: CodeInternal}
}

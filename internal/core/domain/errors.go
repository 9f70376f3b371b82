package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailInUse         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("account is deactivated")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrForbidden    = errors.New("access forbidden")

	ErrTooManyAttempts = errors.New("too many failed login attempts")

	ErrInvalidInput     = errors.New("invalid input")
	ErrMaterialNotFound = errors.New("material not found")
	ErrDuplicateSKU     = errors.New("material sku already exists")
)

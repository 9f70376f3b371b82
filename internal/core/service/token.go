package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stocktrack/inventory-api/internal/core/domain"
)

// DefaultTokenTTL applies when no TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

// accessClaims is the signed token payload: subject id plus the email and
// role snapshot taken at issue time.
type accessClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies stateless HS256 bearer tokens. Tokens are
// valid until natural expiry; there is no revocation.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for user with a fresh expiry. Pure function of the
// identity, the clock, and the secret.
func (t *TokenIssuer) Issue(user *domain.User) (string, error) {
	now := t.now().UTC()
	claims := accessClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Refresh re-issues a token with a fresh expiry for an identity the caller
// has already verified. An expired token never reaches this path.
func (t *TokenIssuer) Refresh(identity domain.Identity) (string, error) {
	return t.Issue(&domain.User{
		ID:    identity.UserID,
		Email: identity.Email,
		Role:  identity.Role,
	})
}

// Verify parses and validates raw, returning the embedded identity.
// Signature and structural failures map to ErrInvalidToken; a past expiry
// maps to ErrExpiredToken.
func (t *TokenIssuer) Verify(raw string) (domain.Identity, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrExpiredToken
		}
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	id := domain.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

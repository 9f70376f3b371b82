package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/stocktrack/inventory-api/internal/core/domain"
	"github.com/stocktrack/inventory-api/internal/core/ports"
)

// AuthService implements registration, login, token refresh, and the
// password lifecycle on top of a UserRepository. Tokens are stateless; the
// only cross-request coordination is the repository's unique email index,
// which resolves concurrent duplicate registrations at the data layer.
type AuthService struct {
	repo    ports.UserRepository
	hasher  *PasswordHasher
	issuer  *TokenIssuer
	limiter ports.LoginLimiter
	now     func() time.Time
}

// NewAuthService wires the service. limiter may be nil, in which case login
// throttling is disabled.
func NewAuthService(repo ports.UserRepository, hasher *PasswordHasher, issuer *TokenIssuer, limiter ports.LoginLimiter) *AuthService {
	return &AuthService{
		repo:    repo,
		hasher:  hasher,
		issuer:  issuer,
		limiter: limiter,
		now:     time.Now,
	}
}

// normalizeEmail lowercases and trims so uniqueness is case-insensitive.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

// newUser validates in and builds an unsaved user with a hashed password.
// Validation happens before any hashing or persistence work.
func (s *AuthService) newUser(in ports.RegisterInput) (*domain.User, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Name:       in.Name,
		Email:      email,
		Role:       role,
		Active:     true,
		Department: in.Department,
		Position:   in.Position,
		Phone:      in.Phone,
		Locale:     in.Locale,
		Timezone:   in.Timezone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.hasher.SetPassword(user, in.Password); err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates a self-service account and returns a token for it.
// Self-registration may not claim the admin role; admin accounts are created
// through CreateUser or the bootstrap seed.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	if in.Role == string(domain.RoleAdmin) {
		return "", nil, domain.ErrInvalidRole
	}

	user, err := s.newUser(in)
	if err != nil {
		return "", nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issuer.Issue(created)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

// CreateUser is the admin path: same validation and hashing as Register but
// any enumerated role is allowed and no token is minted for the new account.
func (s *AuthService) CreateUser(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := s.newUser(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, user)
}

// Login verifies credentials and returns a fresh token. Unknown accounts and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	email = strings.ToLower(strings.TrimSpace(email))

	if s.limiter != nil {
		allowed, err := s.limiter.Allowed(ctx, email)
		if err != nil {
			return "", nil, err
		}
		if !allowed {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.Active {
		return "", nil, domain.ErrUserInactive
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		if s.limiter != nil {
			_ = s.limiter.RecordFailure(ctx, email)
		}
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		_ = s.limiter.Reset(ctx, email)
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return "", nil, err
	}
	user.LastLogin = now

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Me returns the account behind an authenticated identity.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// ChangePassword verifies the current password before setting a new one.
// On mismatch the stored hash is left untouched.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

// Refresh re-issues a token for an identity the middleware already verified.
// Expired tokens never reach this path; there is no silent re-auth.
func (s *AuthService) Refresh(_ context.Context, identity domain.Identity) (string, error) {
	return s.issuer.Refresh(identity)
}

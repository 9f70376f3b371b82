package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stocktrack/inventory-api/internal/core/domain"
	"github.com/stocktrack/inventory-api/internal/core/ports"
)

// stubUserRepo is an in-memory UserRepository keyed by lowercased email,
// enforcing uniqueness the way the Mongo index does.
type stubUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func clone(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrEmailInUse
		}
	}
	c := clone(user)
	r.nextID++
	c.ID = fmt.Sprintf("u%d", r.nextID)
	r.byID[c.ID] = clone(c)
	return c, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = at
	return nil
}

// denyLimiter always refuses.
type denyLimiter struct{}

func (denyLimiter) Allowed(context.Context, string) (bool, error) { return false, nil }
func (denyLimiter) RecordFailure(context.Context, string) error   { return nil }
func (denyLimiter) Reset(context.Context, string) error           { return nil }

func newTestAuthService(repo ports.UserRepository) *AuthService {
	hasher := NewPasswordHasher(bcrypt.MinCost)
	issuer := NewTokenIssuer("secret", time.Hour)
	return NewAuthService(repo, hasher, issuer, nil)
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Alice", Email: "A@X.com", Password: "secret1", Department: "ops",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if user.Email != "a@x.com" {
		t.Fatalf("email must be lowercased, got %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("role must default to user, got %q", user.Role)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret1" {
		t.Fatalf("password must be stored hashed")
	}
	if !user.Active {
		t.Fatalf("new accounts must be active")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}); err != domain.ErrInvalidEmail {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, _, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "nope"}); err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, _, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1", Role: "admin"}); err != domain.ErrInvalidRole {
		t.Fatalf("self-registration as admin must be rejected, got %v", err)
	}
	if _, _, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1", Role: "wizard"}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	// Same address, different case: the store sees one key.
	if _, _, err := svc.Register(ctx, ports.RegisterInput{Name: "B", Email: "A@X.COM", Password: "secret2"}); err != domain.ErrEmailInUse {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestAuthService_Register_ConcurrentDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	// All attempts race for the same address; the repository's uniqueness
	// check must let exactly one through.
	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _, err := svc.Register(ctx, ports.RegisterInput{
				Name: fmt.Sprintf("racer-%d", n), Email: "race@x.com", Password: "secret1",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch err {
		case nil:
			successes++
		case domain.ErrEmailInUse:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != attempts-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", attempts-1, successes, conflicts)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	regToken, user, err := svc.Register(ctx, ports.RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Force a different issue timestamp so the login token differs.
	svc.issuer.now = func() time.Time { return time.Now().Add(2 * time.Second) }

	token, logged, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || token == regToken {
		t.Fatalf("login must mint a fresh token")
	}
	if logged.LastLogin.IsZero() {
		t.Fatalf("login must record last-login time")
	}

	stored, _ := repo.FindByID(ctx, user.ID)
	if stored.LastLogin.IsZero() {
		t.Fatalf("last-login must be persisted")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	_, _, _ = svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	if _, _, err := svc.Login(ctx, "a@x.com", "wrong12"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailIndistinguishable(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, _, err := svc.Login(context.Background(), "ghost@x.com", "secret1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("unknown account must look like bad credentials, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	hasher := NewPasswordHasher(bcrypt.MinCost)
	issuer := NewTokenIssuer("secret", time.Hour)
	svc := NewAuthService(repo, hasher, issuer, denyLimiter{})

	if _, _, err := svc.Login(context.Background(), "a@x.com", "secret1"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_CreateUser_AllowsAdminRole(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	user, err := svc.CreateUser(context.Background(), ports.RegisterInput{
		Name: "Root", Email: "root@x.com", Password: "secret1", Role: "admin",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", user.Role)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, user, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	before, _ := repo.FindByID(ctx, user.ID)

	// Wrong current password: rejected, hash untouched.
	if err := svc.ChangePassword(ctx, user.ID, "wrong12", "newpass1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	after, _ := repo.FindByID(ctx, user.ID)
	if after.PasswordHash != before.PasswordHash {
		t.Fatalf("hash must be unchanged after a failed change")
	}

	// Weak replacement: rejected.
	if err := svc.ChangePassword(ctx, user.ID, "secret1", "short"); err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	// Valid change: old password stops working.
	if err := svc.ChangePassword(ctx, user.ID, "secret1", "newpass1"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "a@x.com", "secret1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("old password must no longer verify, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "a@x.com", "newpass1"); err != nil {
		t.Fatalf("new password must verify: %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	token, _, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	identity, err := svc.issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, identity)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := svc.issuer.Verify(refreshed); err != nil {
		t.Fatalf("refreshed token must verify: %v", err)
	}
}

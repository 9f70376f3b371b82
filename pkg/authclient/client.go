package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Typed errors mapped from the server's error codes. UI layers render a
// specific message per error; anything unrecognised surfaces as a generic
// *APIError.
var (
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrWeakPassword      = errors.New("password is too weak")
	ErrEmailInUse        = errors.New("email already in use")
	ErrTooManyAttempts   = errors.New("too many failed login attempts")
	ErrUnauthenticated   = errors.New("not authenticated")
)

// APIError is a server failure that has no dedicated typed error.
type APIError struct {
	Status  int
	Code    string
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// envelope mirrors the server's response body.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Code    string   `json:"code,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Token   string   `json:"token,omitempty"`
	User    *User    `json:"user,omitempty"`
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

// Client drives the auth endpoints and keeps the session store in sync.
// Auth actions are single-flight: a second login/register/refresh while one
// is in flight waits for the first to finish.
type Client struct {
	baseURL string
	http    *http.Client
	session *SessionStore

	// serializes auth mutations; reads of the session store are lock-free.
	actionMu sync.Mutex
}

// New builds a Client persisting sessions through storage. httpClient may
// be nil, in which case a client with a sane timeout is used.
func New(baseURL string, storage Storage, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		session: NewSessionStore(storage),
	}
}

// SessionStore exposes the underlying store for Subscribe and Guard calls.
func (c *Client) SessionStore() *SessionStore {
	return c.session
}

// Restore resolves the initial LOADING state from persisted storage.
func (c *Client) Restore() Session {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()
	return c.session.Restore()
}

// Login authenticates and transitions the store to AUTHENTICATED.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	body := map[string]string{"email": email, "password": password}
	env, err := c.do(ctx, http.MethodPost, "/auth/login", body, "")
	if err != nil {
		return c.session.Session(), err
	}

	c.session.SetAuthenticated(env.Token, env.User)
	return c.session.Session(), nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, in RegisterInput) (Session, error) {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	env, err := c.do(ctx, http.MethodPost, "/auth/register", in, "")
	if err != nil {
		return c.session.Session(), err
	}

	c.session.SetAuthenticated(env.Token, env.User)
	return c.session.Session(), nil
}

// Logout clears the persisted session. Stateless tokens cannot be revoked
// server-side, so this is purely a client transition.
func (c *Client) Logout() Session {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	c.session.Clear()
	return c.session.Session()
}

// Me fetches the caller's account using the stored token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	token := c.session.Session().Token
	if token == "" {
		return nil, ErrUnauthenticated
	}

	env, err := c.do(ctx, http.MethodGet, "/auth/me", nil, token)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

// ChangePassword rotates the caller's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	token := c.session.Session().Token
	if token == "" {
		return ErrUnauthenticated
	}

	body := map[string]string{"currentPassword": current, "newPassword": next}
	_, err := c.do(ctx, http.MethodPost, "/auth/change-password", body, token)
	return err
}

// Refresh swaps the stored token for one with a fresh expiry. Requires the
// current token to still be valid; an expired session must log in again.
func (c *Client) Refresh(ctx context.Context) (Session, error) {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	token := c.session.Session().Token
	if token == "" {
		return c.session.Session(), ErrUnauthenticated
	}

	env, err := c.do(ctx, http.MethodPost, "/auth/refresh-token", nil, token)
	if err != nil {
		return c.session.Session(), err
	}

	c.session.SetToken(env.Token)
	return c.session.Session(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		// Intermediaries (proxies, load balancers) answer failures with
		// empty or non-JSON bodies; keep the status instead of a decode error.
		if res.StatusCode >= 400 {
			return nil, &APIError{Status: res.StatusCode}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if res.StatusCode >= 400 || !env.Success {
		return nil, mapError(res.StatusCode, env)
	}
	return &env, nil
}

// mapError converts the server's error code into a typed error. Unknown
// codes fall back to a generic APIError.
func mapError(status int, env envelope) error {
	switch env.Code {
	case "INVALID_CREDENTIAL":
		return ErrInvalidCredential
	case "INVALID_EMAIL":
		return ErrInvalidEmail
	case "WEAK_PASSWORD":
		return ErrWeakPassword
	case "EMAIL_IN_USE":
		return ErrEmailInUse
	case "TOO_MANY_ATTEMPTS":
		return ErrTooManyAttempts
	case "UNAUTHENTICATED":
		return ErrUnauthenticated
	}
	return &APIError{Status: status, Code: env.Code, Message: env.Message, Errors: env.Errors}
}

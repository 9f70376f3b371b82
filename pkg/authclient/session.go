package authclient

import (
	"encoding/json"
	"sync"
	"time"
)

// State is the auth state machine's current phase.
type State int

const (
	// StateLoading holds until the persisted session has been checked.
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// User is the client-side view of an account. The server never sends a
// password field.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Active     bool      `json:"active"`
	LastLogin  time.Time `json:"last_login,omitempty"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
}

// Session is an immutable snapshot of the auth state.
type Session struct {
	State State
	Token string
	User  *User
}

const sessionStorageKey = "inventory.session"

type persistedSession struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// SessionStore holds the current session, persists it through an injected
// Storage, and notifies subscribers on every transition. Safe for
// concurrent use.
type SessionStore struct {
	mu      sync.RWMutex
	state   State
	token   string
	user    *User
	storage Storage
	subs    []func(Session)
}

// NewSessionStore starts in StateLoading; call Restore (or a Client login)
// to leave it.
func NewSessionStore(storage Storage) *SessionStore {
	return &SessionStore{state: StateLoading, storage: storage}
}

// Session returns the current snapshot.
func (s *SessionStore) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Session{State: s.state, Token: s.token, User: s.user}
}

// Subscribe registers fn to run after every state transition. The callback
// receives the new snapshot and must not call back into the store.
func (s *SessionStore) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Restore loads the persisted session, if any, and resolves StateLoading.
func (s *SessionStore) Restore() Session {
	raw, ok := s.storage.Get(sessionStorageKey)
	if !ok {
		s.transition(StateUnauthenticated, "", nil, false)
		return s.Session()
	}

	var p persistedSession
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.Token == "" {
		s.storage.Remove(sessionStorageKey)
		s.transition(StateUnauthenticated, "", nil, false)
		return s.Session()
	}

	s.transition(StateAuthenticated, p.Token, p.User, false)
	return s.Session()
}

// SetAuthenticated records a successful login/registration and persists it.
func (s *SessionStore) SetAuthenticated(token string, user *User) {
	s.transition(StateAuthenticated, token, user, true)
}

// SetToken swaps the bearer token in place after a refresh.
func (s *SessionStore) SetToken(token string) {
	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()
	s.transition(StateAuthenticated, token, user, true)
}

// Clear drops the session (logout) and removes the persisted copy.
func (s *SessionStore) Clear() {
	s.storage.Remove(sessionStorageKey)
	s.transition(StateUnauthenticated, "", nil, false)
}

func (s *SessionStore) transition(state State, token string, user *User, persist bool) {
	s.mu.Lock()
	s.state = state
	s.token = token
	s.user = user
	snapshot := Session{State: state, Token: token, User: user}
	subs := make([]func(Session), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if persist {
		if raw, err := json.Marshal(persistedSession{Token: token, User: user}); err == nil {
			s.storage.Set(sessionStorageKey, string(raw))
		}
	}

	for _, fn := range subs {
		fn(snapshot)
	}
}

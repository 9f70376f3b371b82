package authclient

import "testing"

func TestGuard_DecisionTable(t *testing.T) {
	alice := &User{ID: "u1", Role: "support"}

	cases := []struct {
		name    string
		session Session
		allowed []string
		want    Decision
	}{
		{"loading", Session{State: StateLoading}, []string{"user"}, DecisionLoading},
		{"unauthenticated", Session{State: StateUnauthenticated}, []string{"user"}, DecisionRedirectToLogin},
		{"role in set", Session{State: StateAuthenticated, User: alice}, []string{"user", "support"}, DecisionAllow},
		{"role not in set", Session{State: StateAuthenticated, User: alice}, []string{"manager", "admin"}, DecisionDenied},
		{"no role restriction", Session{State: StateAuthenticated, User: alice}, nil, DecisionAllow},
		{"authenticated without user", Session{State: StateAuthenticated}, []string{"user"}, DecisionDenied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Guard(tc.session, "/materials", tc.allowed...)
			if got.Decision != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got.Decision)
			}
		})
	}
}

func TestGuard_PreservesRequestedLocation(t *testing.T) {
	got := Guard(Session{State: StateUnauthenticated}, "/materials/42", "user")
	if got.Decision != DecisionRedirectToLogin {
		t.Fatalf("expected redirect, got %v", got.Decision)
	}
	if got.ReturnTo != "/materials/42" {
		t.Fatalf("redirect must carry the requested location, got %q", got.ReturnTo)
	}
}

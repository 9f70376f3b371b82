package domain

import "testing"

func TestRoleRankOrder(t *testing.T) {
	order := []Role{RoleUser, RoleSupport, RoleManager, RoleAdmin}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Fatalf("expected %s to outrank %s", order[i], order[i-1])
		}
	}
}

func TestRoleAtLeast(t *testing.T) {
	if !RoleAdmin.AtLeast(RoleManager) {
		t.Fatalf("admin should satisfy manager requirement")
	}
	if !RoleManager.AtLeast(RoleManager) {
		t.Fatalf("manager should satisfy manager requirement")
	}
	if RoleSupport.AtLeast(RoleManager) {
		t.Fatalf("support must not satisfy manager requirement")
	}
	if Role("ghost").AtLeast(RoleUser) {
		t.Fatalf("unknown role must never satisfy a requirement")
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("")
	if err != nil || r != RoleUser {
		t.Fatalf("empty role should default to user, got %q err=%v", r, err)
	}
	if _, err := ParseRole("superadmin"); err != ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	r, err = ParseRole("support")
	if err != nil || r != RoleSupport {
		t.Fatalf("unexpected parse result: %q %v", r, err)
	}
}

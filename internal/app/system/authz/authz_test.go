package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/workpulse/internal/app/system/auth"
	"github.com/dalemusser/workpulse/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestAs(role string) *http.Request {
	req := httptest.NewRequest("GET", "/test", nil)
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Name: "Test User",
		Role: role,
	})
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"superadmin", true},
		{"ADMIN", true},
		{"member", false},
		{"", false},
	}
	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			if got := authz.IsAdmin(requestAs(tc.role)); got != tc.want {
				t.Errorf("IsAdmin(%q) = %v, want %v", tc.role, got, tc.want)
			}
		})
	}
}

func TestUserCtx_NoUser(t *testing.T) {
	role, name, id, ok := authz.UserCtx(httptest.NewRequest("GET", "/", nil))
	if ok {
		t.Fatal("expected ok=false without user")
	}
	if role != "visitor" || name != "" || id != primitive.NilObjectID {
		t.Errorf("unexpected values: %q %q %v", role, name, id)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID:   "not-an-object-id",
		Role: "admin",
	})
	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected malformed ID to fail closed")
	}
	if authz.IsAdmin(req) {
		t.Error("expected IsAdmin false for malformed ID")
	}
}

func TestHasAnyRole(t *testing.T) {
	req := requestAs("member")
	if !authz.HasAnyRole(req, "admin", " Member ") {
		t.Error("expected member to match trimmed, case-folded role")
	}
	if authz.HasAnyRole(req, authz.AdminRoles()...) {
		t.Error("expected member not to hold an admin role")
	}
	if authz.HasAnyRole(httptest.NewRequest("GET", "/", nil), "member") {
		t.Error("expected no role without a signed-in user")
	}
}

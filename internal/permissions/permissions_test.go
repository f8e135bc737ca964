package permissions

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJoinNormalizesTokens(t *testing.T) {
	if got := Join(" Product ", ActionCreate); got != "product:create" {
		t.Fatalf("expected product:create, got %q", got)
	}
	if got := Join("", ActionCreate); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}

func TestContentTypePermissionsList(t *testing.T) {
	got := ContentTypePermissions("faq").List()
	want := []string{"faq:create", "faq:update", "faq:delete"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("permissions mismatch (-want +got):\n%s", diff)
	}
}

func TestSetWildcards(t *testing.T) {
	cases := []struct {
		name       string
		set        Set
		permission string
		want       bool
	}{
		{name: "exact", set: NewSet("product:create"), permission: "product:create", want: true},
		{name: "resource wildcard", set: NewSet("product:*"), permission: "product:delete", want: true},
		{name: "action wildcard", set: NewSet("*:update"), permission: "faq:update", want: true},
		{name: "action wildcard other action", set: NewSet("*:update"), permission: "faq:delete", want: false},
		{name: "global", set: NewSet("*"), permission: "faq:delete", want: true},
		{name: "empty set", set: NewSet(), permission: "faq:delete", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.set.Allowed(tc.permission); got != tc.want {
				t.Fatalf("Allowed(%q) = %v, want %v", tc.permission, got, tc.want)
			}
		})
	}
}

func TestOperatorPolicyRoles(t *testing.T) {
	policy := NewOperatorPolicy([]int64{1}, []int64{2, 1})
	ctx := context.Background()

	cases := []struct {
		name       string
		operator   int64
		permission string
		allowed    bool
	}{
		{name: "admin creates", operator: 1, permission: "product:create", allowed: true},
		{name: "admin deletes", operator: 1, permission: "faq:delete", allowed: true},
		{name: "manager updates", operator: 2, permission: "product:update", allowed: true},
		{name: "manager cannot create", operator: 2, permission: "product:create"},
		{name: "manager cannot delete", operator: 2, permission: "product:delete"},
		{name: "stranger denied", operator: 3, permission: "product:update"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Authorize(ctx, tc.operator, tc.permission)
			if tc.allowed && err != nil {
				t.Fatalf("expected allowed, got %v", err)
			}
			if !tc.allowed {
				if !IsDenied(err) {
					t.Fatalf("expected denial, got %v", err)
				}
				var denied Error
				if !errors.As(err, &denied) || denied.OperatorID != tc.operator {
					t.Fatalf("expected permissions.Error for operator %d, got %#v", tc.operator, err)
				}
			}
		})
	}
}

func TestOperatorPolicyGrantRevoke(t *testing.T) {
	policy := NewOperatorPolicy(nil, nil)
	if policy.IsPrivileged(7) {
		t.Fatalf("expected operator without role")
	}
	policy.Grant(7, RoleAdmin)
	if err := policy.Authorize(context.Background(), 7, "faq:delete"); err != nil {
		t.Fatalf("expected granted admin, got %v", err)
	}
	policy.Revoke(7)
	if err := policy.Authorize(context.Background(), 7, "faq:delete"); !IsDenied(err) {
		t.Fatalf("expected revoked operator denied, got %v", err)
	}
}

func TestAllowAll(t *testing.T) {
	if err := AllowAll().Authorize(context.Background(), 42, "faq:delete"); err != nil {
		t.Fatalf("expected allow-all, got %v", err)
	}
}

package service

import (
	"errors"
	"testing"

	"github.com/collectivefm/collective-backend/internal/model"
)

func adminClaims(id int, perms ...string) *Claims {
	return &Claims{AdminID: id, Role: model.RoleAdmin, Permissions: perms}
}

func superadminClaims(id int) *Claims {
	return &Claims{AdminID: id, Role: model.RoleSuperadmin, Permissions: []string{}}
}

func intPtr(v int) *int { return &v }

func TestAuthorize(t *testing.T) {
	authz := NewAuthzService()

	tests := []struct {
		name       string
		claims     *Claims
		capability model.Permission
		ownerID    *int
		wantErr    error
	}{
		{
			name:       "superadmin passes with no grants",
			claims:     superadminClaims(1),
			capability: model.PermissionEvents,
			wantErr:    nil,
		},
		{
			name:       "superadmin passes even on unknown capability",
			claims:     superadminClaims(1),
			capability: model.Permission("bogus"),
			wantErr:    nil,
		},
		{
			name:       "admin with grant passes",
			claims:     adminClaims(2, "events"),
			capability: model.PermissionEvents,
			wantErr:    nil,
		},
		{
			name:       "admin without grant denied",
			claims:     adminClaims(2, "members"),
			capability: model.PermissionEvents,
			wantErr:    ErrPermissionDenied,
		},
		{
			name:       "unknown capability is a configuration fault",
			claims:     adminClaims(2, "events"),
			capability: model.Permission("bogus"),
			wantErr:    ErrUnknownPermission,
		},
		{
			name:       "owner passes without any grant",
			claims:     adminClaims(3),
			capability: model.PermissionMembers,
			ownerID:    intPtr(3),
			wantErr:    nil,
		},
		{
			name:       "non-owner without grant denied",
			claims:     adminClaims(3),
			capability: model.PermissionMembers,
			ownerID:    intPtr(4),
			wantErr:    ErrPermissionDenied,
		},
		{
			name:       "ownership alone passes with empty capability",
			claims:     adminClaims(3),
			capability: "",
			ownerID:    intPtr(3),
			wantErr:    nil,
		},
		{
			name:       "no capability and no owner denied",
			claims:     adminClaims(3),
			capability: "",
			wantErr:    ErrPermissionDenied,
		},
		{
			name:       "nil claims denied",
			claims:     nil,
			capability: model.PermissionEvents,
			wantErr:    ErrPermissionDenied,
		},
		{
			name:       "users grant does not leak into events",
			claims:     adminClaims(5, "users"),
			capability: model.PermissionEvents,
			wantErr:    ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.Authorize(tt.claims, tt.capability, tt.ownerID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authorize() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthorizeOwnershipDoesNotFoldIntoGrant(t *testing.T) {
	authz := NewAuthzService()

	// An admin with zero grants must still reach their own resource. If the
	// ownership rule were folded into the grant check, this would deny.
	claims := adminClaims(7)
	if err := authz.Authorize(claims, model.PermissionMembers, intPtr(7)); err != nil {
		t.Fatalf("owner with zero grants denied: %v", err)
	}
}

func TestRequireSuperadmin(t *testing.T) {
	authz := NewAuthzService()

	if err := authz.RequireSuperadmin(superadminClaims(1)); err != nil {
		t.Errorf("superadmin rejected: %v", err)
	}

	// The "users" grant is explicitly not a substitute for the role.
	if err := authz.RequireSuperadmin(adminClaims(2, "users", "members", "events")); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("fully-granted admin should be denied, got %v", err)
	}

	if err := authz.RequireSuperadmin(nil); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("nil claims should be denied, got %v", err)
	}
}

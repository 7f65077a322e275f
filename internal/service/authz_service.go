package service

import (
	"errors"

	"github.com/collectivefm/collective-backend/internal/model"
)

// Authorization errors.
var (
	// ErrPermissionDenied is the generic denial. It never reveals which
	// capability was missing.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnknownPermission means a caller asked the engine to check a
	// capability that is not in the catalog. This is an operator-facing
	// fault (500), not a user error.
	ErrUnknownPermission = errors.New("unknown permission key")
)

// AuthzService is the authorization engine. Every decision depends only on
// the verified token claims and the declared target; it holds no mutable
// state and never touches storage.
type AuthzService struct {
	catalog map[model.Permission]struct{}
}

// NewAuthzService creates the engine with the closed permission catalog.
func NewAuthzService() *AuthzService {
	catalog := make(map[model.Permission]struct{}, len(model.AllPermissions))
	for _, p := range model.AllPermissions {
		catalog[p] = struct{}{}
	}
	return &AuthzService{catalog: catalog}
}

// Authorize decides whether the identity behind claims may act. The rules
// apply in order:
//
//  1. A superadmin is allowed unconditionally.
//  2. If capability is non-empty and present in the claims' permission
//     snapshot, the action is allowed. An unknown capability fails with
//     ErrUnknownPermission before the snapshot is consulted.
//  3. If ownerID is non-nil and equals the claims' admin id, the action is
//     allowed. This keeps self-service open to an admin holding zero granted
//     permissions (for example a brand-new admin editing their stub profile),
//     so it cannot be folded into rule 2.
//  4. Otherwise ErrPermissionDenied.
//
// Pass capability "" when no capability applies, and ownerID nil when the
// target has no owner.
func (s *AuthzService) Authorize(claims *Claims, capability model.Permission, ownerID *int) error {
	if claims == nil {
		return ErrPermissionDenied
	}

	if claims.Role == model.RoleSuperadmin {
		return nil
	}

	if capability != "" {
		if _, ok := s.catalog[capability]; !ok {
			return ErrUnknownPermission
		}
		if claims.HasPermission(capability) {
			return nil
		}
	}

	if ownerID != nil && *ownerID == claims.AdminID {
		return nil
	}

	return ErrPermissionDenied
}

// RequireSuperadmin checks the role alone: operations on admin accounts are
// reserved for superadmins, and no granted capability (including "users")
// substitutes for the role.
func (s *AuthzService) RequireSuperadmin(claims *Claims) error {
	if claims == nil || claims.Role != model.RoleSuperadmin {
		return ErrPermissionDenied
	}
	return nil
}

package model

import "time"

// Role is the admin account role. There are exactly two: a scoped admin whose
// rights come from granted permissions, and a superadmin who implicitly holds
// every permission (never materialized as rows).
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Admin represents a back-office account.
type Admin struct {
	ID                 int       `json:"id"`
	Username           string    `json:"username"`
	PasswordHash       string    `json:"-"`
	Role               Role      `json:"role"`
	MustChangePassword bool      `json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AdminWithPermissions extends Admin with its stored permission keys.
// A superadmin's set is always empty here; its access is implied by role.
type AdminWithPermissions struct {
	Admin
	Permissions []string `json:"permissions"`
}

// RegisterRequest is the payload for creating an admin account. The first
// registration on an empty system must carry role "superadmin"; afterwards
// only an authenticated superadmin may register further accounts.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=64"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Role     Role   `json:"role" binding:"required,oneof=admin superadmin"`
	JoinDate string `json:"join_date" binding:"omitempty,datetime=2006-01-02"`
}

// LoginRequest is the payload for admin authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// ChangePasswordRequest rotates the authenticated admin's credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=128"`
}

// SetPermissionsRequest replaces an admin's entire permission set. An empty
// list is valid and revokes everything.
type SetPermissionsRequest struct {
	PermissionKeys []string `json:"permission_keys"`
}

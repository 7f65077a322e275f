package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Credential lifecycle errors.
var (
	// ErrNotFound is the service-level miss for any looked-up resource.
	ErrNotFound = errors.New("not found")

	// ErrAuthRequired means the operation needs a verified identity and none
	// was presented.
	ErrAuthRequired = errors.New("authentication required")

	// ErrFirstAdminRole rejects a bootstrap registration whose role is not
	// superadmin. The very first account must hold the universal override;
	// otherwise the system could never grant anything.
	ErrFirstAdminRole = errors.New("first admin must be superadmin")

	// ErrUsernameTaken signals a unique-constraint conflict on registration.
	ErrUsernameTaken = errors.New("username already registered")
)

// adminStore is the credential-store contract the service consumes. The
// pgx-backed repository satisfies it; tests substitute an in-memory fake so
// the lifecycle rules run without a live database.
type adminStore interface {
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	Create(ctx context.Context, a *model.Admin) error
	List(ctx context.Context) ([]model.Admin, error)
	UpdatePassword(ctx context.Context, id int, hash string) error
	// Delete returns the id of the member profile it archived, zero when
	// the account had no linked profile.
	Delete(ctx context.Context, id int) (int, error)
}

// permissionStore resolves and mutates stored permission sets.
type permissionStore interface {
	GetKeysByAdminID(ctx context.Context, adminID int) ([]string, error)
	Replace(ctx context.Context, adminID int, keys []string) error
	Grant(ctx context.Context, adminID int, key string) error
}

// memberStubStore creates the 1:1 stub profile for a new admin.
type memberStubStore interface {
	CreateStub(ctx context.Context, name, email string, adminID int, joinDate *time.Time) error
}

// profileCache expires cached public member views. The credential lifecycle
// writes profiles through its own transactions (stub creation, archival on
// account deletion), so it must invalidate the same keys MemberService
// maintains or visitors keep reading the stale copy until the TTL runs out.
type profileCache interface {
	InvalidatePublic(ctx context.Context, memberID int)
	InvalidatePublicRoster(ctx context.Context)
}

// AdminService implements the credential lifecycle: bootstrap registration,
// permission grants, password rotation, and account removal.
type AdminService struct {
	admins  adminStore
	perms   permissionStore
	members memberStubStore
	cache   profileCache
	auth    *AuthService
	authz   *AuthzService
	log     zerolog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	admins adminStore,
	perms permissionStore,
	members memberStubStore,
	cache profileCache,
	auth *AuthService,
	authz *AuthzService,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		admins:  admins,
		perms:   perms,
		members: members,
		cache:   cache,
		auth:    auth,
		authz:   authz,
		log:     log.With().Str("component", "admin_service").Logger(),
	}
}

// Register creates an admin account. actor is the verified identity of the
// caller, nil when the request carried no token.
//
// On an empty system registration is open but the submitted role must be
// superadmin. Once at least one admin exists, only a superadmin may register
// further accounts; a granted "users" permission does not suffice.
//
// Every new account starts with must_change_password set. A plain admin is
// auto-granted the "members" permission and a stub member profile is linked
// to the account (at most one per admin; re-registration attempts no-op the
// stub).
func (s *AdminService) Register(ctx context.Context, actor *Claims, req model.RegisterRequest) (*model.Admin, error) {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}

	if count == 0 {
		if req.Role != model.RoleSuperadmin {
			return nil, ErrFirstAdminRole
		}
	} else {
		if actor == nil {
			return nil, ErrAuthRequired
		}
		if err := s.authz.RequireSuperadmin(actor); err != nil {
			return nil, err
		}
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	if admin.Role == model.RoleAdmin {
		if err := s.perms.Grant(ctx, admin.ID, string(model.PermissionMembers)); err != nil {
			s.log.Error().Err(err).Int("admin_id", admin.ID).Msg("auto-grant members permission failed")
		}
	}

	joinDate := parseDate(req.JoinDate)
	stubEmail := fmt.Sprintf("%s@placeholder.local", admin.Username)
	if err := s.members.CreateStub(ctx, admin.Username, stubEmail, admin.ID, joinDate); err != nil {
		// The account is usable without its stub; log and continue.
		s.log.Error().Err(err).Int("admin_id", admin.ID).Msg("stub member profile creation failed")
	} else {
		s.cache.InvalidatePublicRoster(ctx)
	}

	s.log.Info().Int("admin_id", admin.ID).Str("role", string(admin.Role)).Msg("admin registered")
	return admin, nil
}

// GetByUsername retrieves an admin for login.
func (s *AdminService) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrNotFound
	}
	return admin, nil
}

// GetByID retrieves an admin by id.
func (s *AdminService) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return admin, nil
}

// EffectivePermissions resolves the admin's stored permission keys. The
// result is empty for an ungranted admin and for a superadmin alike; the
// superadmin's implicit full set lives in the role, never in rows.
func (s *AdminService) EffectivePermissions(ctx context.Context, adminID int) ([]string, error) {
	return s.perms.GetKeysByAdminID(ctx, adminID)
}

// List retrieves every admin together with its stored permission set.
func (s *AdminService) List(ctx context.Context) ([]model.AdminWithPermissions, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.AdminWithPermissions, 0, len(admins))
	for _, a := range admins {
		keys, err := s.perms.GetKeysByAdminID(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.AdminWithPermissions{Admin: a, Permissions: keys})
	}
	return out, nil
}

// SetPermissions atomically replaces the admin's entire permission set.
// Unknown keys are dropped silently and duplicates collapse; the stored set
// after the call is exactly the valid subset of keys.
func (s *AdminService) SetPermissions(ctx context.Context, adminID int, keys []string) error {
	if _, err := s.admins.GetByID(ctx, adminID); err != nil {
		return ErrNotFound
	}
	return s.perms.Replace(ctx, adminID, keys)
}

// ChangePassword verifies the current credential, stores the new hash, and
// clears the forced-change flag. The caller re-mints the session token so the
// new claims carry must_change_password=false and a fresh permission
// snapshot. Previously issued tokens stay cryptographically valid until
// expiry; there is no revocation list.
func (s *AdminService) ChangePassword(ctx context.Context, adminID int, current, newPassword string) (*model.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := s.auth.CheckPassword(admin.PasswordHash, current); err != nil {
		return nil, ErrInvalidCredentials
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	admin.PasswordHash = hash
	admin.MustChangePassword = false
	return admin, nil
}

// Delete removes an admin account immediately and irreversibly. The linked
// member profile is archived by the store in the same transaction, and its
// cached public copy is expired so the archived profile stops resolving
// without waiting out the cache TTL.
func (s *AdminService) Delete(ctx context.Context, id int) error {
	memberID, err := s.admins.Delete(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if memberID != 0 {
		s.cache.InvalidatePublic(ctx, memberID)
	}
	s.log.Info().Int("admin_id", id).Msg("admin deleted")
	return nil
}

// parseDate converts a yyyy-mm-dd string (already format-validated by
// binding) into a *time.Time, nil when empty.
func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

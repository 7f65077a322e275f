package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/rs/zerolog"
)

type fakeAdminStore struct {
	admins map[int]*model.Admin
	// memberIDs simulates the linked profile a real Delete archives and
	// reports back.
	memberIDs map[int]int
	nextID    int
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{
		admins:    make(map[int]*model.Admin),
		memberIDs: make(map[int]int),
		nextID:    1,
	}
}

func (s *fakeAdminStore) Count(ctx context.Context) (int, error) {
	return len(s.admins), nil
}

func (s *fakeAdminStore) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	a, ok := s.admins[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	cp := *a
	return &cp, nil
}

func (s *fakeAdminStore) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	for _, a := range s.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, errors.New("no rows")
}

func (s *fakeAdminStore) Create(ctx context.Context, a *model.Admin) error {
	a.ID = s.nextID
	a.MustChangePassword = true
	s.nextID++
	cp := *a
	s.admins[a.ID] = &cp
	return nil
}

func (s *fakeAdminStore) List(ctx context.Context) ([]model.Admin, error) {
	out := make([]model.Admin, 0, len(s.admins))
	for _, a := range s.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (s *fakeAdminStore) UpdatePassword(ctx context.Context, id int, hash string) error {
	a, ok := s.admins[id]
	if !ok {
		return errors.New("no rows")
	}
	a.PasswordHash = hash
	a.MustChangePassword = false
	return nil
}

func (s *fakeAdminStore) Delete(ctx context.Context, id int) (int, error) {
	if _, ok := s.admins[id]; !ok {
		return 0, errors.New("no rows")
	}
	delete(s.admins, id)
	return s.memberIDs[id], nil
}

type fakePermissionStore struct {
	grants map[int][]string
}

func newFakePermissionStore() *fakePermissionStore {
	return &fakePermissionStore{grants: make(map[int][]string)}
}

func (s *fakePermissionStore) GetKeysByAdminID(ctx context.Context, adminID int) ([]string, error) {
	keys := s.grants[adminID]
	if keys == nil {
		return []string{}, nil
	}
	return keys, nil
}

func (s *fakePermissionStore) Replace(ctx context.Context, adminID int, keys []string) error {
	valid := []string{}
	seen := map[string]struct{}{}
	for _, k := range keys {
		if !model.KnownPermission(model.Permission(k)) {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		valid = append(valid, k)
	}
	s.grants[adminID] = valid
	return nil
}

func (s *fakePermissionStore) Grant(ctx context.Context, adminID int, key string) error {
	for _, k := range s.grants[adminID] {
		if k == key {
			return nil
		}
	}
	s.grants[adminID] = append(s.grants[adminID], key)
	return nil
}

type fakeStubStore struct {
	stubs map[int]string // adminID -> name
}

func newFakeStubStore() *fakeStubStore {
	return &fakeStubStore{stubs: make(map[int]string)}
}

func (s *fakeStubStore) CreateStub(ctx context.Context, name, email string, adminID int, joinDate *time.Time) error {
	if _, ok := s.stubs[adminID]; ok {
		return nil
	}
	s.stubs[adminID] = name
	return nil
}

type fakeProfileCache struct {
	invalidated       []int
	rosterInvalidated int
}

func (c *fakeProfileCache) InvalidatePublic(ctx context.Context, memberID int) {
	c.invalidated = append(c.invalidated, memberID)
}

func (c *fakeProfileCache) InvalidatePublicRoster(ctx context.Context) {
	c.rosterInvalidated++
}

type adminFixture struct {
	svc     *AdminService
	admins  *fakeAdminStore
	perms   *fakePermissionStore
	members *fakeStubStore
	cache   *fakeProfileCache
}

func newAdminFixture() *adminFixture {
	admins := newFakeAdminStore()
	perms := newFakePermissionStore()
	members := newFakeStubStore()
	cache := &fakeProfileCache{}
	svc := NewAdminService(admins, perms, members, cache, testAuthService(), NewAuthzService(), zerolog.Nop())
	return &adminFixture{svc: svc, admins: admins, perms: perms, members: members, cache: cache}
}

func registerReq(username string, role model.Role) model.RegisterRequest {
	return model.RegisterRequest{Username: username, Password: "initial-pass", Role: role}
}

func TestRegisterBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("first admin must be superadmin", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.svc.Register(ctx, nil, registerReq("first", model.RoleAdmin))
		if !errors.Is(err, ErrFirstAdminRole) {
			t.Fatalf("got %v, want ErrFirstAdminRole", err)
		}
		if len(f.admins.admins) != 0 {
			t.Error("account created despite rejected bootstrap")
		}
	})

	t.Run("first superadmin registers without a token", func(t *testing.T) {
		f := newAdminFixture()
		admin, err := f.svc.Register(ctx, nil, registerReq("root", model.RoleSuperadmin))
		if err != nil {
			t.Fatalf("bootstrap register: %v", err)
		}
		if admin.Role != model.RoleSuperadmin {
			t.Errorf("role = %q", admin.Role)
		}
		if !f.admins.admins[admin.ID].MustChangePassword {
			t.Error("must_change_password not set on new account")
		}
		if keys, _ := f.perms.GetKeysByAdminID(ctx, admin.ID); len(keys) != 0 {
			t.Errorf("superadmin received stored grants: %v", keys)
		}
		if f.members.stubs[admin.ID] != "root" {
			t.Error("stub member profile missing")
		}
	})
}

func TestRegisterAfterBootstrap(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *adminFixture {
		f := newAdminFixture()
		if _, err := f.svc.Register(ctx, nil, registerReq("root", model.RoleSuperadmin)); err != nil {
			t.Fatalf("seed superadmin: %v", err)
		}
		return f
	}

	t.Run("anonymous registration closed", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Register(ctx, nil, registerReq("second", model.RoleAdmin))
		if !errors.Is(err, ErrAuthRequired) {
			t.Fatalf("got %v, want ErrAuthRequired", err)
		}
	})

	t.Run("users grant does not open registration", func(t *testing.T) {
		f := setup(t)
		actor := adminClaims(99, "users", "members", "events")
		_, err := f.svc.Register(ctx, actor, registerReq("second", model.RoleAdmin))
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("got %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("superadmin registers plain admin with auto-grant", func(t *testing.T) {
		f := setup(t)
		admin, err := f.svc.Register(ctx, superadminClaims(1), registerReq("editor", model.RoleAdmin))
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		keys, _ := f.perms.GetKeysByAdminID(ctx, admin.ID)
		if len(keys) != 1 || keys[0] != string(model.PermissionMembers) {
			t.Errorf("auto-grant = %v, want [members]", keys)
		}
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	created, err := f.svc.Register(ctx, nil, registerReq("root", model.RoleSuperadmin))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Run("wrong current password", func(t *testing.T) {
		_, err := f.svc.ChangePassword(ctx, created.ID, "wrong", "new-pass-123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("rotation clears forced-change flag", func(t *testing.T) {
		updated, err := f.svc.ChangePassword(ctx, created.ID, "initial-pass", "new-pass-123")
		if err != nil {
			t.Fatalf("ChangePassword: %v", err)
		}
		if updated.MustChangePassword {
			t.Error("flag still set after rotation")
		}
		auth := testAuthService()
		if err := auth.CheckPassword(updated.PasswordHash, "new-pass-123"); err != nil {
			t.Errorf("new password rejected: %v", err)
		}
	})

	t.Run("unknown admin", func(t *testing.T) {
		_, err := f.svc.ChangePassword(ctx, 999, "x", "y")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})
}

func TestSetPermissions(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	created, err := f.svc.Register(ctx, nil, registerReq("root", model.RoleSuperadmin))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Run("unknown keys dropped and duplicates collapsed", func(t *testing.T) {
		err := f.svc.SetPermissions(ctx, created.ID, []string{"events", "events", "bogus", "members"})
		if err != nil {
			t.Fatalf("SetPermissions: %v", err)
		}
		keys, _ := f.perms.GetKeysByAdminID(ctx, created.ID)
		if len(keys) != 2 {
			t.Errorf("stored set = %v, want exactly [events members]", keys)
		}
	})

	t.Run("replace is total", func(t *testing.T) {
		if err := f.svc.SetPermissions(ctx, created.ID, []string{}); err != nil {
			t.Fatalf("SetPermissions: %v", err)
		}
		keys, _ := f.perms.GetKeysByAdminID(ctx, created.ID)
		if len(keys) != 0 {
			t.Errorf("stored set = %v, want empty", keys)
		}
	})

	t.Run("unknown admin", func(t *testing.T) {
		if err := f.svc.SetPermissions(ctx, 999, []string{"events"}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteExpiresArchivedProfileCache(t *testing.T) {
	ctx := context.Background()

	t.Run("linked profile cache invalidated", func(t *testing.T) {
		f := newAdminFixture()
		admin, err := f.svc.Register(ctx, nil, registerReq("root", model.RoleSuperadmin))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		f.admins.memberIDs[admin.ID] = 42

		if err := f.svc.Delete(ctx, admin.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if len(f.cache.invalidated) != 1 || f.cache.invalidated[0] != 42 {
			t.Errorf("invalidated member ids = %v, want [42]", f.cache.invalidated)
		}
	})

	t.Run("no linked profile skips invalidation", func(t *testing.T) {
		f := newAdminFixture()
		admin, err := f.svc.Register(ctx, nil, registerReq("root", model.RoleSuperadmin))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}

		if err := f.svc.Delete(ctx, admin.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if len(f.cache.invalidated) != 0 {
			t.Errorf("invalidated member ids = %v, want none", f.cache.invalidated)
		}
	})

	t.Run("unknown admin", func(t *testing.T) {
		f := newAdminFixture()
		if err := f.svc.Delete(ctx, 999); !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})
}

func TestRegisterExpiresRosterCache(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	if _, err := f.svc.Register(ctx, nil, registerReq("root", model.RoleSuperadmin)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if f.cache.rosterInvalidated != 1 {
		t.Errorf("roster invalidations = %d, want 1 after stub creation", f.cache.rosterInvalidated)
	}
}

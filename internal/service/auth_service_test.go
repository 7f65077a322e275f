package service

import (
	"errors"
	"testing"
	"time"

	"github.com/collectivefm/collective-backend/internal/config"
	"github.com/collectivefm/collective-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func testAuthService() *AuthService {
	return NewAuthService(&config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  8 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
}

func TestPasswordHashing(t *testing.T) {
	auth := testAuthService()

	hash, err := auth.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored in plaintext")
	}

	if err := auth.CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := auth.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	auth := testAuthService()

	admin := &model.Admin{
		ID:                 42,
		Username:           "nova",
		Role:               model.RoleAdmin,
		MustChangePassword: true,
	}

	token, err := auth.GenerateAdminToken(admin, []string{"events", "members"})
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.AdminID != 42 {
		t.Errorf("AdminID = %d, want 42", claims.AdminID)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
	if !claims.MustChangePassword {
		t.Error("MustChangePassword flag lost")
	}
	if !claims.HasPermission(model.PermissionEvents) || !claims.HasPermission(model.PermissionMembers) {
		t.Errorf("permission snapshot incomplete: %v", claims.Permissions)
	}
	if claims.HasPermission(model.PermissionUsers) {
		t.Error("snapshot contains ungranted permission")
	}
	if claims.ID == "" {
		t.Error("token missing jti")
	}

	exp := claims.ExpiresAt.Time
	if d := time.Until(exp); d < 7*time.Hour || d > 9*time.Hour {
		t.Errorf("expiry %v not near the configured 8h window", d)
	}
}

func TestTokenSnapshotIndependence(t *testing.T) {
	auth := testAuthService()
	admin := &model.Admin{ID: 1, Role: model.RoleAdmin}

	perms := []string{"events"}
	token, err := auth.GenerateAdminToken(admin, perms)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	// Mutating the source slice after mint must not affect the token.
	perms[0] = "users"

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if !claims.HasPermission(model.PermissionEvents) {
		t.Error("minted snapshot lost original grant")
	}
}

func TestValidateTokenRejects(t *testing.T) {
	auth := testAuthService()
	admin := &model.Admin{ID: 1, Role: model.RoleAdmin}

	token, err := auth.GenerateAdminToken(admin, nil)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	t.Run("garbage", func(t *testing.T) {
		if _, err := auth.ValidateToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("got %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("tampered", func(t *testing.T) {
		tampered := token[:len(token)-2] + "xx"
		if _, err := auth.ValidateToken(tampered); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("got %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(&config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour})
		if _, err := other.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("got %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		short := NewAuthService(&config.Config{
			JWTSecret: "test-secret",
			JWTExpiry: -time.Minute,
		})
		expired, err := short.GenerateAdminToken(admin, nil)
		if err != nil {
			t.Fatalf("GenerateAdminToken: %v", err)
		}
		if _, err := auth.ValidateToken(expired); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("got %v, want ErrTokenInvalid", err)
		}
	})
}

package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/collectivefm/collective-backend/internal/config"
	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Claims extends JWT standard claims with the admin's identity, role, the
// forced-password-change flag and a snapshot of the permission set held at
// mint time. The snapshot is deliberate: a grant or revoke after mint does
// not take effect until the admin next logs in or changes their password.
type Claims struct {
	jwt.RegisteredClaims
	AdminID            int        `json:"id"`
	Role               model.Role `json:"role"`
	MustChangePassword bool       `json:"must_change_password"`
	Permissions        []string   `json:"permissions"`
}

// HasPermission reports whether the snapshot contains the given key.
// Callers must special-case RoleSuperadmin before consulting the snapshot;
// the implicit "all permissions" set is never materialized.
func (c *Claims) HasPermission(key model.Permission) bool {
	for _, p := range c.Permissions {
		if p == string(key) {
			return true
		}
	}
	return false
}

// AuthService mints and verifies session tokens and handles password hashing.
// It keeps no state about issued tokens; verification is a pure signature and
// expiry check.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateAdminToken creates a JWT for an admin, embedding the current
// effective permission set. The token is valid for the configured window
// (8 hours by default) from mint time.
func (s *AuthService) GenerateAdminToken(admin *model.Admin, permissions []string) (string, error) {
	if permissions == nil {
		permissions = []string{}
	}
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(admin.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		AdminID:            admin.ID,
		Role:               admin.Role,
		MustChangePassword: admin.MustChangePassword,
		Permissions:        permissions,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims. A malformed,
// expired, or tampered token yields ErrTokenInvalid; the claims are never
// partially trusted.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/collectivefm/collective-backend/internal/config"
	"github.com/collectivefm/collective-backend/internal/database"
	"github.com/collectivefm/collective-backend/internal/logger"
	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// create-admin provisions an account straight into the database, skipping
// the HTTP bootstrap rules. Operator tooling for first setup and recovery.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	adminRepo := repository.NewAdminRepository(pool)
	permissionRepo := repository.NewPermissionRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin ===")

	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: Username is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println()
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	fmt.Print("Enter Role (admin/superadmin, default superadmin): ")
	roleStr, _ := reader.ReadString('\n')
	roleStr = strings.TrimSpace(roleStr)
	role := model.RoleSuperadmin
	switch roleStr {
	case "", string(model.RoleSuperadmin):
	case string(model.RoleAdmin):
		role = model.RoleAdmin
	default:
		fmt.Println("Error: Role must be admin or superadmin")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	newAdmin := &model.Admin{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	if err := adminRepo.Create(ctx, newAdmin); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	if role == model.RoleAdmin {
		if err := permissionRepo.Grant(ctx, newAdmin.ID, string(model.PermissionMembers)); err != nil {
			log.Fatal().Err(err).Msg("Failed to grant members permission")
		}
	}

	stubEmail := fmt.Sprintf("%s@placeholder.local", username)
	if err := memberRepo.CreateStub(ctx, username, stubEmail, newAdmin.ID, nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to create member profile")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %d\n", newAdmin.Username, newAdmin.Role, newAdmin.ID)
}

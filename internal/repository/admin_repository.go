package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository handles admin credential data access. It owns the admins
// table exclusively; the authorization engine only ever reads claims derived
// from it.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// Count returns the number of admin accounts. Zero means the system is
// unbootstrapped and registration is open for the first superadmin.
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}

// GetByID retrieves an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, must_change_password, created_at, updated_at
		 FROM admins WHERE id = $1`, id,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.MustChangePassword, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByUsername retrieves an admin by their unique username.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, must_change_password, created_at, updated_at
		 FROM admins WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.MustChangePassword, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new admin. The forced-change flag is always set on
// creation; only a password change clears it.
func (r *AdminRepository) Create(ctx context.Context, a *model.Admin) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admins (username, password_hash, role, must_change_password)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id, must_change_password, created_at, updated_at`,
		a.Username, a.PasswordHash, a.Role,
	).Scan(&a.ID, &a.MustChangePassword, &a.CreatedAt, &a.UpdatedAt)
	return err
}

// List retrieves all admins ordered by id.
func (r *AdminRepository) List(ctx context.Context) ([]model.Admin, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, role, must_change_password, created_at, updated_at
		 FROM admins ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.Role, &a.MustChangePassword, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// UpdatePassword stores a new password hash and clears the forced-change flag.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE admins
		 SET password_hash = $1, must_change_password = FALSE, updated_at = NOW()
		 WHERE id = $2`, hash, id)
	return err
}

// Delete removes an admin. The linked member profile, if any, survives as an
// archived orphan; admin_permissions rows cascade away with the account.
// Removal is immediate and irreversible; there is no deactivated state.
// Returns the id of the archived profile, zero when no profile was linked,
// so the caller can expire its cached public copy.
func (r *AdminRepository) Delete(ctx context.Context, id int) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var memberID int
	err = tx.QueryRow(ctx,
		`UPDATE members SET archived = TRUE, admin_id = NULL, updated_at = NOW()
		 WHERE admin_id = $1
		 RETURNING id`, id).Scan(&memberID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("archive member profile: %w", err)
	}

	res, err := tx.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete admin: %w", err)
	}
	if res.RowsAffected() == 0 {
		return 0, ErrNoRowsAffected
	}

	return memberID, tx.Commit(ctx)
}

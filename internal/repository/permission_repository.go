package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoRowsAffected is returned by mutations that matched nothing.
var ErrNoRowsAffected = errors.New("no rows affected")

// PermissionRepository resolves and mutates the admin↔permission join.
// The catalog itself (the permissions table) is immutable reference data
// seeded by the migrations.
type PermissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository creates a new PermissionRepository.
func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

// GetKeysByAdminID retrieves the admin's stored permission keys, empty when
// none are granted. Superadmin's implicit full set is never stored, so this
// returns the same empty slice for a superadmin as for an ungranted admin.
func (r *PermissionRepository) GetKeysByAdminID(ctx context.Context, adminID int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.key
		 FROM admin_permissions ap
		 JOIN permissions p ON p.id = ap.permission_id
		 WHERE ap.admin_id = $1
		 ORDER BY p.key`, adminID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Replace swaps the admin's entire permission set for the given keys inside
// one transaction, so a concurrent read never observes the transient empty
// set between the delete and the insert. Keys not present in the catalog are
// silently dropped; duplicates collapse to a single grant.
func (r *PermissionRepository) Replace(ctx context.Context, adminID int, keys []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM admin_permissions WHERE admin_id = $1`, adminID); err != nil {
		return fmt.Errorf("clear permissions: %w", err)
	}

	if len(keys) > 0 {
		rows, err := tx.Query(ctx, `SELECT id FROM permissions WHERE key = ANY($1)`, keys)
		if err != nil {
			return fmt.Errorf("resolve keys: %w", err)
		}

		seen := make(map[int]struct{})
		var permissionIDs []int
		for rows.Next() {
			var pid int
			if err := rows.Scan(&pid); err != nil {
				rows.Close()
				return err
			}
			if _, dup := seen[pid]; !dup {
				seen[pid] = struct{}{}
				permissionIDs = append(permissionIDs, pid)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if len(permissionIDs) > 0 {
			_, err = tx.CopyFrom(
				ctx,
				pgx.Identifier{"admin_permissions"},
				[]string{"admin_id", "permission_id"},
				pgx.CopyFromSlice(len(permissionIDs), func(i int) ([]interface{}, error) {
					return []interface{}{adminID, permissionIDs[i]}, nil
				}),
			)
			if err != nil {
				return fmt.Errorf("insert permissions: %w", err)
			}
		}
	}

	return tx.Commit(ctx)
}

// Grant adds a single permission key to an admin, ignoring unknown keys and
// existing grants. Used by registration's auto-grant.
func (r *PermissionRepository) Grant(ctx context.Context, adminID int, key string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO admin_permissions (admin_id, permission_id)
		 SELECT $1, id FROM permissions WHERE key = $2
		 ON CONFLICT DO NOTHING`, adminID, key)
	return err
}

package repository

import (
	"context"

	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository handles back-office dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (totalMembers, upcomingEvents, pastEvents, totalAdmins int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM members WHERE NOT archived),
			(SELECT COUNT(*) FROM events WHERE date >= CURRENT_DATE),
			(SELECT COUNT(*) FROM events WHERE date < CURRENT_DATE),
			(SELECT COUNT(*) FROM admins)`,
	).Scan(&totalMembers, &upcomingEvents, &pastEvents, &totalAdmins)
	return
}

// GetNewestMembers retrieves the most recently added public profiles.
func (r *DashboardRepository) GetNewestMembers(ctx context.Context, limit int) ([]model.PublicMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, city, country, photo
		 FROM members WHERE NOT archived
		 ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.PublicMember
	for rows.Next() {
		var m model.PublicMember
		if err := rows.Scan(&m.ID, &m.Name, &m.City, &m.Country, &m.Photo); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

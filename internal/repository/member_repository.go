package repository

import (
	"context"
	"errors"
	"time"

	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memberColumns = `id, name, role, genres, bio, join_date, email, city, country,
	instagram, soundcloud, spotify, bandcamp, photo,
	portfolio_link, portfolio_description, portfolio_images,
	soundcloud_embeds, spotify_embeds, admin_id, archived, created_at, updated_at`

// MemberRepository handles member profile data access.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// scanMember fills m from a row selected with memberColumns. pgx.Rows
// satisfies pgx.Row, so both single-row and iterated scans share this.
func scanMember(row pgx.Row, m *model.Member) error {
	return row.Scan(
		&m.ID, &m.Name, &m.Role, &m.Genres, &m.Bio, &m.JoinDate, &m.Email, &m.City, &m.Country,
		&m.Instagram, &m.Soundcloud, &m.Spotify, &m.Bandcamp, &m.Photo,
		&m.PortfolioLink, &m.PortfolioDescription, &m.PortfolioImages,
		&m.SoundcloudEmbeds, &m.SpotifyEmbeds, &m.AdminID, &m.Archived, &m.CreatedAt, &m.UpdatedAt,
	)
}

// ListPublic retrieves the reduced public directory, excluding archived
// profiles.
func (r *MemberRepository) ListPublic(ctx context.Context) ([]model.PublicMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, city, country, photo
		 FROM members WHERE NOT archived ORDER BY name ASC`)
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

// List retrieves all member profiles for the back office, archived included.
func (r *MemberRepository) List(ctx context.Context) ([]model.Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+memberColumns+` FROM members ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := scanMember(rows, &m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetByID retrieves a member profile by id, archived or not; callers decide
// how an archived profile surfaces.
func (r *MemberRepository) GetByID(ctx context.Context, id int) (*model.Member, error) {
	m := &model.Member{}
	err := scanMember(r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id), m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new member profile.
func (r *MemberRepository) Create(ctx context.Context, m *model.Member) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO members
		   (name, role, genres, bio, join_date, email, city, country,
		    instagram, soundcloud, spotify, bandcamp, photo,
		    portfolio_link, portfolio_description, portfolio_images,
		    soundcloud_embeds, spotify_embeds, admin_id)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		 RETURNING id, archived, created_at, updated_at`,
		m.Name, m.Role, m.Genres, m.Bio, m.JoinDate, m.Email, m.City, m.Country,
		m.Instagram, m.Soundcloud, m.Spotify, m.Bandcamp, m.Photo,
		m.PortfolioLink, m.PortfolioDescription, m.PortfolioImages,
		m.SoundcloudEmbeds, m.SpotifyEmbeds, m.AdminID,
	).Scan(&m.ID, &m.Archived, &m.CreatedAt, &m.UpdatedAt)
}

// CreateStub inserts the minimal profile linked to a freshly registered
// admin. The unique admin_id constraint enforces the 1:1 invariant; an
// existing link makes this a no-op.
func (r *MemberRepository) CreateStub(ctx context.Context, name, email string, adminID int, joinDate *time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO members (name, role, email, admin_id, join_date)
		 VALUES ($1, 'Artist', $2, $3, COALESCE($4, CURRENT_DATE))
		 ON CONFLICT (admin_id) DO NOTHING`,
		name, email, adminID, joinDate)
	return err
}

// Update rewrites a member profile in place and fills m with the columns it
// does not touch (admin link, archival state, timestamps) so callers return
// the stored row.
func (r *MemberRepository) Update(ctx context.Context, m *model.Member) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE members SET
		   name = $1, role = $2, genres = $3, bio = $4, join_date = $5, email = $6,
		   city = $7, country = $8, instagram = $9, soundcloud = $10, spotify = $11,
		   bandcamp = $12, photo = $13, portfolio_link = $14, portfolio_description = $15,
		   portfolio_images = $16, soundcloud_embeds = $17, spotify_embeds = $18,
		   updated_at = NOW()
		 WHERE id = $19
		 RETURNING admin_id, archived, created_at, updated_at`,
		m.Name, m.Role, m.Genres, m.Bio, m.JoinDate, m.Email,
		m.City, m.Country, m.Instagram, m.Soundcloud, m.Spotify,
		m.Bandcamp, m.Photo, m.PortfolioLink, m.PortfolioDescription,
		m.PortfolioImages, m.SoundcloudEmbeds, m.SpotifyEmbeds, m.ID,
	).Scan(&m.AdminID, &m.Archived, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRowsAffected
	}
	return err
}

// Delete removes a member profile.
func (r *MemberRepository) Delete(ctx context.Context, id int) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

package repository

import (
	"context"

	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository handles event data access.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// ListByKind retrieves events partitioned by date: upcoming ascending from
// today, past descending, or everything ascending.
func (r *EventRepository) ListByKind(ctx context.Context, kind model.EventKind) ([]model.Event, error) {
	var query string
	switch kind {
	case model.EventKindUpcoming:
		query = `SELECT id, title, date, description, image, created_at, updated_at
		         FROM events WHERE date >= CURRENT_DATE ORDER BY date ASC`
	case model.EventKindPast:
		query = `SELECT id, title, date, description, image, created_at, updated_at
		         FROM events WHERE date < CURRENT_DATE ORDER BY date DESC`
	default:
		query = `SELECT id, title, date, description, image, created_at, updated_at
		         FROM events ORDER BY date ASC`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Description, &e.Image, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID retrieves a single event.
func (r *EventRepository) GetByID(ctx context.Context, id int) (*model.Event, error) {
	e := &model.Event{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, date, description, image, created_at, updated_at
		 FROM events WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.Date, &e.Description, &e.Image, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO events (title, date, description, image)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		e.Title, e.Date, e.Description, e.Image,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Update rewrites an event in place.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	res, err := r.pool.Exec(ctx,
		`UPDATE events
		 SET title = $1, date = $2, description = $3, image = $4, updated_at = NOW()
		 WHERE id = $5`,
		e.Title, e.Date, e.Description, e.Image, e.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id int) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vedasree28/student-buzz-central/internal/domain"
)

const eventColumns = `id, title, description, category, location, campus_type,
start_at, end_at, image_url, organizer, capacity, created_at`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, title, description, category, location, campus_type,
	start_at, end_at, image_url, organizer, capacity, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, stmt,
		event.ID,
		event.Title,
		event.Description,
		event.Category,
		event.Location,
		event.CampusType,
		event.StartAt,
		event.EndAt,
		event.ImageURL,
		event.Organizer,
		event.Capacity,
		event.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidTimeRange
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
UPDATE events
SET title = $2, description = $3, category = $4, location = $5,
	campus_type = $6, start_at = $7, end_at = $8, image_url = $9,
	organizer = $10, capacity = $11
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt,
		event.ID,
		event.Title,
		event.Description,
		event.Category,
		event.Location,
		event.CampusType,
		event.StartAt,
		event.EndAt,
		event.ImageURL,
		event.Organizer,
		event.Capacity,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidTimeRange
		}
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// DeleteEvent removes the event; registrations cascade away at the schema level.
func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	const stmt = `DELETE FROM events WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var event domain.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Category,
		&event.Location,
		&event.CampusType,
		&event.StartAt,
		&event.EndAt,
		&event.ImageURL,
		&event.Organizer,
		&event.Capacity,
		&event.CreatedAt,
	)
	return event, err
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vedasree28/student-buzz-central/internal/domain"
)

type RegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

func (r *RegistrationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetEventForUpdate locks the event row so a capacity check and insert in
// the same transaction cannot interleave with another registration.
func (r *RegistrationRepository) GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	event, err := scanEvent(r.queryRow(ctx, query, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event for update: %w", err)
	}
	return event, nil
}

func (r *RegistrationRepository) CountRegistrations(ctx context.Context, eventID string) (int, error) {
	const query = `SELECT COUNT(*) FROM registrations WHERE event_id = $1`

	var count int
	if err := r.queryRow(ctx, query, eventID).Scan(&count); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}

func (r *RegistrationRepository) IsRegistered(ctx context.Context, eventID, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM registrations WHERE event_id = $1 AND user_id = $2)`

	var registered bool
	if err := r.queryRow(ctx, query, eventID, userID).Scan(&registered); err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("check registration: %w", err)
	}
	return registered, nil
}

func (r *RegistrationRepository) ListRegisteredUsers(ctx context.Context, eventID string) ([]string, error) {
	const query = `
SELECT user_id
FROM registrations
WHERE event_id = $1
ORDER BY created_at ASC`

	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list registered users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		users = append(users, userID)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate registrations: %w", rows.Err())
	}
	return users, nil
}

// ListAllRegistrations fetches membership for every event in one round trip.
func (r *RegistrationRepository) ListAllRegistrations(ctx context.Context) (map[string][]string, error) {
	const query = `SELECT event_id, user_id FROM registrations ORDER BY event_id, created_at ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all registrations: %w", err)
	}
	defer rows.Close()

	all := make(map[string][]string)
	for rows.Next() {
		var eventID, userID string
		if err := rows.Scan(&eventID, &userID); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		all[eventID] = append(all[eventID], userID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate registrations: %w", rows.Err())
	}
	return all, nil
}

func (r *RegistrationRepository) InsertRegistration(ctx context.Context, reg domain.Registration) error {
	const stmt = `
INSERT INTO registrations (event_id, user_id, created_at)
VALUES ($1, $2, $3)`

	_, err := r.exec(ctx, stmt, reg.EventID, reg.UserID, reg.CreatedAt)
	if err != nil {
		// The composite primary key is the authoritative duplicate guard.
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) DeleteRegistration(ctx context.Context, eventID, userID string) error {
	const stmt = `DELETE FROM registrations WHERE event_id = $1 AND user_id = $2`

	tag, err := r.exec(ctx, stmt, eventID, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotRegistered
	}
	return nil
}

func (r *RegistrationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *RegistrationRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *RegistrationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

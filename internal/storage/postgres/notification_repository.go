package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vedasree28/student-buzz-central/internal/domain"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// InsertNotifications writes the rows as a single batch.
func (r *NotificationRepository) InsertNotifications(ctx context.Context, notifications []domain.Notification) error {
	const stmt = `
INSERT INTO notifications (id, user_id, event_id, title, description, read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := &pgx.Batch{}
	for _, n := range notifications {
		var eventID *string
		if n.EventID != "" {
			id := n.EventID
			eventID = &id
		}
		batch.Queue(stmt, n.ID, n.UserID, eventID, n.Title, n.Description, n.Read, n.CreatedAt)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range notifications {
		if _, err := results.Exec(); err != nil {
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			if isForeignKeyViolation(err) {
				return domain.ErrEventNotFound
			}
			return fmt.Errorf("insert notification: %w", err)
		}
	}
	return nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	const query = `
SELECT id, user_id, event_id, title, description, read, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var eventID *string
		if err := rows.Scan(&n.ID, &n.UserID, &eventID, &n.Title, &n.Description, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if eventID != nil {
			n.EventID = *eventID
		}
		notifications = append(notifications, n)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate notifications: %w", rows.Err())
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	const stmt = `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, stmt, id, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	const stmt = `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`

	if _, err := r.pool.Exec(ctx, stmt, userID); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id, userID string) error {
	const stmt = `DELETE FROM notifications WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, stmt, id, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

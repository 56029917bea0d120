package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vedasree28/student-buzz-central/internal/domain"
	"github.com/vedasree28/student-buzz-central/internal/testutil"
)

func TestNotificationRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewNotificationRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	newNotification := func(userID, eventID, title string, at time.Time) domain.Notification {
		return domain.Notification{
			ID:          uuid.NewString(),
			UserID:      userID,
			EventID:     eventID,
			Title:       title,
			Description: title + " details",
			CreatedAt:   at,
		}
	}

	t.Run("InsertNotifications writes a batch and lists newest first", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, "Career Fair", 100)

		base := time.Now().UTC().Truncate(time.Microsecond)
		batch := []domain.Notification{
			newNotification(userAlice, eventID, "Oldest", base.Add(-2*time.Hour)),
			newNotification(userAlice, eventID, "Newest", base),
			newNotification(userBob, eventID, "For Bob", base),
		}
		if err := repo.InsertNotifications(ctx, batch); err != nil {
			t.Fatalf("insert batch: %v", err)
		}

		got, err := repo.ListForUser(ctx, userAlice, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 || got[0].Title != "Newest" || got[1].Title != "Oldest" {
			t.Fatalf("unexpected listing: %+v", got)
		}
		if got[0].EventID != eventID {
			t.Fatalf("expected event id %s, got %s", eventID, got[0].EventID)
		}
	})

	t.Run("ListForUser honors the limit", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, "Career Fair", 100)

		base := time.Now().UTC()
		var batch []domain.Notification
		for i := 0; i < 12; i++ {
			batch = append(batch, newNotification(userAlice, eventID, "Update", base.Add(time.Duration(i)*time.Second)))
		}
		if err := repo.InsertNotifications(ctx, batch); err != nil {
			t.Fatalf("insert batch: %v", err)
		}

		got, err := repo.ListForUser(ctx, userAlice, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 10 {
			t.Fatalf("expected 10 notifications, got %d", len(got))
		}
	})

	t.Run("InsertNotifications rejects unknown event", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		n := newNotification(userAlice, "00000000-0000-0000-0000-000000000001", "Ghost", time.Now().UTC())
		if err := repo.InsertNotifications(ctx, []domain.Notification{n}); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("event deletion keeps notifications with a null event", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, "Career Fair", 100)

		n := newNotification(userAlice, eventID, "Event cancelled", time.Now().UTC())
		if err := repo.InsertNotifications(ctx, []domain.Notification{n}); err != nil {
			t.Fatalf("insert: %v", err)
		}

		if _, err := pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID); err != nil {
			t.Fatalf("delete event: %v", err)
		}

		got, err := repo.ListForUser(ctx, userAlice, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].EventID != "" {
			t.Fatalf("expected orphaned notification with empty event id, got %+v", got)
		}
	})

	t.Run("MarkRead and MarkAllRead", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, "Career Fair", 100)

		base := time.Now().UTC()
		first := newNotification(userAlice, eventID, "First", base)
		second := newNotification(userAlice, eventID, "Second", base.Add(time.Second))
		if err := repo.InsertNotifications(ctx, []domain.Notification{first, second}); err != nil {
			t.Fatalf("insert: %v", err)
		}

		if err := repo.MarkRead(ctx, first.ID, userAlice); err != nil {
			t.Fatalf("mark read: %v", err)
		}
		if err := repo.MarkRead(ctx, first.ID, userBob); err != domain.ErrNotificationNotFound {
			t.Fatalf("expected ErrNotificationNotFound for wrong user, got %v", err)
		}

		if err := repo.MarkAllRead(ctx, userAlice); err != nil {
			t.Fatalf("mark all read: %v", err)
		}

		got, err := repo.ListForUser(ctx, userAlice, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, n := range got {
			if !n.Read {
				t.Fatalf("expected all read, got %+v", got)
			}
		}
	})

	t.Run("Delete removes only the addressed row", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, "Career Fair", 100)

		n := newNotification(userAlice, eventID, "Event updated", time.Now().UTC())
		if err := repo.InsertNotifications(ctx, []domain.Notification{n}); err != nil {
			t.Fatalf("insert: %v", err)
		}

		if err := repo.Delete(ctx, n.ID, userBob); err != domain.ErrNotificationNotFound {
			t.Fatalf("expected ErrNotificationNotFound for wrong user, got %v", err)
		}
		if err := repo.Delete(ctx, n.ID, userAlice); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := repo.Delete(ctx, n.ID, userAlice); err != domain.ErrNotificationNotFound {
			t.Fatalf("expected ErrNotificationNotFound on second delete, got %v", err)
		}
	})
}

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedasree28/student-buzz-central/internal/clock"
	"github.com/vedasree28/student-buzz-central/internal/domain"
)

func TestNotificationService_NotifyRegistrants(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	event := domain.Event{ID: "event-1", Title: "Hackathon"}

	t.Run("writes one row per registrant", func(t *testing.T) {
		t.Parallel()
		repo := newFakeNotificationRepo()
		lister := fakeRegistrantLister{"event-1": {"u1", "u2"}}
		svc := NewNotificationService(repo, lister, clock.NewFixed(now))

		err := svc.NotifyRegistrants(context.Background(), event, "Event updated", "Hackathon has been updated.")
		require.NoError(t, err)
		require.Len(t, repo.rows, 2)

		for _, n := range repo.rows {
			assert.NotEmpty(t, n.ID)
			assert.Equal(t, event.ID, n.EventID)
			assert.Equal(t, "Event updated", n.Title)
			assert.False(t, n.Read)
			assert.Equal(t, now, n.CreatedAt)
		}
		assert.ElementsMatch(t, []string{"u1", "u2"}, []string{repo.rows[0].UserID, repo.rows[1].UserID})
	})

	t.Run("no registrants means no writes", func(t *testing.T) {
		t.Parallel()
		repo := newFakeNotificationRepo()
		svc := NewNotificationService(repo, fakeRegistrantLister{}, clock.NewFixed(now))

		err := svc.NotifyRegistrants(context.Background(), event, "Event cancelled", "Hackathon has been cancelled.")
		require.NoError(t, err)
		assert.Empty(t, repo.rows)
		assert.Zero(t, repo.insertCalls)
	})
}

func TestNotificationService_Validation(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, fakeRegistrantLister{}, clock.NewFixed(now))
	ctx := context.Background()

	_, err := svc.ListForUser(ctx, "")
	require.ErrorIs(t, err, domain.ErrUserIDRequired)

	require.ErrorIs(t, svc.MarkRead(ctx, "", "u1"), domain.ErrInvalidID)
	require.ErrorIs(t, svc.MarkRead(ctx, "n1", ""), domain.ErrUserIDRequired)
	require.ErrorIs(t, svc.MarkAllRead(ctx, ""), domain.ErrUserIDRequired)
	require.ErrorIs(t, svc.Delete(ctx, "n1", ""), domain.ErrUserIDRequired)
}

func TestNotificationService_ListForUser(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeNotificationRepo()
	repo.rows = []domain.Notification{
		{ID: "n1", UserID: "u1"},
		{ID: "n2", UserID: "u2"},
		{ID: "n3", UserID: "u1"},
	}
	svc := NewNotificationService(repo, fakeRegistrantLister{}, clock.NewFixed(now))

	got, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, defaultListLimit, repo.lastLimit)
}

type fakeRegistrantLister map[string][]string

func (f fakeRegistrantLister) ListRegisteredUsers(_ context.Context, eventID string) ([]string, error) {
	return f[eventID], nil
}

type fakeNotificationRepo struct {
	rows        []domain.Notification
	insertCalls int
	lastLimit   int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) InsertNotifications(_ context.Context, notifications []domain.Notification) error {
	f.insertCalls++
	f.rows = append(f.rows, notifications...)
	return nil
}

func (f *fakeNotificationRepo) ListForUser(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	f.lastLimit = limit
	var out []domain.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for i, n := range f.rows {
		if n.ID == id && n.UserID == userID {
			f.rows[i].Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for i, n := range f.rows {
		if n.UserID == userID {
			f.rows[i].Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, id, userID string) error {
	for i, n := range f.rows {
		if n.ID == id && n.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

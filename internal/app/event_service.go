package app

import (
	"context"
	"log"
	"time"

	"github.com/vedasree28/student-buzz-central/internal/clock"
	"github.com/vedasree28/student-buzz-central/internal/domain"
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

// Notifier fans a message out to every user registered for an event.
type Notifier interface {
	NotifyRegistrants(ctx context.Context, event domain.Event, title, message string) error
}

// EventService handles the administrator surface: event CRUD plus update and
// cancellation notices for registered users. Deleting an event cascades to
// its registrations at the schema level.
type EventService struct {
	repo     EventRepository
	clock    clock.Clock
	notifier Notifier
	logger   *log.Logger
}

func NewEventService(repo EventRepository, clk clock.Clock, opts ...EventServiceOption) *EventService {
	svc := &EventService{
		repo:   repo,
		clock:  clk,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type EventServiceOption func(*EventService)

// WithNotifier enables update/cancellation notices for registrants.
func WithNotifier(n Notifier) EventServiceOption {
	return func(s *EventService) {
		s.notifier = n
	}
}

func WithLogger(l *log.Logger) EventServiceOption {
	return func(s *EventService) {
		if l != nil {
			s.logger = l
		}
	}
}

type CreateEventInput struct {
	Title       string
	Description string
	Category    domain.EventCategory
	Location    string
	CampusType  domain.CampusType
	StartAt     time.Time
	EndAt       time.Time
	ImageURL    string
	Organizer   string
	Capacity    int
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	event := domain.Event{
		ID:          newID(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		CampusType:  in.CampusType,
		StartAt:     in.StartAt.UTC(),
		EndAt:       in.EndAt.UTC(),
		ImageURL:    in.ImageURL,
		Organizer:   in.Organizer,
		Capacity:    in.Capacity,
		CreatedAt:   s.clock.Now(),
	}
	if err := validateEvent(event); err != nil {
		return domain.Event{}, err
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	if id == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

// UpdateEventInput carries a partial edit; nil fields keep their current value.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Category    *domain.EventCategory
	Location    *string
	CampusType  *domain.CampusType
	StartAt     *time.Time
	EndAt       *time.Time
	ImageURL    *string
	Organizer   *string
	Capacity    *int
}

func (s *EventService) UpdateEvent(ctx context.Context, id string, in UpdateEventInput) (domain.Event, error) {
	if id == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	applyUpdate(&event, in)
	if err := validateEvent(event); err != nil {
		return domain.Event{}, err
	}
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}

	s.notify(ctx, event, "Event updated", event.Title+" has been updated. Check the new details.")
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	// Registrants must be notified before the delete cascades their
	// registrations away.
	s.notify(ctx, event, "Event cancelled", event.Title+" has been cancelled.")

	return s.repo.DeleteEvent(ctx, id)
}

// notify is best effort: a failed fan-out must not undo a committed edit.
func (s *EventService) notify(ctx context.Context, event domain.Event, title, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyRegistrants(ctx, event, title, message); err != nil {
		s.logger.Printf("WARN: notify registrants event=%s: %v", event.ID, err)
	}
}

func validateEvent(event domain.Event) error {
	if event.Title == "" {
		return domain.ErrTitleRequired
	}
	if event.Capacity < 0 {
		return domain.ErrInvalidCapacity
	}
	if event.StartAt.After(event.EndAt) {
		return domain.ErrInvalidTimeRange
	}
	return nil
}

func applyUpdate(event *domain.Event, in UpdateEventInput) {
	if in.Title != nil {
		event.Title = *in.Title
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.Category != nil {
		event.Category = *in.Category
	}
	if in.Location != nil {
		event.Location = *in.Location
	}
	if in.CampusType != nil {
		event.CampusType = *in.CampusType
	}
	if in.StartAt != nil {
		event.StartAt = in.StartAt.UTC()
	}
	if in.EndAt != nil {
		event.EndAt = in.EndAt.UTC()
	}
	if in.ImageURL != nil {
		event.ImageURL = *in.ImageURL
	}
	if in.Organizer != nil {
		event.Organizer = *in.Organizer
	}
	if in.Capacity != nil {
		event.Capacity = *in.Capacity
	}
}

package domain

import "time"

// EventStatus is the temporal classification of an event relative to an
// instant. It is always derived and never persisted.
type EventStatus string

const (
	StatusUpcoming EventStatus = "upcoming"
	StatusOngoing  EventStatus = "ongoing"
	StatusPast     EventStatus = "past"
)

// ClassifyStatus derives the status of an event at the given instant. Both
// window boundaries are inclusive: now == StartAt and now == EndAt are
// ongoing. Events with StartAt > EndAt are rejected rather than guessed at.
func ClassifyStatus(e Event, now time.Time) (EventStatus, error) {
	if e.StartAt.After(e.EndAt) {
		return "", ErrInvalidTimeRange
	}
	switch {
	case now.Before(e.StartAt):
		return StatusUpcoming, nil
	case now.After(e.EndAt):
		return StatusPast, nil
	default:
		return StatusOngoing, nil
	}
}

package domain

import "time"

type EventCategory string

const (
	CategoryAcademic EventCategory = "academic"
	CategorySocial   EventCategory = "social"
	CategoryCareer   EventCategory = "career"
	CategorySports   EventCategory = "sports"
	CategoryArts     EventCategory = "arts"
	CategoryOther    EventCategory = "other"
)

type CampusType string

const (
	CampusOn  CampusType = "on"
	CampusOff CampusType = "off"
)

// Event is a scheduled campus activity with a time window and a registration
// capacity. StartAt and EndAt are UTC instants with StartAt <= EndAt.
type Event struct {
	ID          string
	Title       string
	Description string
	Category    EventCategory
	Location    string
	CampusType  CampusType
	StartAt     time.Time
	EndAt       time.Time
	ImageURL    string
	Organizer   string
	Capacity    int
	CreatedAt   time.Time
}

// Registration records a single user's intent to attend a single event.
// The (EventID, UserID) pair is unique.
type Registration struct {
	EventID   string
	UserID    string
	CreatedAt time.Time
}

// Notification is a per-user message row. EventID is empty when the
// referenced event no longer exists.
type Notification struct {
	ID          string
	UserID      string
	EventID     string
	Title       string
	Description string
	Read        bool
	CreatedAt   time.Time
}

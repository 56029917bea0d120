package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vedasree28/student-buzz-central/internal/app"
	"github.com/vedasree28/student-buzz-central/internal/clock"
	"github.com/vedasree28/student-buzz-central/internal/domain"
)

// EventService is the minimal interface needed for the event endpoints.
type EventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, id string, in app.UpdateEventInput) (domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// RegistrationLedger is the slice of the registration service the event
// endpoints need for derived counts and mirror upkeep.
type RegistrationLedger interface {
	Refresh(ctx context.Context, eventID string) error
	RefreshAll(ctx context.Context) error
	AvailableSlots(event domain.Event) int
	Evict(eventID string)
}

// HandleEvents returns an HTTP handler for listing and creating events.
func HandleEvents(svc EventService, ledger RegistrationLedger, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListEvents(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			if err := ledger.RefreshAll(r.Context()); err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}

			now := clk.Now()
			resp := make([]eventResponse, 0, len(events))
			for _, event := range events {
				er, err := newEventResponse(event, ledger, now)
				if err != nil {
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
					return
				}
				resp = append(resp, er)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req eventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			in, err := req.toCreateInput()
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, err.Error())
				return
			}

			event, err := svc.CreateEvent(r.Context(), in)
			if err != nil {
				writeEventError(w, err)
				return
			}

			resp, err := newEventResponse(event, ledger, clk.Now())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(resp)
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleEventSubroutes dispatches /events/{id} and the register/unregister
// actions beneath it.
func HandleEventSubroutes(svc EventService, ledger RegistrationMutator, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, action, ok := parseEventPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch action {
		case "":
			handleEventItem(w, r, svc, ledger, clk, eventID)
		case "register", "unregister":
			handleRegistrationAction(w, r, svc, ledger, eventID, action)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleEventItem(w http.ResponseWriter, r *http.Request, svc EventService, ledger RegistrationMutator, clk clock.Clock, eventID string) {
	switch r.Method {
	case http.MethodGet:
		event, err := svc.GetEvent(r.Context(), eventID)
		if err != nil {
			writeEventError(w, err)
			return
		}
		if err := ledger.Refresh(r.Context(), eventID); err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		resp, err := newEventResponse(event, ledger, clk.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	case http.MethodPut:
		var req updateEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		in, err := req.toUpdateInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, err.Error())
			return
		}

		event, err := svc.UpdateEvent(r.Context(), eventID, in)
		if err != nil {
			writeEventError(w, err)
			return
		}
		resp, err := newEventResponse(event, ledger, clk.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	case http.MethodDelete:
		if err := svc.DeleteEvent(r.Context(), eventID); err != nil {
			writeEventError(w, err)
			return
		}
		ledger.Evict(eventID)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	}
}

func writeEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrEventNotFound):
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case errors.Is(err, domain.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidCapacity):
		writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
	case errors.Is(err, domain.ErrInvalidTimeRange):
		writeError(w, http.StatusBadRequest, codeInvalidTimeRange, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	CampusType  string `json:"campus_type"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
	ImageURL    string `json:"image_url"`
	Organizer   string `json:"organizer"`
	Capacity    int    `json:"capacity"`
}

func (r eventRequest) toCreateInput() (app.CreateEventInput, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return app.CreateEventInput{}, errors.New("invalid start_at format")
	}
	endAt, err := time.Parse(time.RFC3339, r.EndAt)
	if err != nil {
		return app.CreateEventInput{}, errors.New("invalid end_at format")
	}
	return app.CreateEventInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    domain.EventCategory(r.Category),
		Location:    r.Location,
		CampusType:  domain.CampusType(r.CampusType),
		StartAt:     startAt,
		EndAt:       endAt,
		ImageURL:    r.ImageURL,
		Organizer:   r.Organizer,
		Capacity:    r.Capacity,
	}, nil
}

type updateEventRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	CampusType  *string `json:"campus_type,omitempty"`
	StartAt     *string `json:"start_at,omitempty"`
	EndAt       *string `json:"end_at,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Organizer   *string `json:"organizer,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
}

func (r updateEventRequest) toUpdateInput() (app.UpdateEventInput, error) {
	in := app.UpdateEventInput{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		ImageURL:    r.ImageURL,
		Organizer:   r.Organizer,
		Capacity:    r.Capacity,
	}
	if r.Category != nil {
		category := domain.EventCategory(*r.Category)
		in.Category = &category
	}
	if r.CampusType != nil {
		campusType := domain.CampusType(*r.CampusType)
		in.CampusType = &campusType
	}
	if r.StartAt != nil {
		startAt, err := time.Parse(time.RFC3339, *r.StartAt)
		if err != nil {
			return app.UpdateEventInput{}, errors.New("invalid start_at format")
		}
		in.StartAt = &startAt
	}
	if r.EndAt != nil {
		endAt, err := time.Parse(time.RFC3339, *r.EndAt)
		if err != nil {
			return app.UpdateEventInput{}, errors.New("invalid end_at format")
		}
		in.EndAt = &endAt
	}
	return in, nil
}

type eventResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Location       string    `json:"location"`
	CampusType     string    `json:"campus_type"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	ImageURL       string    `json:"image_url"`
	Organizer      string    `json:"organizer"`
	Capacity       int       `json:"capacity"`
	Status         string    `json:"status"`
	AvailableSlots int       `json:"available_slots"`
	CreatedAt      time.Time `json:"created_at"`
}

// newEventResponse derives status and free capacity per request; neither is
// ever read from storage.
func newEventResponse(event domain.Event, slots slotReader, now time.Time) (eventResponse, error) {
	status, err := domain.ClassifyStatus(event, now)
	if err != nil {
		return eventResponse{}, err
	}
	return eventResponse{
		ID:             event.ID,
		Title:          event.Title,
		Description:    event.Description,
		Category:       string(event.Category),
		Location:       event.Location,
		CampusType:     string(event.CampusType),
		StartAt:        event.StartAt,
		EndAt:          event.EndAt,
		ImageURL:       event.ImageURL,
		Organizer:      event.Organizer,
		Capacity:       event.Capacity,
		Status:         string(status),
		AvailableSlots: slots.AvailableSlots(event),
		CreatedAt:      event.CreatedAt,
	}, nil
}

type slotReader interface {
	AvailableSlots(event domain.Event) int
}

func parseEventPath(path string) (eventID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "events" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	if parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vedasree28/student-buzz-central/internal/domain"
)

// NotificationService is the minimal interface needed for the notification
// endpoints. The user is identified by a user_id query parameter; session
// handling lives outside this service.
type NotificationService interface {
	ListForUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, userID string) error
}

// HandleNotifications returns an HTTP handler for listing notifications.
func HandleNotifications(svc NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		userID := r.URL.Query().Get("user_id")
		notifications, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			writeNotificationError(w, err)
			return
		}

		resp := make([]notificationResponse, 0, len(notifications))
		for _, n := range notifications {
			resp = append(resp, notificationResponse{
				ID:          n.ID,
				EventID:     n.EventID,
				Title:       n.Title,
				Description: n.Description,
				Read:        n.Read,
				CreatedAt:   n.CreatedAt,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleNotificationSubroutes dispatches /notifications/read-all,
// /notifications/{id}/read and /notifications/{id}.
func HandleNotificationSubroutes(svc NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, action, ok := parseNotificationPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		userID := r.URL.Query().Get("user_id")

		switch {
		case id == "read-all" && action == "":
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			if err := svc.MarkAllRead(r.Context(), userID); err != nil {
				writeNotificationError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case action == "read":
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			if err := svc.MarkRead(r.Context(), id, userID); err != nil {
				writeNotificationError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case action == "":
			if r.Method != http.MethodDelete {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			if err := svc.Delete(r.Context(), id, userID); err != nil {
				writeNotificationError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func writeNotificationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserIDRequired):
		writeError(w, http.StatusBadRequest, codeUserIDRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, codeNotificationNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func parseNotificationPath(path string) (id, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "notifications" || parts[1] == "" {
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

type notificationResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

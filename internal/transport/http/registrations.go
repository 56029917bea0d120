package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vedasree28/student-buzz-central/internal/domain"
)

// RegistrationMutator extends the ledger with the two guarded mutations.
type RegistrationMutator interface {
	RegistrationLedger
	Register(ctx context.Context, event domain.Event, userID string) (int, error)
	Unregister(ctx context.Context, event domain.Event, userID string) (int, error)
}

func handleRegistrationAction(w http.ResponseWriter, r *http.Request, svc EventService, ledger RegistrationMutator, eventID, action string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req registrationRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, codeUserIDRequired, domain.ErrUserIDRequired.Error())
		return
	}

	event, err := svc.GetEvent(r.Context(), eventID)
	if err != nil {
		writeEventError(w, err)
		return
	}

	var count int
	if action == "register" {
		count, err = ledger.Register(r.Context(), event, req.UserID)
	} else {
		count, err = ledger.Unregister(r.Context(), event, req.UserID)
	}
	if err != nil {
		writeRegistrationError(w, err)
		return
	}

	resp := registrationResponse{
		EventID:         event.ID,
		UserID:          req.UserID,
		RegisteredCount: count,
		AvailableSlots:  ledger.AvailableSlots(event),
	}

	w.Header().Set("Content-Type", "application/json")
	if action == "register" {
		w.WriteHeader(http.StatusCreated)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeRegistrationError keeps the ledger sentinels distinguishable so the
// UI never has to show a generic failure for "already registered" vs "full".
func writeRegistrationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserIDRequired):
		writeError(w, http.StatusBadRequest, codeUserIDRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrEventNotFound):
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, codeAlreadyRegistered, err.Error())
	case errors.Is(err, domain.ErrEventFull):
		writeError(w, http.StatusConflict, codeEventFull, err.Error())
	case errors.Is(err, domain.ErrNotRegistered):
		writeError(w, http.StatusConflict, codeNotRegistered, err.Error())
	case errors.Is(err, domain.ErrOutcomeUnknown):
		// The caller must re-query actual state rather than trust either outcome.
		writeError(w, http.StatusBadGateway, codeOutcomeUnknown, domain.ErrOutcomeUnknown.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type registrationRequest struct {
	UserID string `json:"user_id"`
}

type registrationResponse struct {
	EventID         string `json:"event_id"`
	UserID          string `json:"user_id"`
	RegisteredCount int    `json:"registered_count"`
	AvailableSlots  int    `json:"available_slots"`
}

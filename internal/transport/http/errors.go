package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidID            = "invalid_id"
	codeTitleRequired        = "title_required"
	codeInvalidCapacity      = "invalid_capacity"
	codeInvalidTimeRange     = "invalid_time_range"
	codeUserIDRequired       = "user_id_required"
	codeEventNotFound        = "event_not_found"
	codeAlreadyRegistered    = "already_registered"
	codeEventFull            = "event_full"
	codeNotRegistered        = "not_registered"
	codeNotificationNotFound = "notification_not_found"
	codeOutcomeUnknown       = "outcome_unknown"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

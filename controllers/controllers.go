package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"meetspot_server/models"
)

// HealthCheckHandler reports liveness
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// WelcomeHandler greets API explorers
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to MeetSpot"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// respondError maps domain error kinds to HTTP status codes and writes a
// JSON error envelope
func respondError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ Internal error: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrTimeNotProposed),
		errors.Is(err, models.ErrVenueNotSuggested):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrMatchNotFound),
		errors.Is(err, models.ErrProfileNotFound),
		errors.Is(err, models.ErrRequestNotFound),
		errors.Is(err, models.ErrMeetupNotFound),
		errors.Is(err, models.ErrSuggestionNotFound),
		errors.Is(err, models.ErrFeedbackNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateRequest),
		errors.Is(err, models.ErrDuplicateFeedback),
		errors.Is(err, models.ErrInvalidStateTransition),
		errors.Is(err, models.ErrStateConflict),
		errors.Is(err, models.ErrMatchInactive),
		errors.Is(err, models.ErrMeetupNotEligibleForFeedback):
		return http.StatusConflict
	case errors.Is(err, models.ErrVenueSearchUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

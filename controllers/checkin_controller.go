package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"meetspot_server/models"
	"meetspot_server/services"

	"github.com/gorilla/mux"
)

// CheckinController handles HTTP requests for confirmed meetups: check-ins,
// completion, cancellation, no-shows and per-user listings
type CheckinController struct {
	Checkins *services.CheckinService
}

// NewCheckinController creates a new CheckinController instance
func NewCheckinController(checkinService *services.CheckinService) *CheckinController {
	return &CheckinController{Checkins: checkinService}
}

// GetMeetup handles GET /api/meetups/{id}
func (cc *CheckinController) GetMeetup(w http.ResponseWriter, r *http.Request) {
	meetupID := mux.Vars(r)["id"]

	meetup, err := cc.Checkins.GetMeetup(r.Context(), meetupID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"meetup": meetup})
}

// Checkin handles POST /api/meetups/{id}/checkin
func (cc *CheckinController) Checkin(w http.ResponseWriter, r *http.Request) {
	meetupID := mux.Vars(r)["id"]

	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		respondError(w, fmt.Errorf("%w: userId is required", models.ErrValidation))
		return
	}

	meetup, err := cc.Checkins.Checkin(r.Context(), meetupID, body.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"meetup": meetup})
}

// Cancel handles POST /api/meetups/{id}/cancel
func (cc *CheckinController) Cancel(w http.ResponseWriter, r *http.Request) {
	meetupID := mux.Vars(r)["id"]

	meetup, err := cc.Checkins.Cancel(r.Context(), meetupID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"meetup": meetup})
}

// Complete handles POST /api/meetups/{id}/complete
func (cc *CheckinController) Complete(w http.ResponseWriter, r *http.Request) {
	meetupID := mux.Vars(r)["id"]

	meetup, err := cc.Checkins.MarkCompleted(r.Context(), meetupID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"meetup": meetup})
}

// NoShow handles POST /api/meetups/{id}/noshow, invoked by the scheduler
// once the grace period after the scheduled time has elapsed
func (cc *CheckinController) NoShow(w http.ResponseWriter, r *http.Request) {
	meetupID := mux.Vars(r)["id"]

	meetup, err := cc.Checkins.MarkNoShow(r.Context(), meetupID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"meetup": meetup})
}

// Upcoming handles GET /api/meetups/user/upcoming?userId=
func (cc *CheckinController) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, fmt.Errorf("%w: userId is required", models.ErrValidation))
		return
	}

	meetups, err := cc.Checkins.UpcomingForUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"meetups": meetups})
}

// History handles GET /api/meetups/user/history?userId=
func (cc *CheckinController) History(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, fmt.Errorf("%w: userId is required", models.ErrValidation))
		return
	}

	meetups, err := cc.Checkins.HistoryForUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"meetups": meetups})
}

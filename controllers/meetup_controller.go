package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"meetspot_server/models"
	"meetspot_server/services"

	"github.com/gorilla/mux"
)

// MeetupController handles HTTP requests for the meetup request lifecycle
type MeetupController struct {
	Meetups *services.MeetupService
}

// NewMeetupController creates a new MeetupController instance
func NewMeetupController(meetupService *services.MeetupService) *MeetupController {
	return &MeetupController{Meetups: meetupService}
}

// CreateRequest handles POST /api/meetups/request
func (mc *MeetupController) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MatchID             string              `json:"matchId"`
		RequestedBy         string              `json:"requestedBy"`
		ProposedTimeWindows []models.TimeWindow `json:"proposedTimeWindows"`
		VenueType           string              `json:"venueType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", models.ErrValidation))
		return
	}

	req, err := mc.Meetups.CreateMeetupRequest(r.Context(), body.MatchID, body.RequestedBy, body.ProposedTimeWindows, body.VenueType)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"request": req})
}

// GetRequestByMatch handles GET /api/meetups/requests/{matchId}
func (mc *MeetupController) GetRequestByMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	req, err := mc.Meetups.GetActiveRequestByMatch(r.Context(), matchID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"request": req})
}

// AcceptRequest handles PUT /api/meetups/requests/{id}/accept
func (mc *MeetupController) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]

	suggestion, err := mc.Meetups.AcceptMeetupRequest(r.Context(), requestID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestion": suggestion})
}

// DeclineRequest handles PUT /api/meetups/requests/{id}/decline
func (mc *MeetupController) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]

	req, err := mc.Meetups.DeclineMeetupRequest(r.Context(), requestID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"request": req})
}

// CancelRequest handles POST /api/meetups/requests/{id}/cancel
func (mc *MeetupController) CancelRequest(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]

	req, err := mc.Meetups.CancelRequest(r.Context(), requestID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"request": req})
}

// GetSuggestion handles GET /api/meetups/suggestions/{requestId}
func (mc *MeetupController) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]

	suggestion, err := mc.Meetups.GetSuggestion(r.Context(), requestID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestion": suggestion})
}

// RefreshSuggestions handles POST /api/meetups/requests/{id}/suggestions/refresh
func (mc *MeetupController) RefreshSuggestions(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]

	suggestion, err := mc.Meetups.RegenerateSuggestions(r.Context(), requestID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestion": suggestion})
}

// ConfirmMeetup handles POST /api/meetups/confirm
func (mc *MeetupController) ConfirmMeetup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RequestID     string    `json:"requestId"`
		VenueID       string    `json:"venueId"`
		ScheduledTime time.Time `json:"scheduledTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", models.ErrValidation))
		return
	}
	if body.RequestID == "" || body.VenueID == "" || body.ScheduledTime.IsZero() {
		respondError(w, fmt.Errorf("%w: requestId, venueId and scheduledTime are required", models.ErrValidation))
		return
	}

	meetup, err := mc.Meetups.ConfirmMeetup(r.Context(), body.RequestID, body.VenueID, body.ScheduledTime)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"meetup": meetup})
}

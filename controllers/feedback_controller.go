package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"meetspot_server/models"
	"meetspot_server/services"

	"github.com/gorilla/mux"
)

// FeedbackController handles HTTP requests for post-meetup feedback
type FeedbackController struct {
	Feedback *services.FeedbackService
}

// NewFeedbackController creates a new FeedbackController instance
func NewFeedbackController(feedbackService *services.FeedbackService) *FeedbackController {
	return &FeedbackController{Feedback: feedbackService}
}

type feedbackBody struct {
	UserID string `json:"userId"`
	services.FeedbackInput
}

// Submit handles POST /api/meetups/{id}/feedback
func (fc *FeedbackController) Submit(w http.ResponseWriter, r *http.Request) {
	meetupID := mux.Vars(r)["id"]

	var body feedbackBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		respondError(w, fmt.Errorf("%w: userId is required", models.ErrValidation))
		return
	}

	feedback, err := fc.Feedback.SubmitFeedback(r.Context(), meetupID, body.UserID, body.FeedbackInput)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"feedback": feedback})
}

// Update handles PUT /api/meetups/{id}/feedback
func (fc *FeedbackController) Update(w http.ResponseWriter, r *http.Request) {
	meetupID := mux.Vars(r)["id"]

	var body feedbackBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		respondError(w, fmt.Errorf("%w: userId is required", models.ErrValidation))
		return
	}

	feedback, err := fc.Feedback.UpdateFeedback(r.Context(), meetupID, body.UserID, body.FeedbackInput)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"feedback": feedback})
}

// List handles GET /api/meetups/{id}/feedback
func (fc *FeedbackController) List(w http.ResponseWriter, r *http.Request) {
	meetupID := mux.Vars(r)["id"]

	feedback, err := fc.Feedback.ListForMeetup(r.Context(), meetupID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"feedback": feedback})
}

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"meetspot_server/models"
	"meetspot_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles HTTP requests for the profile fields the
// meetup engine reads (identity and coordinates)
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// UpsertProfile handles POST /api/profile
func (upc *UserProfileController) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", models.ErrValidation))
		return
	}

	if err := upc.UserProfileService.UpsertProfile(r.Context(), profile); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

// GetProfile handles GET /api/profile/{userId}
func (upc *UserProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := upc.UserProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

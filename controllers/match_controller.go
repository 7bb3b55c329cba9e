package controllers

import (
	"fmt"
	"net/http"

	"meetspot_server/models"
	"meetspot_server/services"
)

// MatchController handles HTTP requests for match lookups
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// GetMatchesByUser handles GET /api/match?userId=
func (mc *MatchController) GetMatchesByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, fmt.Errorf("%w: userId is required", models.ErrValidation))
		return
	}

	matches, err := mc.MatchService.GetMatchesByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

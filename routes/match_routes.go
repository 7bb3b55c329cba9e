package routes

import (
	"meetspot_server/controllers"
	"meetspot_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match lookups under /api/match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.HandleFunc("", controller.GetMatchesByUser).Methods("GET")
}

package routes

import (
	"meetspot_server/controllers"
	"meetspot_server/services"

	"github.com/gorilla/mux"
)

// RegisterMeetupRoutes sets up routes for the meetup engine under /api/meetups
func RegisterMeetupRoutes(r *mux.Router, meetupService *services.MeetupService, checkinService *services.CheckinService, feedbackService *services.FeedbackService) {
	meetupController := controllers.NewMeetupController(meetupService)
	checkinController := controllers.NewCheckinController(checkinService)
	feedbackController := controllers.NewFeedbackController(feedbackService)

	meetupRouter := r.PathPrefix("/api/meetups").Subrouter()

	// Request lifecycle
	meetupRouter.HandleFunc("/request", meetupController.CreateRequest).Methods("POST")
	meetupRouter.HandleFunc("/requests/{matchId}", meetupController.GetRequestByMatch).Methods("GET")
	meetupRouter.HandleFunc("/requests/{id}/accept", meetupController.AcceptRequest).Methods("PUT")
	meetupRouter.HandleFunc("/requests/{id}/decline", meetupController.DeclineRequest).Methods("PUT")
	meetupRouter.HandleFunc("/requests/{id}/cancel", meetupController.CancelRequest).Methods("POST")
	meetupRouter.HandleFunc("/requests/{id}/suggestions/refresh", meetupController.RefreshSuggestions).Methods("POST")
	meetupRouter.HandleFunc("/suggestions/{requestId}", meetupController.GetSuggestion).Methods("GET")
	meetupRouter.HandleFunc("/confirm", meetupController.ConfirmMeetup).Methods("POST")

	// Per-user listings come before the {id} routes so "user" is not
	// captured as a meetup id
	meetupRouter.HandleFunc("/user/upcoming", checkinController.Upcoming).Methods("GET")
	meetupRouter.HandleFunc("/user/history", checkinController.History).Methods("GET")

	// Confirmed meetups
	meetupRouter.HandleFunc("/{id}", checkinController.GetMeetup).Methods("GET")
	meetupRouter.HandleFunc("/{id}/checkin", checkinController.Checkin).Methods("POST")
	meetupRouter.HandleFunc("/{id}/cancel", checkinController.Cancel).Methods("POST")
	meetupRouter.HandleFunc("/{id}/complete", checkinController.Complete).Methods("POST")
	meetupRouter.HandleFunc("/{id}/noshow", checkinController.NoShow).Methods("POST")

	// Feedback
	meetupRouter.HandleFunc("/{id}/feedback", feedbackController.Submit).Methods("POST")
	meetupRouter.HandleFunc("/{id}/feedback", feedbackController.Update).Methods("PUT")
	meetupRouter.HandleFunc("/{id}/feedback", feedbackController.List).Methods("GET")
}

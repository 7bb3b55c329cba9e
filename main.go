package main

import (
	"log"
	"net/http"
	"os"

	"meetspot_server/routes"
	"meetspot_server/services"
	"meetspot_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env if present; real deployments set env vars directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Socket.IO server: clients join their match room and receive meetup
	// events in realtime
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("❌ Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	eventEmitter := &services.SocketEventEmitter{Server: socketServer}
	venueDirectory := services.NewPlacesVenueDirectoryFromEnv()

	var (
		meetupService   *services.MeetupService
		checkinService  *services.CheckinService
		feedbackService *services.FeedbackService
		matchService    *services.MatchService
		profileService  *services.UserProfileService
	)

	if os.Getenv("MEETUP_STORE") == "memory" {
		// In-memory mode for local development: no AWS required, but no
		// match/profile surface either
		log.Println("Using in-memory stores")
		meetupStore := services.NewMemoryConfirmedMeetupStore()
		requestStore := services.NewMemoryMeetupRequestStore(meetupStore)
		suggestionStore := services.NewMemorySuggestionStore()
		feedbackStore := services.NewMemoryFeedbackStore()
		matches := services.NewMemoryMatches()

		meetupService = services.NewMeetupService(requestStore, suggestionStore, matches, venueDirectory, eventEmitter)
		checkinService = services.NewCheckinService(meetupStore, requestStore, eventEmitter)
		feedbackService = services.NewFeedbackService(meetupStore, feedbackStore)
	} else {
		log.Println("Initializing DynamoDB client...")
		dynamoClient := services.InitializeDynamoDBClient()
		dynamoService := &services.DynamoService{Client: dynamoClient}
		log.Println("DynamoDB client initialized.")

		matchService = &services.MatchService{Dynamo: dynamoService}
		profileService = &services.UserProfileService{Dynamo: dynamoService}

		requestStore := &services.DynamoMeetupRequestStore{Dynamo: dynamoService}
		suggestionStore := &services.DynamoSuggestionStore{Dynamo: dynamoService}
		meetupStore := &services.DynamoConfirmedMeetupStore{Dynamo: dynamoService}
		feedbackStore := &services.DynamoFeedbackStore{Dynamo: dynamoService}

		meetupService = services.NewMeetupService(requestStore, suggestionStore, matchService, venueDirectory, eventEmitter)
		checkinService = services.NewCheckinService(meetupStore, requestStore, eventEmitter)
		feedbackService = services.NewFeedbackService(meetupStore, feedbackStore)
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()
	r.Handle("/socket.io/", socketServer)

	// Register routes
	routes.RegisterRoutes(r)
	routes.RegisterMeetupRoutes(r, meetupService, checkinService, feedbackService)
	if matchService != nil {
		routes.RegisterMatchRoutes(r, matchService)
	}
	if profileService != nil {
		routes.RegisterUserProfileRoutes(r, profileService)
	}

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

package services

import (
	"log"

	"meetspot_server/models"

	socketio "github.com/googollee/go-socket.io"
)

// EventEmitter publishes domain events. Publication is fire-and-forget:
// implementations log their own failures and must never block or fail the
// triggering operation, so Publish returns nothing.
type EventEmitter interface {
	Publish(event models.MeetupEvent)
}

// SocketEventEmitter broadcasts meetup events to the match's socket room,
// giving both participants a realtime notification channel
type SocketEventEmitter struct {
	Server *socketio.Server
}

// Publish broadcasts the event to the room named after its match id
func (e *SocketEventEmitter) Publish(event models.MeetupEvent) {
	if e.Server == nil || event.MatchID == "" {
		log.Printf("⚠️ Dropping event %s (%s): no socket room", event.EventType, event.EventID)
		return
	}
	e.Server.BroadcastToRoom("/", event.MatchID, "meetupEvent", event)
	log.Printf("📣 Published %s for match %s (event %s)", event.EventType, event.MatchID, event.EventID)
}

// LogEventEmitter only logs events; used when no realtime channel is mounted
type LogEventEmitter struct{}

// Publish logs the event
func (LogEventEmitter) Publish(event models.MeetupEvent) {
	log.Printf("📣 Event %s for match %s (event %s)", event.EventType, event.MatchID, event.EventID)
}

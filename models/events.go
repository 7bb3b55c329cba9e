package models

import (
	"time"

	"github.com/google/uuid"
)

// Meetup lifecycle event types published to the event emitter
const (
	EventMeetupRequested = "meetup.requested"
	EventMeetupAccepted  = "meetup.accepted"
	EventMeetupDeclined  = "meetup.declined"
	EventMeetupConfirmed = "meetup.confirmed"
	EventMeetupCompleted = "meetup.completed"
)

// MeetupEvent is a domain event. EventID is unique per publication so
// consumers can deduplicate at-least-once delivery.
type MeetupEvent struct {
	EventID       string     `json:"eventId"`
	EventType     string     `json:"eventType"`
	OccurredAt    time.Time  `json:"occurredAt"`
	MatchID       string     `json:"matchId"`
	RequestID     string     `json:"requestId,omitempty"`
	MeetupID      string     `json:"meetupId,omitempty"`
	UserID        string     `json:"userId,omitempty"`
	VenueID       string     `json:"venueId,omitempty"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
}

func newMeetupEvent(eventType string) MeetupEvent {
	return MeetupEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
	}
}

// NewMeetupRequestedEvent builds the event emitted when a request is created
func NewMeetupRequestedEvent(req MeetupRequest) MeetupEvent {
	e := newMeetupEvent(EventMeetupRequested)
	e.MatchID = req.MatchID
	e.RequestID = req.RequestID
	e.UserID = req.RequestedBy
	return e
}

// NewMeetupAcceptedEvent builds the event emitted when a request is accepted
func NewMeetupAcceptedEvent(req MeetupRequest) MeetupEvent {
	e := newMeetupEvent(EventMeetupAccepted)
	e.MatchID = req.MatchID
	e.RequestID = req.RequestID
	return e
}

// NewMeetupDeclinedEvent builds the event emitted when a request is declined
func NewMeetupDeclinedEvent(req MeetupRequest) MeetupEvent {
	e := newMeetupEvent(EventMeetupDeclined)
	e.MatchID = req.MatchID
	e.RequestID = req.RequestID
	return e
}

// NewMeetupConfirmedEvent builds the event emitted when a meetup is confirmed
func NewMeetupConfirmedEvent(meetup ConfirmedMeetup) MeetupEvent {
	e := newMeetupEvent(EventMeetupConfirmed)
	e.MatchID = meetup.MatchID
	e.RequestID = meetup.RequestID
	e.MeetupID = meetup.MeetupID
	e.VenueID = meetup.Venue.VenueID
	scheduled := meetup.ScheduledTime
	e.ScheduledTime = &scheduled
	return e
}

// NewMeetupCompletedEvent builds the event emitted when a meetup completes
func NewMeetupCompletedEvent(meetup ConfirmedMeetup) MeetupEvent {
	e := newMeetupEvent(EventMeetupCompleted)
	e.MatchID = meetup.MatchID
	e.RequestID = meetup.RequestID
	e.MeetupID = meetup.MeetupID
	return e
}

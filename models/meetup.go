package models

import "time"

// ConfirmedMeetup statuses. Completed, cancelled and no_show are terminal.
const (
	MeetupStatusScheduled    = "scheduled"
	MeetupStatusUser1Arrived = "user1_arrived"
	MeetupStatusUser2Arrived = "user2_arrived"
	MeetupStatusBothArrived  = "both_arrived"
	MeetupStatusCompleted    = "completed"
	MeetupStatusCancelled    = "cancelled"
	MeetupStatusNoShow       = "no_show"
)

// Check-in attribute names, used for targeted update expressions
const (
	CheckinFieldUser1 = "user1CheckedIn"
	CheckinFieldUser2 = "user2CheckedIn"
)

// ConfirmedMeetup is a scheduled meetup created once a request is confirmed
// with a venue and time. Exactly one exists per request. Participants are
// denormalized from the match so check-ins and history queries do not need
// the match service.
type ConfirmedMeetup struct {
	MeetupID       string     `dynamodbav:"meetupId" json:"meetupId"`
	MatchID        string     `dynamodbav:"matchId" json:"matchId"`
	RequestID      string     `dynamodbav:"requestId" json:"requestId"`
	User1ID        string     `dynamodbav:"user1Id" json:"user1Id"`
	User2ID        string     `dynamodbav:"user2Id" json:"user2Id"`
	Venue          Venue      `dynamodbav:"venue" json:"venue"`
	ScheduledTime  time.Time  `dynamodbav:"scheduledTime" json:"scheduledTime"`
	Status         string     `dynamodbav:"status" json:"status"`
	User1CheckedIn *time.Time `dynamodbav:"user1CheckedIn,omitempty" json:"user1CheckedIn,omitempty"`
	User2CheckedIn *time.Time `dynamodbav:"user2CheckedIn,omitempty" json:"user2CheckedIn,omitempty"`
	CreatedAt      time.Time  `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `dynamodbav:"updatedAt" json:"updatedAt"`
}

// IsTerminalMeetupStatus reports whether a meetup status permits no further transitions
func IsTerminalMeetupStatus(status string) bool {
	switch status {
	case MeetupStatusCompleted, MeetupStatusCancelled, MeetupStatusNoShow:
		return true
	}
	return false
}

// IsParticipant reports whether userID is one of the meetup's two participants
func (m ConfirmedMeetup) IsParticipant(userID string) bool {
	return userID == m.User1ID || userID == m.User2ID
}

// ConfirmedMeetupsTable is the DynamoDB table name for confirmed meetups
const ConfirmedMeetupsTable = "ConfirmedMeetups"

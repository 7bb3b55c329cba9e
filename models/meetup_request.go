package models

import (
	"fmt"
	"time"
)

// MeetupRequest statuses. Declined, cancelled and completed are terminal.
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusConfirmed = "confirmed"
	RequestStatusCompleted = "completed"
	RequestStatusDeclined  = "declined"
	RequestStatusCancelled = "cancelled"
)

// TimeWindow is a proposed interval for the meetup
type TimeWindow struct {
	StartTime time.Time `dynamodbav:"startTime" json:"startTime"`
	EndTime   time.Time `dynamodbav:"endTime" json:"endTime"`
}

// Validate checks that the window is well-formed (start strictly before end)
func (w TimeWindow) Validate() error {
	if !w.StartTime.Before(w.EndTime) {
		return fmt.Errorf("%w: time window start %s is not before end %s",
			ErrValidation, w.StartTime.Format(time.RFC3339), w.EndTime.Format(time.RFC3339))
	}
	return nil
}

// Contains reports whether t falls inside the window (inclusive bounds)
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.StartTime) && !t.After(w.EndTime)
}

// MeetupRequest is one user's proposal to meet the other participant of a match.
// At most one non-terminal request exists per match at a time.
type MeetupRequest struct {
	RequestID           string       `dynamodbav:"requestId" json:"requestId"`
	MatchID             string       `dynamodbav:"matchId" json:"matchId"`
	RequestedBy         string       `dynamodbav:"requestedBy" json:"requestedBy"`
	Status              string       `dynamodbav:"status" json:"status"`
	ProposedTimeWindows []TimeWindow `dynamodbav:"proposedTimeWindows" json:"proposedTimeWindows"`
	VenueType           string       `dynamodbav:"venueType" json:"venueType"`
	CreatedAt           time.Time    `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time    `dynamodbav:"updatedAt" json:"updatedAt"`
}

// IsTerminalRequestStatus reports whether a request status permits no further transitions
func IsTerminalRequestStatus(status string) bool {
	switch status {
	case RequestStatusDeclined, RequestStatusCancelled, RequestStatusCompleted:
		return true
	}
	return false
}

// MeetupRequestsTable is the DynamoDB table name for meetup requests
const MeetupRequestsTable = "MeetupRequests"

package models

import "time"

// MeetupFeedback is one participant's post-meetup report. At most one record
// exists per (meetup, user); edits go through an explicit update, never a
// silent overwrite.
type MeetupFeedback struct {
	FeedbackID     string    `dynamodbav:"feedbackId" json:"feedbackId"`
	MeetupID       string    `dynamodbav:"meetupId" json:"meetupId"`
	UserID         string    `dynamodbav:"userId" json:"userId"`
	Rating         *int      `dynamodbav:"rating,omitempty" json:"rating,omitempty"` // 1-5
	ShowedUp       bool      `dynamodbav:"showedUp" json:"showedUp"`
	WouldMeetAgain bool      `dynamodbav:"wouldMeetAgain" json:"wouldMeetAgain"`
	Comments       string    `dynamodbav:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt      time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}

// MeetupFeedbackTable is the DynamoDB table name for meetup feedback,
// keyed by meetupId (hash) and userId (range)
const MeetupFeedbackTable = "MeetupFeedback"

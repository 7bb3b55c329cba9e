package models

// Match statuses
const (
	MatchStatusActive          = "active"
	MatchStatusExpired         = "expired"
	MatchStatusUnmatched       = "unmatched"
	MatchStatusMeetupScheduled = "meetup_scheduled"
)

// Match represents an established mutual-interest pairing between two users
type Match struct {
	MatchID   string `dynamodbav:"matchId" json:"matchId"`
	User1ID   string `dynamodbav:"user1Id" json:"user1Id"`
	User2ID   string `dynamodbav:"user2Id" json:"user2Id"`
	Status    string `dynamodbav:"status" json:"status"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// UserProfile holds the subset of profile data the meetup engine reads:
// identity and last known coordinates
type UserProfile struct {
	UserID    string  `dynamodbav:"userId" json:"userId"`
	FullName  string  `dynamodbav:"fullName,omitempty" json:"fullName,omitempty"`
	Latitude  float64 `dynamodbav:"latitude" json:"latitude"`
	Longitude float64 `dynamodbav:"longitude" json:"longitude"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

package models

import "time"

// Venue categories accepted for a meetup request
const (
	VenueTypeCoffeeShop = "coffee_shop"
	VenueTypeCafe       = "cafe"
	VenueTypeBar        = "bar"
	VenueTypeRestaurant = "restaurant"
	VenueTypePark       = "park"
	VenueTypeOther      = "other"
)

// IsValidVenueType reports whether t is a known venue category
func IsValidVenueType(t string) bool {
	switch t {
	case VenueTypeCoffeeShop, VenueTypeCafe, VenueTypeBar, VenueTypeRestaurant, VenueTypePark, VenueTypeOther:
		return true
	}
	return false
}

// OpeningHours is the open-hours summary supplied by the venue directory
type OpeningHours struct {
	OpenNow     bool     `dynamodbav:"openNow" json:"openNow"`
	WeekdayText []string `dynamodbav:"weekdayText,omitempty" json:"weekdayText,omitempty"`
}

// Venue is read-only reference data owned by the external venue directory
type Venue struct {
	VenueID      string        `dynamodbav:"venueId" json:"venueId"`
	Name         string        `dynamodbav:"name" json:"name"`
	Type         string        `dynamodbav:"type" json:"type"`
	Location     Coordinates   `dynamodbav:"location" json:"location"`
	Address      string        `dynamodbav:"address" json:"address"`
	Rating       *float64      `dynamodbav:"rating,omitempty" json:"rating,omitempty"`
	PriceLevel   *int          `dynamodbav:"priceLevel,omitempty" json:"priceLevel,omitempty"`
	OpeningHours *OpeningHours `dynamodbav:"openingHours,omitempty" json:"openingHours,omitempty"`
}

// VenueWithDistance pairs a venue with each participant's travel burden
type VenueWithDistance struct {
	Venue             Venue   `dynamodbav:"venue" json:"venue"`
	DistanceFromUser1 float64 `dynamodbav:"distanceFromUser1" json:"distanceFromUser1"` // kilometers
	DistanceFromUser2 float64 `dynamodbav:"distanceFromUser2" json:"distanceFromUser2"` // kilometers
	TravelTimeUser1   int     `dynamodbav:"travelTimeUser1" json:"travelTimeUser1"`     // minutes
	TravelTimeUser2   int     `dynamodbav:"travelTimeUser2" json:"travelTimeUser2"`     // minutes
}

// MeetupSuggestion is the ranked venue set generated when a request is
// accepted. It is a derived artifact: regenerating replaces the previous one.
type MeetupSuggestion struct {
	RequestID   string              `dynamodbav:"requestId" json:"requestId"`
	Midpoint    Coordinates         `dynamodbav:"midpoint" json:"midpoint"`
	Venues      []VenueWithDistance `dynamodbav:"venues" json:"venues"` // most fair first
	GeneratedAt time.Time           `dynamodbav:"generatedAt" json:"generatedAt"`
}

// MeetupSuggestionsTable is the DynamoDB table name for the latest suggestion per request
const MeetupSuggestionsTable = "MeetupSuggestions"

package models

import "errors"

// Sentinel errors for every failure kind the meetup engine reports.
// Services wrap these with fmt.Errorf("...: %w", ...) for context; controllers
// translate them to HTTP status codes with errors.Is.
var (
	ErrValidation                   = errors.New("validation failed")
	ErrMatchNotFound                = errors.New("match not found")
	ErrMatchInactive                = errors.New("match is not active")
	ErrProfileNotFound              = errors.New("user profile not found")
	ErrRequestNotFound              = errors.New("meetup request not found")
	ErrMeetupNotFound               = errors.New("meetup not found")
	ErrSuggestionNotFound           = errors.New("no suggestion generated for request")
	ErrDuplicateRequest             = errors.New("an active meetup request already exists for this match")
	ErrDuplicateFeedback            = errors.New("feedback already submitted for this meetup")
	ErrFeedbackNotFound             = errors.New("feedback not found")
	ErrInvalidStateTransition       = errors.New("invalid state transition")
	ErrStateConflict                = errors.New("state changed concurrently")
	ErrVenueNotSuggested            = errors.New("venue is not part of the generated suggestion")
	ErrTimeNotProposed              = errors.New("scheduled time is outside the proposed time windows")
	ErrVenueSearchUnavailable       = errors.New("venue search unavailable")
	ErrMeetupNotEligibleForFeedback = errors.New("meetup is not eligible for feedback")
)

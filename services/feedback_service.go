package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"meetspot_server/models"

	"github.com/google/uuid"
)

// FeedbackService records post-meetup feedback. Feedback is only accepted
// for settled outcomes (completed, no_show, cancelled) and once per
// participant; edits go through UpdateFeedback.
type FeedbackService struct {
	Meetups  ConfirmedMeetupStore
	Feedback FeedbackStore
}

// NewFeedbackService wires a collector with its stores
func NewFeedbackService(meetups ConfirmedMeetupStore, feedback FeedbackStore) *FeedbackService {
	return &FeedbackService{Meetups: meetups, Feedback: feedback}
}

// FeedbackInput carries one participant's report
type FeedbackInput struct {
	Rating         *int   `json:"rating,omitempty"`
	ShowedUp       bool   `json:"showedUp"`
	WouldMeetAgain bool   `json:"wouldMeetAgain"`
	Comments       string `json:"comments,omitempty"`
}

func (s *FeedbackService) eligibleMeetup(ctx context.Context, meetupID, userID string) (models.ConfirmedMeetup, error) {
	meetup, err := s.Meetups.Get(ctx, meetupID)
	if err != nil {
		return models.ConfirmedMeetup{}, err
	}
	if !meetup.IsParticipant(userID) {
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: user %s is not a participant of meetup %s",
			models.ErrValidation, userID, meetupID)
	}
	if !models.IsTerminalMeetupStatus(meetup.Status) {
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: meetup %s is still %s",
			models.ErrMeetupNotEligibleForFeedback, meetupID, meetup.Status)
	}
	return meetup, nil
}

func validateRating(rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return fmt.Errorf("%w: rating %d out of range [1, 5]", models.ErrValidation, *rating)
	}
	return nil
}

// SubmitFeedback records a participant's feedback for a settled meetup
func (s *FeedbackService) SubmitFeedback(ctx context.Context, meetupID, userID string, input FeedbackInput) (models.MeetupFeedback, error) {
	if err := validateRating(input.Rating); err != nil {
		return models.MeetupFeedback{}, err
	}
	if _, err := s.eligibleMeetup(ctx, meetupID, userID); err != nil {
		return models.MeetupFeedback{}, err
	}

	now := time.Now().UTC()
	feedback := models.MeetupFeedback{
		FeedbackID:     uuid.NewString(),
		MeetupID:       meetupID,
		UserID:         userID,
		Rating:         input.Rating,
		ShowedUp:       input.ShowedUp,
		WouldMeetAgain: input.WouldMeetAgain,
		Comments:       input.Comments,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Feedback.Create(ctx, feedback); err != nil {
		return models.MeetupFeedback{}, err
	}

	log.Printf("✅ Feedback recorded for meetup %s by %s", meetupID, userID)
	return feedback, nil
}

// UpdateFeedback is the explicit edit path for an existing feedback record
func (s *FeedbackService) UpdateFeedback(ctx context.Context, meetupID, userID string, input FeedbackInput) (models.MeetupFeedback, error) {
	if err := validateRating(input.Rating); err != nil {
		return models.MeetupFeedback{}, err
	}
	if _, err := s.eligibleMeetup(ctx, meetupID, userID); err != nil {
		return models.MeetupFeedback{}, err
	}

	return s.Feedback.Update(ctx, models.MeetupFeedback{
		MeetupID:       meetupID,
		UserID:         userID,
		Rating:         input.Rating,
		ShowedUp:       input.ShowedUp,
		WouldMeetAgain: input.WouldMeetAgain,
		Comments:       input.Comments,
		UpdatedAt:      time.Now().UTC(),
	})
}

// ListForMeetup returns all feedback submitted for a meetup
func (s *FeedbackService) ListForMeetup(ctx context.Context, meetupID string) ([]models.MeetupFeedback, error) {
	if _, err := s.Meetups.Get(ctx, meetupID); err != nil {
		return nil, err
	}
	return s.Feedback.ListByMeetup(ctx, meetupID)
}

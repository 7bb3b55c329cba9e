package services

import (
	"context"
	"errors"
	"testing"

	"meetspot_server/models"
)

func newFeedbackFixture(meetups ...models.ConfirmedMeetup) (*FeedbackService, *MemoryFeedbackStore) {
	store := NewMemoryConfirmedMeetupStore()
	for _, m := range meetups {
		store.Put(m)
	}
	feedback := NewMemoryFeedbackStore()
	return NewFeedbackService(store, feedback), feedback
}

func intPtr(v int) *int { return &v }

// TestSubmitFeedback covers the happy path for a completed meetup.
func TestSubmitFeedback(t *testing.T) {
	done := scheduledMeetup("m-1")
	done.Status = models.MeetupStatusCompleted
	service, _ := newFeedbackFixture(done)

	feedback, err := service.SubmitFeedback(context.Background(), "m-1", "alice", FeedbackInput{
		Rating:         intPtr(4),
		ShowedUp:       true,
		WouldMeetAgain: true,
		Comments:       "great spot",
	})
	if err != nil {
		t.Fatalf("SubmitFeedback returned error: %v", err)
	}
	if feedback.FeedbackID == "" {
		t.Fatal("expected a generated feedback id")
	}
	if feedback.Rating == nil || *feedback.Rating != 4 {
		t.Fatalf("unexpected rating: %v", feedback.Rating)
	}
	if !feedback.ShowedUp || !feedback.WouldMeetAgain {
		t.Fatalf("booleans not carried over: %+v", feedback)
	}
}

// TestSubmitFeedbackEligibility ensures only settled meetups accept feedback
// and only from participants.
func TestSubmitFeedbackEligibility(t *testing.T) {
	live := scheduledMeetup("m-live")
	noShow := scheduledMeetup("m-noshow")
	noShow.Status = models.MeetupStatusNoShow
	cancelled := scheduledMeetup("m-cancelled")
	cancelled.Status = models.MeetupStatusCancelled
	service, _ := newFeedbackFixture(live, noShow, cancelled)
	ctx := context.Background()
	input := FeedbackInput{ShowedUp: false, WouldMeetAgain: false}

	if _, err := service.SubmitFeedback(ctx, "m-live", "alice", input); !errors.Is(err, models.ErrMeetupNotEligibleForFeedback) {
		t.Fatalf("live meetup: expected ErrMeetupNotEligibleForFeedback, got %v", err)
	}
	if _, err := service.SubmitFeedback(ctx, "m-noshow", "alice", input); err != nil {
		t.Fatalf("no_show meetup should accept feedback: %v", err)
	}
	if _, err := service.SubmitFeedback(ctx, "m-cancelled", "bob", input); err != nil {
		t.Fatalf("cancelled meetup should accept feedback: %v", err)
	}
	if _, err := service.SubmitFeedback(ctx, "m-noshow", "mallory", input); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("non-participant: expected ErrValidation, got %v", err)
	}
	if _, err := service.SubmitFeedback(ctx, "m-missing", "alice", input); !errors.Is(err, models.ErrMeetupNotFound) {
		t.Fatalf("unknown meetup: expected ErrMeetupNotFound, got %v", err)
	}
}

// TestSubmitFeedbackRatingBounds checks the 1..5 rating range; omitting the
// rating entirely is allowed.
func TestSubmitFeedbackRatingBounds(t *testing.T) {
	done := scheduledMeetup("m-1")
	done.Status = models.MeetupStatusCompleted
	service, _ := newFeedbackFixture(done)
	ctx := context.Background()

	if _, err := service.SubmitFeedback(ctx, "m-1", "alice", FeedbackInput{Rating: intPtr(0)}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("rating 0: expected ErrValidation, got %v", err)
	}
	if _, err := service.SubmitFeedback(ctx, "m-1", "alice", FeedbackInput{Rating: intPtr(6)}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("rating 6: expected ErrValidation, got %v", err)
	}
	if _, err := service.SubmitFeedback(ctx, "m-1", "alice", FeedbackInput{ShowedUp: true}); err != nil {
		t.Fatalf("missing rating should be accepted: %v", err)
	}
}

// TestDuplicateFeedbackRejected ensures one submission per participant; the
// other participant is unaffected.
func TestDuplicateFeedbackRejected(t *testing.T) {
	done := scheduledMeetup("m-1")
	done.Status = models.MeetupStatusCompleted
	service, _ := newFeedbackFixture(done)
	ctx := context.Background()
	input := FeedbackInput{Rating: intPtr(5), ShowedUp: true}

	if _, err := service.SubmitFeedback(ctx, "m-1", "alice", input); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if _, err := service.SubmitFeedback(ctx, "m-1", "alice", input); !errors.Is(err, models.ErrDuplicateFeedback) {
		t.Fatalf("expected ErrDuplicateFeedback, got %v", err)
	}
	if _, err := service.SubmitFeedback(ctx, "m-1", "bob", input); err != nil {
		t.Fatalf("other participant's submission failed: %v", err)
	}

	all, err := service.ListForMeetup(ctx, "m-1")
	if err != nil {
		t.Fatalf("ListForMeetup returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 feedback records, got %d", len(all))
	}
}

// TestUpdateFeedback exercises the explicit edit path.
func TestUpdateFeedback(t *testing.T) {
	done := scheduledMeetup("m-1")
	done.Status = models.MeetupStatusCompleted
	service, _ := newFeedbackFixture(done)
	ctx := context.Background()

	if _, err := service.UpdateFeedback(ctx, "m-1", "alice", FeedbackInput{Rating: intPtr(3)}); !errors.Is(err, models.ErrFeedbackNotFound) {
		t.Fatalf("update before submit: expected ErrFeedbackNotFound, got %v", err)
	}

	original, err := service.SubmitFeedback(ctx, "m-1", "alice", FeedbackInput{
		Rating:   intPtr(2),
		ShowedUp: true,
		Comments: "meh",
	})
	if err != nil {
		t.Fatalf("SubmitFeedback returned error: %v", err)
	}

	updated, err := service.UpdateFeedback(ctx, "m-1", "alice", FeedbackInput{
		Rating:         intPtr(4),
		ShowedUp:       true,
		WouldMeetAgain: true,
		Comments:       "grew on me",
	})
	if err != nil {
		t.Fatalf("UpdateFeedback returned error: %v", err)
	}
	if updated.FeedbackID != original.FeedbackID {
		t.Fatalf("edit created a new record: %s vs %s", updated.FeedbackID, original.FeedbackID)
	}
	if updated.Rating == nil || *updated.Rating != 4 || updated.Comments != "grew on me" || !updated.WouldMeetAgain {
		t.Fatalf("edit not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("edit changed createdAt: %v vs %v", updated.CreatedAt, original.CreatedAt)
	}
}

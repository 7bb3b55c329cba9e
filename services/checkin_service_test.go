package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"meetspot_server/models"
)

func scheduledMeetup(id string) models.ConfirmedMeetup {
	now := time.Now().UTC().Truncate(time.Second)
	return models.ConfirmedMeetup{
		MeetupID:  id,
		MatchID:   "match-1",
		RequestID: "req-" + id,
		User1ID:   "alice",
		User2ID:   "bob",
		Venue: models.Venue{
			VenueID:  "v-balanced",
			Name:     "Halfway Cafe",
			Type:     models.VenueTypeCafe,
			Location: models.Coordinates{Latitude: 40.744, Longitude: -73.960},
		},
		ScheduledTime: now.Add(24 * time.Hour),
		Status:        models.MeetupStatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newCheckinFixture(meetups ...models.ConfirmedMeetup) (*CheckinService, *MemoryConfirmedMeetupStore, *CollectingEventEmitter) {
	store := NewMemoryConfirmedMeetupStore()
	for _, m := range meetups {
		store.Put(m)
	}
	emitter := &CollectingEventEmitter{}
	return NewCheckinService(store, NewMemoryMeetupRequestStore(store), emitter), store, emitter
}

// TestCheckinProgression walks scheduled → user1_arrived → both_arrived.
func TestCheckinProgression(t *testing.T) {
	service, _, _ := newCheckinFixture(scheduledMeetup("m-1"))
	ctx := context.Background()

	meetup, err := service.Checkin(ctx, "m-1", "alice")
	if err != nil {
		t.Fatalf("first checkin failed: %v", err)
	}
	if meetup.Status != models.MeetupStatusUser1Arrived {
		t.Fatalf("expected user1_arrived, got %s", meetup.Status)
	}
	if meetup.User1CheckedIn == nil || meetup.User2CheckedIn != nil {
		t.Fatalf("unexpected checkin timestamps: %+v", meetup)
	}

	meetup, err = service.Checkin(ctx, "m-1", "bob")
	if err != nil {
		t.Fatalf("second checkin failed: %v", err)
	}
	if meetup.Status != models.MeetupStatusBothArrived {
		t.Fatalf("expected both_arrived, got %s", meetup.Status)
	}
	if meetup.User2CheckedIn == nil {
		t.Fatal("expected user2 checkin timestamp to be set")
	}
}

// TestCheckinUser2First ensures the second participant checking in first
// lands in user2_arrived.
func TestCheckinUser2First(t *testing.T) {
	service, _, _ := newCheckinFixture(scheduledMeetup("m-1"))

	meetup, err := service.Checkin(context.Background(), "m-1", "bob")
	if err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if meetup.Status != models.MeetupStatusUser2Arrived {
		t.Fatalf("expected user2_arrived, got %s", meetup.Status)
	}
}

// TestCheckinIdempotent ensures repeating a checkin changes nothing.
func TestCheckinIdempotent(t *testing.T) {
	service, _, _ := newCheckinFixture(scheduledMeetup("m-1"))
	ctx := context.Background()

	first, err := service.Checkin(ctx, "m-1", "alice")
	if err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	again, err := service.Checkin(ctx, "m-1", "alice")
	if err != nil {
		t.Fatalf("repeat checkin failed: %v", err)
	}
	if again.Status != first.Status {
		t.Fatalf("repeat checkin changed status: %s vs %s", again.Status, first.Status)
	}
	if !again.User1CheckedIn.Equal(*first.User1CheckedIn) {
		t.Fatalf("repeat checkin changed timestamp: %v vs %v", again.User1CheckedIn, first.User1CheckedIn)
	}
}

// TestCheckinGuards covers non-participants, terminal states and unknown ids.
func TestCheckinGuards(t *testing.T) {
	cancelled := scheduledMeetup("m-cancelled")
	cancelled.Status = models.MeetupStatusCancelled
	service, _, _ := newCheckinFixture(scheduledMeetup("m-1"), cancelled)
	ctx := context.Background()

	if _, err := service.Checkin(ctx, "m-1", "mallory"); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("non-participant: expected ErrValidation, got %v", err)
	}
	if _, err := service.Checkin(ctx, "m-cancelled", "alice"); !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Fatalf("cancelled meetup: expected ErrInvalidStateTransition, got %v", err)
	}
	if _, err := service.Checkin(ctx, "m-missing", "alice"); !errors.Is(err, models.ErrMeetupNotFound) {
		t.Fatalf("unknown meetup: expected ErrMeetupNotFound, got %v", err)
	}
}

// TestConcurrentCheckins races both participants; both must succeed and the
// meetup must end up in both_arrived with both timestamps recorded.
func TestConcurrentCheckins(t *testing.T) {
	for i := 0; i < 20; i++ {
		service, store, _ := newCheckinFixture(scheduledMeetup("m-1"))
		ctx := context.Background()

		var wg sync.WaitGroup
		var aliceErr, bobErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, aliceErr = service.Checkin(ctx, "m-1", "alice")
		}()
		go func() {
			defer wg.Done()
			_, bobErr = service.Checkin(ctx, "m-1", "bob")
		}()
		wg.Wait()

		if aliceErr != nil || bobErr != nil {
			t.Fatalf("concurrent checkins failed: alice=%v bob=%v", aliceErr, bobErr)
		}
		meetup, err := store.Get(ctx, "m-1")
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if meetup.Status != models.MeetupStatusBothArrived {
			t.Fatalf("expected both_arrived, got %s", meetup.Status)
		}
		if meetup.User1CheckedIn == nil || meetup.User2CheckedIn == nil {
			t.Fatalf("missing checkin timestamps: %+v", meetup)
		}
	}
}

// TestMarkCompleted ensures completion requires both arrivals and emits the
// completed event.
func TestMarkCompleted(t *testing.T) {
	service, _, emitter := newCheckinFixture(scheduledMeetup("m-1"))
	ctx := context.Background()

	if _, err := service.MarkCompleted(ctx, "m-1"); !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Fatalf("complete from scheduled: expected ErrInvalidStateTransition, got %v", err)
	}

	if _, err := service.Checkin(ctx, "m-1", "alice"); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if _, err := service.Checkin(ctx, "m-1", "bob"); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	meetup, err := service.MarkCompleted(ctx, "m-1")
	if err != nil {
		t.Fatalf("MarkCompleted returned error: %v", err)
	}
	if meetup.Status != models.MeetupStatusCompleted {
		t.Fatalf("expected completed, got %s", meetup.Status)
	}

	events := emitter.Events()
	if len(events) != 1 || events[0].EventType != models.EventMeetupCompleted {
		t.Fatalf("expected one meetup.completed event, got %+v", events)
	}
	if events[0].MeetupID != "m-1" {
		t.Fatalf("event bound to wrong meetup: %+v", events[0])
	}
}

// TestSettlementFinalizesRequest ensures a settled meetup also settles its
// originating request so the match can host a new one.
func TestSettlementFinalizesRequest(t *testing.T) {
	store := NewMemoryConfirmedMeetupStore()
	requests := NewMemoryMeetupRequestStore(store)
	service := NewCheckinService(store, requests, &CollectingEventEmitter{})
	ctx := context.Background()

	meetup := scheduledMeetup("m-1")
	store.Put(meetup)
	if err := requests.Create(ctx, models.MeetupRequest{
		RequestID: meetup.RequestID,
		MatchID:   meetup.MatchID,
		Status:    models.RequestStatusConfirmed,
	}); err != nil {
		t.Fatalf("failed to seed request: %v", err)
	}

	if _, err := service.Checkin(ctx, "m-1", "alice"); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if _, err := service.Checkin(ctx, "m-1", "bob"); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if _, err := service.MarkCompleted(ctx, "m-1"); err != nil {
		t.Fatalf("MarkCompleted returned error: %v", err)
	}

	req, err := requests.Get(ctx, meetup.RequestID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if req.Status != models.RequestStatusCompleted {
		t.Fatalf("expected request completed, got %s", req.Status)
	}
	if active, _ := requests.ActiveByMatch(ctx, meetup.MatchID); active != nil {
		t.Fatalf("expected no active request for match, got %+v", active)
	}
}

// TestCancelAndNoShowWindows checks which states allow termination.
func TestCancelAndNoShowWindows(t *testing.T) {
	service, _, _ := newCheckinFixture(
		scheduledMeetup("m-cancel"),
		scheduledMeetup("m-noshow"),
		scheduledMeetup("m-late"),
	)
	ctx := context.Background()

	cancelled, err := service.Cancel(ctx, "m-cancel")
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if cancelled.Status != models.MeetupStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if _, err := service.Cancel(ctx, "m-cancel"); !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Fatalf("cancel twice: expected ErrInvalidStateTransition, got %v", err)
	}

	// No-show after a single arrival is allowed
	if _, err := service.Checkin(ctx, "m-noshow", "alice"); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	noShow, err := service.MarkNoShow(ctx, "m-noshow")
	if err != nil {
		t.Fatalf("MarkNoShow returned error: %v", err)
	}
	if noShow.Status != models.MeetupStatusNoShow {
		t.Fatalf("expected no_show, got %s", noShow.Status)
	}

	// Once both arrived, neither cancel nor no-show applies
	if _, err := service.Checkin(ctx, "m-late", "alice"); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if _, err := service.Checkin(ctx, "m-late", "bob"); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if _, err := service.Cancel(ctx, "m-late"); !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Fatalf("cancel after both arrived: expected ErrInvalidStateTransition, got %v", err)
	}
	if _, err := service.MarkNoShow(ctx, "m-late"); !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Fatalf("no-show after both arrived: expected ErrInvalidStateTransition, got %v", err)
	}
}

// TestUpcomingAndHistory checks the split between live and settled meetups
// and their orderings.
func TestUpcomingAndHistory(t *testing.T) {
	soon := scheduledMeetup("m-soon")
	later := scheduledMeetup("m-later")
	later.ScheduledTime = soon.ScheduledTime.Add(48 * time.Hour)
	done := scheduledMeetup("m-done")
	done.Status = models.MeetupStatusCompleted
	done.ScheduledTime = soon.ScheduledTime.Add(-72 * time.Hour)
	older := scheduledMeetup("m-older")
	older.Status = models.MeetupStatusNoShow
	older.ScheduledTime = soon.ScheduledTime.Add(-96 * time.Hour)
	other := scheduledMeetup("m-other")
	other.User1ID = "carol"
	other.User2ID = "dave"

	service, _, _ := newCheckinFixture(soon, later, done, older, other)
	ctx := context.Background()

	upcoming, err := service.UpcomingForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("UpcomingForUser returned error: %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].MeetupID != "m-soon" || upcoming[1].MeetupID != "m-later" {
		t.Fatalf("unexpected upcoming set: %+v", upcoming)
	}

	history, err := service.HistoryForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("HistoryForUser returned error: %v", err)
	}
	if len(history) != 2 || history[0].MeetupID != "m-done" || history[1].MeetupID != "m-older" {
		t.Fatalf("unexpected history set: %+v", history)
	}
}

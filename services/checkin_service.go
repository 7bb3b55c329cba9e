package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"meetspot_server/models"
)

// CheckinService owns a confirmed meetup once it exists: arrival check-ins,
// completion, cancellation and no-show handling. When a meetup settles it
// also settles the originating request, freeing the match for a new one.
type CheckinService struct {
	Meetups  ConfirmedMeetupStore
	Requests MeetupRequestStore
	Events   EventEmitter
}

// NewCheckinService wires a tracker with its stores and event emitter
func NewCheckinService(meetups ConfirmedMeetupStore, requests MeetupRequestStore, events EventEmitter) *CheckinService {
	return &CheckinService{Meetups: meetups, Requests: requests, Events: events}
}

// GetMeetup fetches a confirmed meetup by id
func (s *CheckinService) GetMeetup(ctx context.Context, meetupID string) (models.ConfirmedMeetup, error) {
	return s.Meetups.Get(ctx, meetupID)
}

// Checkin records a participant's arrival. Repeat check-ins by the same user
// are a no-op. When both users have checked in the meetup moves to
// both_arrived; otherwise to the caller's single-arrival state.
func (s *CheckinService) Checkin(ctx context.Context, meetupID, userID string) (models.ConfirmedMeetup, error) {
	meetup, err := s.Meetups.Get(ctx, meetupID)
	if err != nil {
		return models.ConfirmedMeetup{}, err
	}

	updated, retry, err := s.tryCheckin(ctx, meetup, userID)
	if retry {
		// Lost a race against the other participant's check-in; re-read
		// once and re-attempt from the new state.
		meetup, err = s.Meetups.Get(ctx, meetupID)
		if err != nil {
			return models.ConfirmedMeetup{}, err
		}
		updated, _, err = s.tryCheckin(ctx, meetup, userID)
	}
	if err != nil {
		return models.ConfirmedMeetup{}, err
	}
	return updated, nil
}

func (s *CheckinService) tryCheckin(ctx context.Context, meetup models.ConfirmedMeetup, userID string) (models.ConfirmedMeetup, bool, error) {
	if !meetup.IsParticipant(userID) {
		return models.ConfirmedMeetup{}, false, fmt.Errorf("%w: user %s is not a participant of meetup %s",
			models.ErrValidation, userID, meetup.MeetupID)
	}
	if models.IsTerminalMeetupStatus(meetup.Status) || meetup.Status == models.MeetupStatusBothArrived {
		return models.ConfirmedMeetup{}, false, fmt.Errorf("%w: cannot check in while meetup is %s",
			models.ErrInvalidStateTransition, meetup.Status)
	}

	var checkinField string
	var own, other *time.Time
	if userID == meetup.User1ID {
		checkinField = models.CheckinFieldUser1
		own, other = meetup.User1CheckedIn, meetup.User2CheckedIn
	} else {
		checkinField = models.CheckinFieldUser2
		own, other = meetup.User2CheckedIn, meetup.User1CheckedIn
	}

	// Idempotent: a repeat check-in leaves timestamp and status untouched
	if own != nil {
		return meetup, false, nil
	}

	nextStatus := models.MeetupStatusUser1Arrived
	if checkinField == models.CheckinFieldUser2 {
		nextStatus = models.MeetupStatusUser2Arrived
	}
	if other != nil {
		nextStatus = models.MeetupStatusBothArrived
	}

	updated, err := s.Meetups.RecordCheckin(ctx, meetup.MeetupID, checkinField, time.Now().UTC(), meetup.Status, nextStatus)
	if errors.Is(err, models.ErrStateConflict) {
		return models.ConfirmedMeetup{}, true, err
	}
	if err != nil {
		return models.ConfirmedMeetup{}, false, err
	}

	log.Printf("✅ User %s checked in to meetup %s (now %s)", userID, meetup.MeetupID, updated.Status)
	return updated, false, nil
}

// MarkCompleted transitions both_arrived → completed
func (s *CheckinService) MarkCompleted(ctx context.Context, meetupID string) (models.ConfirmedMeetup, error) {
	meetup, err := s.Meetups.Get(ctx, meetupID)
	if err != nil {
		return models.ConfirmedMeetup{}, err
	}
	if meetup.Status != models.MeetupStatusBothArrived {
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: meetup %s is %s, expected %s",
			models.ErrInvalidStateTransition, meetupID, meetup.Status, models.MeetupStatusBothArrived)
	}

	updated, err := s.Meetups.UpdateStatus(ctx, meetupID, models.MeetupStatusBothArrived, models.MeetupStatusCompleted, time.Now().UTC())
	if err != nil {
		return models.ConfirmedMeetup{}, err
	}

	s.finalizeRequest(ctx, updated, models.RequestStatusCompleted)
	s.Events.Publish(models.NewMeetupCompletedEvent(updated))
	return updated, nil
}

// Cancel cancels a meetup; allowed from scheduled or a single-arrival state,
// not once both users have arrived
func (s *CheckinService) Cancel(ctx context.Context, meetupID string) (models.ConfirmedMeetup, error) {
	return s.terminate(ctx, meetupID, models.MeetupStatusCancelled)
}

// MarkNoShow records that the scheduled time elapsed without both check-ins.
// Invoked by the external scheduler; accepted from scheduled or a
// single-arrival state only.
func (s *CheckinService) MarkNoShow(ctx context.Context, meetupID string) (models.ConfirmedMeetup, error) {
	return s.terminate(ctx, meetupID, models.MeetupStatusNoShow)
}

func (s *CheckinService) terminate(ctx context.Context, meetupID, terminalStatus string) (models.ConfirmedMeetup, error) {
	meetup, err := s.Meetups.Get(ctx, meetupID)
	if err != nil {
		return models.ConfirmedMeetup{}, err
	}

	switch meetup.Status {
	case models.MeetupStatusScheduled, models.MeetupStatusUser1Arrived, models.MeetupStatusUser2Arrived:
	default:
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: cannot mark meetup %s as %s from %s",
			models.ErrInvalidStateTransition, meetupID, terminalStatus, meetup.Status)
	}

	updated, err := s.Meetups.UpdateStatus(ctx, meetupID, meetup.Status, terminalStatus, time.Now().UTC())
	if err != nil {
		return models.ConfirmedMeetup{}, err
	}

	s.finalizeRequest(ctx, updated, models.RequestStatusCancelled)
	return updated, nil
}

// finalizeRequest settles the originating request once its meetup reached a
// terminal state. The meetup outcome is already committed, so a failure here
// is logged and not surfaced.
func (s *CheckinService) finalizeRequest(ctx context.Context, meetup models.ConfirmedMeetup, requestStatus string) {
	if s.Requests == nil || meetup.RequestID == "" {
		return
	}
	_, err := s.Requests.UpdateStatus(ctx, meetup.RequestID, models.RequestStatusConfirmed, requestStatus, time.Now().UTC())
	if err != nil {
		log.Printf("⚠️ Failed to settle request %s after meetup %s became %s: %v",
			meetup.RequestID, meetup.MeetupID, meetup.Status, err)
	}
}

// UpcomingForUser lists the user's non-terminal meetups, soonest first
func (s *CheckinService) UpcomingForUser(ctx context.Context, userID string) ([]models.ConfirmedMeetup, error) {
	meetups, err := s.Meetups.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var upcoming []models.ConfirmedMeetup
	for _, m := range meetups {
		if !models.IsTerminalMeetupStatus(m.Status) {
			upcoming = append(upcoming, m)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledTime.Before(upcoming[j].ScheduledTime)
	})
	return upcoming, nil
}

// HistoryForUser lists the user's terminal meetups, most recent first
func (s *CheckinService) HistoryForUser(ctx context.Context, userID string) ([]models.ConfirmedMeetup, error) {
	meetups, err := s.Meetups.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var history []models.ConfirmedMeetup
	for _, m := range meetups {
		if models.IsTerminalMeetupStatus(m.Status) {
			history = append(history, m)
		}
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].ScheduledTime.After(history[j].ScheduledTime)
	})
	return history, nil
}

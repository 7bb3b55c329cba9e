package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"meetspot_server/models"

	"github.com/google/uuid"
)

// Suggestion generation defaults
const (
	defaultSearchTimeout = 5 * time.Second
	defaultSearchRetries = 3
	defaultSearchBackoff = 200 * time.Millisecond
	maxSuggestedVenues   = 5
)

// MeetupService owns the meetup request lifecycle:
// pending → accepted → confirmed → completed, with declined and cancelled as
// terminal branches. Every transition is compare-and-set against the stored
// status, so two participants acting at once can never both win.
type MeetupService struct {
	Requests    MeetupRequestStore
	Suggestions SuggestionStore
	Matches     Matches
	Venues      VenueDirectory
	Events      EventEmitter

	SearchTimeout time.Duration
	SearchRetries int
	SearchBackoff time.Duration
}

// NewMeetupService wires a lifecycle manager with its collaborators and
// default search policy
func NewMeetupService(requests MeetupRequestStore, suggestions SuggestionStore, matches Matches, venues VenueDirectory, events EventEmitter) *MeetupService {
	return &MeetupService{
		Requests:      requests,
		Suggestions:   suggestions,
		Matches:       matches,
		Venues:        venues,
		Events:        events,
		SearchTimeout: defaultSearchTimeout,
		SearchRetries: defaultSearchRetries,
		SearchBackoff: defaultSearchBackoff,
	}
}

// CreateMeetupRequest validates and stores a new request in status pending.
// At most one non-terminal request may exist per match.
func (s *MeetupService) CreateMeetupRequest(ctx context.Context, matchID, requestedBy string, windows []models.TimeWindow, venueType string) (models.MeetupRequest, error) {
	if matchID == "" || requestedBy == "" {
		return models.MeetupRequest{}, fmt.Errorf("%w: matchId and requestedBy are required", models.ErrValidation)
	}
	if len(windows) == 0 {
		return models.MeetupRequest{}, fmt.Errorf("%w: at least one proposed time window is required", models.ErrValidation)
	}
	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return models.MeetupRequest{}, err
		}
	}
	if !models.IsValidVenueType(venueType) {
		return models.MeetupRequest{}, fmt.Errorf("%w: unknown venue type %q", models.ErrValidation, venueType)
	}

	active, err := s.Matches.IsActiveMatch(ctx, matchID)
	if err != nil {
		return models.MeetupRequest{}, err
	}
	if !active {
		return models.MeetupRequest{}, fmt.Errorf("%w: %s", models.ErrMatchInactive, matchID)
	}

	user1, user2, err := s.Matches.ParticipantsOf(ctx, matchID)
	if err != nil {
		return models.MeetupRequest{}, err
	}
	if requestedBy != user1 && requestedBy != user2 {
		return models.MeetupRequest{}, fmt.Errorf("%w: user %s is not a participant of match %s",
			models.ErrValidation, requestedBy, matchID)
	}

	existing, err := s.Requests.ActiveByMatch(ctx, matchID)
	if err != nil {
		return models.MeetupRequest{}, err
	}
	if existing != nil {
		return models.MeetupRequest{}, fmt.Errorf("%w: request %s is still %s",
			models.ErrDuplicateRequest, existing.RequestID, existing.Status)
	}

	now := time.Now().UTC()
	req := models.MeetupRequest{
		RequestID:           uuid.NewString(),
		MatchID:             matchID,
		RequestedBy:         requestedBy,
		Status:              models.RequestStatusPending,
		ProposedTimeWindows: windows,
		VenueType:           venueType,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.Requests.Create(ctx, req); err != nil {
		return models.MeetupRequest{}, err
	}

	log.Printf("✅ Meetup request %s created for match %s by %s", req.RequestID, matchID, requestedBy)
	s.Events.Publish(models.NewMeetupRequestedEvent(req))
	return req, nil
}

// AcceptMeetupRequest transitions pending → accepted, then generates and
// returns venue suggestions. The accepted transition commits independently:
// if generation fails the request stays accepted and generation can be
// retried via RegenerateSuggestions.
func (s *MeetupService) AcceptMeetupRequest(ctx context.Context, requestID string) (models.MeetupSuggestion, error) {
	req, err := s.transition(ctx, requestID, models.RequestStatusPending, models.RequestStatusAccepted)
	if err != nil {
		return models.MeetupSuggestion{}, err
	}

	s.Events.Publish(models.NewMeetupAcceptedEvent(req))

	suggestion, err := s.generateSuggestion(ctx, req)
	if err != nil {
		log.Printf("⚠️ Suggestion generation failed for request %s: %v", requestID, err)
		return models.MeetupSuggestion{}, err
	}
	return suggestion, nil
}

// DeclineMeetupRequest transitions pending → declined
func (s *MeetupService) DeclineMeetupRequest(ctx context.Context, requestID string) (models.MeetupRequest, error) {
	req, err := s.transition(ctx, requestID, models.RequestStatusPending, models.RequestStatusDeclined)
	if err != nil {
		return models.MeetupRequest{}, err
	}

	s.Events.Publish(models.NewMeetupDeclinedEvent(req))
	return req, nil
}

// CancelRequest cancels a request; allowed from pending or accepted only
func (s *MeetupService) CancelRequest(ctx context.Context, requestID string) (models.MeetupRequest, error) {
	req, err := s.Requests.Get(ctx, requestID)
	if err != nil {
		return models.MeetupRequest{}, err
	}
	if req.Status != models.RequestStatusPending && req.Status != models.RequestStatusAccepted {
		return models.MeetupRequest{}, fmt.Errorf("%w: cannot cancel request in status %s",
			models.ErrInvalidStateTransition, req.Status)
	}
	return s.transition(ctx, requestID, req.Status, models.RequestStatusCancelled)
}

// ConfirmMeetup validates the chosen venue and time against the latest
// suggestion and the proposed windows, then atomically transitions the
// request to confirmed and creates the ConfirmedMeetup in status scheduled
func (s *MeetupService) ConfirmMeetup(ctx context.Context, requestID, venueID string, scheduledTime time.Time) (models.ConfirmedMeetup, error) {
	req, err := s.Requests.Get(ctx, requestID)
	if err != nil {
		return models.ConfirmedMeetup{}, err
	}
	if req.Status != models.RequestStatusAccepted {
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: request %s is %s, expected %s",
			models.ErrInvalidStateTransition, requestID, req.Status, models.RequestStatusAccepted)
	}

	suggestion, err := s.Suggestions.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, models.ErrSuggestionNotFound) {
			return models.ConfirmedMeetup{}, fmt.Errorf("%w: no suggestion generated for request %s",
				models.ErrVenueNotSuggested, requestID)
		}
		return models.ConfirmedMeetup{}, err
	}

	var venue *models.Venue
	for i := range suggestion.Venues {
		if suggestion.Venues[i].Venue.VenueID == venueID {
			venue = &suggestion.Venues[i].Venue
			break
		}
	}
	if venue == nil {
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: %s", models.ErrVenueNotSuggested, venueID)
	}

	proposed := false
	for _, w := range req.ProposedTimeWindows {
		if w.Contains(scheduledTime) {
			proposed = true
			break
		}
	}
	if !proposed {
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: %s", models.ErrTimeNotProposed,
			scheduledTime.Format(time.RFC3339))
	}

	user1, user2, err := s.Matches.ParticipantsOf(ctx, req.MatchID)
	if err != nil {
		return models.ConfirmedMeetup{}, err
	}

	now := time.Now().UTC()
	meetup := models.ConfirmedMeetup{
		MeetupID:      uuid.NewString(),
		MatchID:       req.MatchID,
		RequestID:     requestID,
		User1ID:       user1,
		User2ID:       user2,
		Venue:         *venue,
		ScheduledTime: scheduledTime,
		Status:        models.MeetupStatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Requests.Confirm(ctx, requestID, meetup); err != nil {
		return models.ConfirmedMeetup{}, err
	}

	log.Printf("✅ Meetup %s confirmed at venue %s for %s", meetup.MeetupID, venueID, scheduledTime.Format(time.RFC3339))
	s.Events.Publish(models.NewMeetupConfirmedEvent(meetup))
	return meetup, nil
}

// RegenerateSuggestions rebuilds the suggestion set for an accepted request,
// replacing the previous one
func (s *MeetupService) RegenerateSuggestions(ctx context.Context, requestID string) (models.MeetupSuggestion, error) {
	req, err := s.Requests.Get(ctx, requestID)
	if err != nil {
		return models.MeetupSuggestion{}, err
	}
	if req.Status != models.RequestStatusAccepted {
		return models.MeetupSuggestion{}, fmt.Errorf("%w: request %s is %s, expected %s",
			models.ErrInvalidStateTransition, requestID, req.Status, models.RequestStatusAccepted)
	}
	return s.generateSuggestion(ctx, req)
}

// GetSuggestion returns the latest suggestion generated for a request
func (s *MeetupService) GetSuggestion(ctx context.Context, requestID string) (models.MeetupSuggestion, error) {
	return s.Suggestions.Get(ctx, requestID)
}

// GetActiveRequestByMatch returns the match's current non-terminal request
func (s *MeetupService) GetActiveRequestByMatch(ctx context.Context, matchID string) (models.MeetupRequest, error) {
	req, err := s.Requests.ActiveByMatch(ctx, matchID)
	if err != nil {
		return models.MeetupRequest{}, err
	}
	if req == nil {
		return models.MeetupRequest{}, fmt.Errorf("%w: no active request for match %s",
			models.ErrRequestNotFound, matchID)
	}
	return *req, nil
}

// transition performs a compare-and-set status change. A lost race is
// re-read once: when the prior status is re-observed the write is retried,
// otherwise the conflict is surfaced.
func (s *MeetupService) transition(ctx context.Context, requestID, expected, next string) (models.MeetupRequest, error) {
	req, err := s.Requests.Get(ctx, requestID)
	if err != nil {
		return models.MeetupRequest{}, err
	}
	if req.Status != expected {
		return models.MeetupRequest{}, fmt.Errorf("%w: request %s is %s, expected %s",
			models.ErrInvalidStateTransition, requestID, req.Status, expected)
	}

	updated, err := s.Requests.UpdateStatus(ctx, requestID, expected, next, time.Now().UTC())
	if errors.Is(err, models.ErrStateConflict) {
		current, getErr := s.Requests.Get(ctx, requestID)
		if getErr != nil {
			return models.MeetupRequest{}, getErr
		}
		if current.Status == expected {
			return s.Requests.UpdateStatus(ctx, requestID, expected, next, time.Now().UTC())
		}
		return models.MeetupRequest{}, err
	}
	return updated, err
}

// generateSuggestion computes the midpoint, queries the venue directory,
// scores each candidate for both users concurrently, and stores the ranked
// top venues as the request's suggestion
func (s *MeetupService) generateSuggestion(ctx context.Context, req models.MeetupRequest) (models.MeetupSuggestion, error) {
	user1, user2, err := s.Matches.ParticipantsOf(ctx, req.MatchID)
	if err != nil {
		return models.MeetupSuggestion{}, err
	}

	loc1, err := s.Matches.LocationOf(ctx, user1)
	if err != nil {
		return models.MeetupSuggestion{}, err
	}
	loc2, err := s.Matches.LocationOf(ctx, user2)
	if err != nil {
		return models.MeetupSuggestion{}, err
	}

	midpoint := Midpoint(loc1, loc2)

	var window *models.TimeWindow
	if len(req.ProposedTimeWindows) > 0 {
		window = &req.ProposedTimeWindows[0]
	}

	venues, err := s.searchWithRetry(ctx, midpoint, req.VenueType, window)
	if err != nil {
		return models.MeetupSuggestion{}, err
	}

	// Per-venue scoring is independent; compute in parallel and re-join
	// into an indexed slice before ranking.
	withDistance := make([]models.VenueWithDistance, len(venues))
	var wg sync.WaitGroup
	for i, venue := range venues {
		wg.Add(1)
		go func(i int, venue models.Venue) {
			defer wg.Done()
			d1 := DistanceKm(loc1, venue.Location)
			d2 := DistanceKm(loc2, venue.Location)
			withDistance[i] = models.VenueWithDistance{
				Venue:             venue,
				DistanceFromUser1: d1,
				DistanceFromUser2: d2,
				TravelTimeUser1:   TravelTimeMinutes(d1),
				TravelTimeUser2:   TravelTimeMinutes(d2),
			}
		}(i, venue)
	}
	wg.Wait()

	ranked := RankVenuesByFairness(withDistance)
	if len(ranked) > maxSuggestedVenues {
		ranked = ranked[:maxSuggestedVenues]
	}

	suggestion := models.MeetupSuggestion{
		RequestID:   req.RequestID,
		Midpoint:    midpoint,
		Venues:      ranked,
		GeneratedAt: time.Now().UTC(),
	}

	if err := s.Suggestions.Save(ctx, suggestion); err != nil {
		return models.MeetupSuggestion{}, err
	}

	log.Printf("✅ Generated %d venue suggestions for request %s", len(ranked), req.RequestID)
	return suggestion, nil
}

// searchWithRetry bounds each directory call with a timeout and retries
// transient failures with doubling backoff before surfacing
// ErrVenueSearchUnavailable
func (s *MeetupService) searchWithRetry(ctx context.Context, center models.Coordinates, category string, window *models.TimeWindow) ([]models.Venue, error) {
	backoff := s.SearchBackoff
	var lastErr error

	for attempt := 1; attempt <= s.SearchRetries; attempt++ {
		searchCtx, cancel := context.WithTimeout(ctx, s.SearchTimeout)
		venues, err := s.Venues.Search(searchCtx, center, category, window)
		cancel()
		if err == nil {
			return venues, nil
		}
		lastErr = err
		log.Printf("⚠️ Venue search attempt %d/%d failed: %v", attempt, s.SearchRetries, err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < s.SearchRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return nil, fmt.Errorf("%w: %v", models.ErrVenueSearchUnavailable, lastErr)
}

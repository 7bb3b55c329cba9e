package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"meetspot_server/models"
)

// In-memory implementations of the store and collaborator contracts. They
// mirror the DynamoDB semantics (including compare-and-set conflicts) and
// back the test suites and local development without AWS.

// MemoryConfirmedMeetupStore holds confirmed meetups in a mutex-guarded map
type MemoryConfirmedMeetupStore struct {
	mu      sync.Mutex
	meetups map[string]models.ConfirmedMeetup
}

func NewMemoryConfirmedMeetupStore() *MemoryConfirmedMeetupStore {
	return &MemoryConfirmedMeetupStore{meetups: make(map[string]models.ConfirmedMeetup)}
}

// Put seeds or replaces a meetup directly; tests use it for fixtures
func (s *MemoryConfirmedMeetupStore) Put(meetup models.ConfirmedMeetup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetups[meetup.MeetupID] = meetup
}

func (s *MemoryConfirmedMeetupStore) Get(ctx context.Context, meetupID string) (models.ConfirmedMeetup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meetup, ok := s.meetups[meetupID]
	if !ok {
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: %s", models.ErrMeetupNotFound, meetupID)
	}
	return meetup, nil
}

func (s *MemoryConfirmedMeetupStore) UpdateStatus(ctx context.Context, meetupID, expectedStatus, newStatus string, updatedAt time.Time) (models.ConfirmedMeetup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meetup, ok := s.meetups[meetupID]
	if !ok {
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: %s", models.ErrMeetupNotFound, meetupID)
	}
	if meetup.Status != expectedStatus {
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: meetup %s is no longer %s",
			models.ErrStateConflict, meetupID, expectedStatus)
	}
	meetup.Status = newStatus
	meetup.UpdatedAt = updatedAt
	s.meetups[meetupID] = meetup
	return meetup, nil
}

func (s *MemoryConfirmedMeetupStore) RecordCheckin(ctx context.Context, meetupID, checkinField string, at time.Time, expectedStatus, newStatus string) (models.ConfirmedMeetup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meetup, ok := s.meetups[meetupID]
	if !ok {
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: %s", models.ErrMeetupNotFound, meetupID)
	}
	if meetup.Status != expectedStatus {
		return models.ConfirmedMeetup{}, fmt.Errorf("%w: meetup %s is no longer %s",
			models.ErrStateConflict, meetupID, expectedStatus)
	}
	ts := at
	switch checkinField {
	case models.CheckinFieldUser1:
		meetup.User1CheckedIn = &ts
	case models.CheckinFieldUser2:
		meetup.User2CheckedIn = &ts
	default:
		return models.ConfirmedMeetup{}, fmt.Errorf("unknown checkin field %q", checkinField)
	}
	meetup.Status = newStatus
	meetup.UpdatedAt = at
	s.meetups[meetupID] = meetup
	return meetup, nil
}

func (s *MemoryConfirmedMeetupStore) ByUser(ctx context.Context, userID string) ([]models.ConfirmedMeetup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var meetups []models.ConfirmedMeetup
	for _, meetup := range s.meetups {
		if meetup.IsParticipant(userID) {
			meetups = append(meetups, meetup)
		}
	}
	return meetups, nil
}

func (s *MemoryConfirmedMeetupStore) put(meetup models.ConfirmedMeetup) error {
	if _, exists := s.meetups[meetup.MeetupID]; exists {
		return fmt.Errorf("%w: meetup id %s already exists", models.ErrStateConflict, meetup.MeetupID)
	}
	s.meetups[meetup.MeetupID] = meetup
	return nil
}

// MemoryMeetupRequestStore holds meetup requests in a mutex-guarded map.
// Confirm writes into the paired meetup store under the request store's
// lock, matching the transactional Dynamo implementation.
type MemoryMeetupRequestStore struct {
	mu       sync.Mutex
	requests map[string]models.MeetupRequest
	meetups  *MemoryConfirmedMeetupStore
}

func NewMemoryMeetupRequestStore(meetups *MemoryConfirmedMeetupStore) *MemoryMeetupRequestStore {
	return &MemoryMeetupRequestStore{
		requests: make(map[string]models.MeetupRequest),
		meetups:  meetups,
	}
}

func (s *MemoryMeetupRequestStore) Create(ctx context.Context, req models.MeetupRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[req.RequestID]; exists {
		return fmt.Errorf("%w: request id %s already exists", models.ErrStateConflict, req.RequestID)
	}
	// The one-active-request-per-match check happens under the same lock as
	// the write, mirroring the transactional marker in the Dynamo store
	for _, existing := range s.requests {
		if existing.MatchID == req.MatchID && !models.IsTerminalRequestStatus(existing.Status) {
			return fmt.Errorf("%w: request %s is still %s",
				models.ErrDuplicateRequest, existing.RequestID, existing.Status)
		}
	}
	s.requests[req.RequestID] = req
	return nil
}

func (s *MemoryMeetupRequestStore) Get(ctx context.Context, requestID string) (models.MeetupRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return models.MeetupRequest{}, fmt.Errorf("%w: %s", models.ErrRequestNotFound, requestID)
	}
	return req, nil
}

func (s *MemoryMeetupRequestStore) ActiveByMatch(ctx context.Context, matchID string) (*models.MeetupRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.requests {
		if req.MatchID == matchID && !models.IsTerminalRequestStatus(req.Status) {
			found := req
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryMeetupRequestStore) UpdateStatus(ctx context.Context, requestID, expectedStatus, newStatus string, updatedAt time.Time) (models.MeetupRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return models.MeetupRequest{}, fmt.Errorf("%w: %s", models.ErrRequestNotFound, requestID)
	}
	if req.Status != expectedStatus {
		return models.MeetupRequest{}, fmt.Errorf("%w: request %s is no longer %s",
			models.ErrStateConflict, requestID, expectedStatus)
	}
	req.Status = newStatus
	req.UpdatedAt = updatedAt
	s.requests[requestID] = req
	return req, nil
}

func (s *MemoryMeetupRequestStore) Confirm(ctx context.Context, requestID string, meetup models.ConfirmedMeetup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrRequestNotFound, requestID)
	}
	if req.Status != models.RequestStatusAccepted {
		return fmt.Errorf("%w: request %s was confirmed concurrently", models.ErrStateConflict, requestID)
	}

	s.meetups.mu.Lock()
	err := s.meetups.put(meetup)
	s.meetups.mu.Unlock()
	if err != nil {
		return err
	}

	req.Status = models.RequestStatusConfirmed
	req.UpdatedAt = meetup.CreatedAt
	s.requests[requestID] = req
	return nil
}

// MemorySuggestionStore keeps the latest suggestion per request
type MemorySuggestionStore struct {
	mu          sync.Mutex
	suggestions map[string]models.MeetupSuggestion
}

func NewMemorySuggestionStore() *MemorySuggestionStore {
	return &MemorySuggestionStore{suggestions: make(map[string]models.MeetupSuggestion)}
}

func (s *MemorySuggestionStore) Save(ctx context.Context, suggestion models.MeetupSuggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions[suggestion.RequestID] = suggestion
	return nil
}

func (s *MemorySuggestionStore) Get(ctx context.Context, requestID string) (models.MeetupSuggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	suggestion, ok := s.suggestions[requestID]
	if !ok {
		return models.MeetupSuggestion{}, fmt.Errorf("%w: %s", models.ErrSuggestionNotFound, requestID)
	}
	return suggestion, nil
}

// MemoryFeedbackStore keys feedback by (meetupId, userId)
type MemoryFeedbackStore struct {
	mu       sync.Mutex
	feedback map[string]models.MeetupFeedback
}

func NewMemoryFeedbackStore() *MemoryFeedbackStore {
	return &MemoryFeedbackStore{feedback: make(map[string]models.MeetupFeedback)}
}

func feedbackMapKey(meetupID, userID string) string {
	return meetupID + "/" + userID
}

func (s *MemoryFeedbackStore) Create(ctx context.Context, fb models.MeetupFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := feedbackMapKey(fb.MeetupID, fb.UserID)
	if _, exists := s.feedback[key]; exists {
		return fmt.Errorf("%w: user %s, meetup %s", models.ErrDuplicateFeedback, fb.UserID, fb.MeetupID)
	}
	s.feedback[key] = fb
	return nil
}

func (s *MemoryFeedbackStore) Update(ctx context.Context, fb models.MeetupFeedback) (models.MeetupFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := feedbackMapKey(fb.MeetupID, fb.UserID)
	existing, ok := s.feedback[key]
	if !ok {
		return models.MeetupFeedback{}, fmt.Errorf("%w: user %s, meetup %s",
			models.ErrFeedbackNotFound, fb.UserID, fb.MeetupID)
	}
	existing.ShowedUp = fb.ShowedUp
	existing.WouldMeetAgain = fb.WouldMeetAgain
	existing.Comments = fb.Comments
	existing.UpdatedAt = fb.UpdatedAt
	if fb.Rating != nil {
		existing.Rating = fb.Rating
	}
	s.feedback[key] = existing
	return existing, nil
}

func (s *MemoryFeedbackStore) ListByMeetup(ctx context.Context, meetupID string) ([]models.MeetupFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MeetupFeedback
	for _, fb := range s.feedback {
		if fb.MeetupID == meetupID {
			out = append(out, fb)
		}
	}
	return out, nil
}

// MemoryMatches is an in-memory Matches collaborator
type MemoryMatches struct {
	mu        sync.Mutex
	matches   map[string]models.Match
	locations map[string]models.Coordinates
}

func NewMemoryMatches() *MemoryMatches {
	return &MemoryMatches{
		matches:   make(map[string]models.Match),
		locations: make(map[string]models.Coordinates),
	}
}

// AddMatch registers a match
func (m *MemoryMatches) AddMatch(match models.Match) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[match.MatchID] = match
}

// SetLocation registers a user's coordinates
func (m *MemoryMatches) SetLocation(userID string, coords models.Coordinates) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[userID] = coords
}

func (m *MemoryMatches) IsActiveMatch(ctx context.Context, matchID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[matchID]
	if !ok {
		return false, fmt.Errorf("%w: %s", models.ErrMatchNotFound, matchID)
	}
	return match.Status == models.MatchStatusActive, nil
}

func (m *MemoryMatches) ParticipantsOf(ctx context.Context, matchID string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[matchID]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", models.ErrMatchNotFound, matchID)
	}
	return match.User1ID, match.User2ID, nil
}

func (m *MemoryMatches) LocationOf(ctx context.Context, userID string) (models.Coordinates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coords, ok := m.locations[userID]
	if !ok {
		return models.Coordinates{}, fmt.Errorf("%w: %s", models.ErrProfileNotFound, userID)
	}
	return coords, nil
}

// StaticVenueDirectory returns a fixed venue list, or a fixed error, and
// counts calls; used by tests and local development
type StaticVenueDirectory struct {
	mu     sync.Mutex
	Venues []models.Venue
	Err    error
	calls  int
}

func (d *StaticVenueDirectory) Search(ctx context.Context, center models.Coordinates, category string, window *models.TimeWindow) ([]models.Venue, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}
	out := make([]models.Venue, len(d.Venues))
	copy(out, d.Venues)
	return out, nil
}

// Calls reports how many searches were attempted
func (d *StaticVenueDirectory) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// CollectingEventEmitter records published events for assertions
type CollectingEventEmitter struct {
	mu     sync.Mutex
	events []models.MeetupEvent
}

func (e *CollectingEventEmitter) Publish(event models.MeetupEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

// Events returns a copy of everything published so far
func (e *CollectingEventEmitter) Events() []models.MeetupEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.MeetupEvent, len(e.events))
	copy(out, e.events)
	return out
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"meetspot_server/models"
	"meetspot_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Matches is the contract the meetup engine consumes from the matching
// system: match validity, participants, and each participant's last known
// location.
type Matches interface {
	IsActiveMatch(ctx context.Context, matchID string) (bool, error)
	ParticipantsOf(ctx context.Context, matchID string) (string, string, error)
	LocationOf(ctx context.Context, userID string) (models.Coordinates, error)
}

// MatchService is the DynamoDB-backed implementation of Matches, plus the
// per-user match listing used by the HTTP surface
type MatchService struct {
	Dynamo *DynamoService
}

// GetMatch fetches a match by id
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (models.Match, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return models.Match{}, fmt.Errorf("%w: %s", models.ErrMatchNotFound, matchID)
		}
		return models.Match{}, err
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return models.Match{}, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return match, nil
}

// IsActiveMatch reports whether the match exists and is in status "active"
func (s *MatchService) IsActiveMatch(ctx context.Context, matchID string) (bool, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return false, err
	}
	return match.Status == models.MatchStatusActive, nil
}

// ParticipantsOf returns the two users of a match
func (s *MatchService) ParticipantsOf(ctx context.Context, matchID string) (string, string, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return "", "", err
	}
	return match.User1ID, match.User2ID, nil
}

// LocationOf returns a user's last known coordinates from their profile
func (s *MatchService) LocationOf(ctx context.Context, userID string) (models.Coordinates, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return models.Coordinates{}, fmt.Errorf("%w: %s", models.ErrProfileNotFound, userID)
		}
		return models.Coordinates{}, err
	}

	lat, latOK := utils.ExtractFloat(item, "latitude")
	lng, lngOK := utils.ExtractFloat(item, "longitude")
	if !latOK || !lngOK {
		return models.Coordinates{}, fmt.Errorf("%w: profile %s has no coordinates", models.ErrProfileNotFound, userID)
	}

	coords := models.Coordinates{Latitude: lat, Longitude: lng}
	if err := coords.Validate(); err != nil {
		return models.Coordinates{}, err
	}
	return coords, nil
}

// GetMatchesByUser fetches matches where the user is either participant,
// merging the user1Id and user2Id GSIs
func (s *MatchService) GetMatchesByUser(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match

	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	for _, q := range []struct {
		index     string
		condition string
	}{
		{"user1Id-index", "user1Id = :userId"},
		{"user2Id-index", "user2Id = :userId"},
	} {
		items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, q.index, q.condition, expressionValues, nil, 100)
		if err != nil {
			log.Printf("❌ Error querying %s: %v", q.index, err)
			return nil, fmt.Errorf("failed to fetch matches: %w", err)
		}

		for _, item := range items {
			var match models.Match
			if err := attributevalue.UnmarshalMap(item, &match); err != nil {
				log.Printf("❌ Error unmarshalling match from %s: %v", q.index, err)
				continue
			}
			matches = append(matches, match)
		}
	}

	log.Printf("✅ Found %d matches for user: %s", len(matches), userID)
	return matches, nil
}

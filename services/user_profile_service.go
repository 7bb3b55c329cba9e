package services

import (
	"context"
	"errors"
	"fmt"

	"meetspot_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserProfileService manages the profile fields the meetup engine depends
// on, chiefly each user's coordinates
type UserProfileService struct {
	Dynamo *DynamoService
}

// UpsertProfile validates and writes a profile
func (ups *UserProfileService) UpsertProfile(ctx context.Context, profile models.UserProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("%w: userId is required", models.ErrValidation)
	}
	coords := models.Coordinates{Latitude: profile.Latitude, Longitude: profile.Longitude}
	if err := coords.Validate(); err != nil {
		return err
	}

	return ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile)
}

// GetProfile fetches a profile by user id
func (ups *UserProfileService) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return models.UserProfile{}, fmt.Errorf("%w: %s", models.ErrProfileNotFound, userID)
		}
		return models.UserProfile{}, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return profile, nil
}

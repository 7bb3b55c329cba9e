package services

import (
	"context"
	"errors"
	"fmt"

	"meetspot_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SuggestionStore keeps the latest generated suggestion per request.
// Save overwrites: suggestions are derived artifacts, never accumulated.
type SuggestionStore interface {
	Save(ctx context.Context, suggestion models.MeetupSuggestion) error
	Get(ctx context.Context, requestID string) (models.MeetupSuggestion, error)
}

// DynamoSuggestionStore is the DynamoDB implementation of SuggestionStore
type DynamoSuggestionStore struct {
	Dynamo *DynamoService
}

// Save writes the suggestion, replacing any previous one for the request
func (s *DynamoSuggestionStore) Save(ctx context.Context, suggestion models.MeetupSuggestion) error {
	return s.Dynamo.PutItem(ctx, models.MeetupSuggestionsTable, suggestion)
}

// Get fetches the latest suggestion for a request
func (s *DynamoSuggestionStore) Get(ctx context.Context, requestID string) (models.MeetupSuggestion, error) {
	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.MeetupSuggestionsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return models.MeetupSuggestion{}, fmt.Errorf("%w: %s", models.ErrSuggestionNotFound, requestID)
		}
		return models.MeetupSuggestion{}, err
	}

	var suggestion models.MeetupSuggestion
	if err := attributevalue.UnmarshalMap(item, &suggestion); err != nil {
		return models.MeetupSuggestion{}, fmt.Errorf("failed to unmarshal suggestion: %w", err)
	}
	return suggestion, nil
}

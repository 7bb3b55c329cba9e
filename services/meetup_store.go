package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"meetspot_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ConfirmedMeetupStore persists confirmed meetups. Status writes are
// compare-and-set against an expected prior status.
type ConfirmedMeetupStore interface {
	Get(ctx context.Context, meetupID string) (models.ConfirmedMeetup, error)
	UpdateStatus(ctx context.Context, meetupID, expectedStatus, newStatus string, updatedAt time.Time) (models.ConfirmedMeetup, error)
	RecordCheckin(ctx context.Context, meetupID, checkinField string, at time.Time, expectedStatus, newStatus string) (models.ConfirmedMeetup, error)
	ByUser(ctx context.Context, userID string) ([]models.ConfirmedMeetup, error)
}

// DynamoConfirmedMeetupStore is the DynamoDB implementation of ConfirmedMeetupStore
type DynamoConfirmedMeetupStore struct {
	Dynamo *DynamoService
}

func meetupKey(meetupID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"meetupId": &types.AttributeValueMemberS{Value: meetupID},
	}
}

// Get fetches a confirmed meetup by id
func (s *DynamoConfirmedMeetupStore) Get(ctx context.Context, meetupID string) (models.ConfirmedMeetup, error) {
	item, err := s.Dynamo.GetItem(ctx, models.ConfirmedMeetupsTable, meetupKey(meetupID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return models.ConfirmedMeetup{}, fmt.Errorf("%w: %s", models.ErrMeetupNotFound, meetupID)
		}
		return models.ConfirmedMeetup{}, err
	}

	var meetup models.ConfirmedMeetup
	if err := attributevalue.UnmarshalMap(item, &meetup); err != nil {
		return models.ConfirmedMeetup{}, fmt.Errorf("failed to unmarshal meetup: %w", err)
	}
	return meetup, nil
}

// UpdateStatus transitions the meetup's status, conditional on the stored
// status still being expectedStatus
func (s *DynamoConfirmedMeetupStore) UpdateStatus(ctx context.Context, meetupID, expectedStatus, newStatus string, updatedAt time.Time) (models.ConfirmedMeetup, error) {
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.ConfirmedMeetupsTable,
		meetupKey(meetupID),
		"SET #status = :new, #updatedAt = :updatedAt",
		"#status = :expected",
		map[string]types.AttributeValue{
			":new":       &types.AttributeValueMemberS{Value: newStatus},
			":expected":  &types.AttributeValueMemberS{Value: expectedStatus},
			":updatedAt": &types.AttributeValueMemberS{Value: updatedAt.UTC().Format(time.RFC3339Nano)},
		},
		map[string]string{
			"#status":    "status",
			"#updatedAt": "updatedAt",
		},
	)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return models.ConfirmedMeetup{}, fmt.Errorf("%w: meetup %s is no longer %s",
				models.ErrStateConflict, meetupID, expectedStatus)
		}
		return models.ConfirmedMeetup{}, err
	}

	var meetup models.ConfirmedMeetup
	if err := attributevalue.UnmarshalMap(attrs, &meetup); err != nil {
		return models.ConfirmedMeetup{}, fmt.Errorf("failed to unmarshal updated meetup: %w", err)
	}
	return meetup, nil
}

// RecordCheckin writes one participant's check-in timestamp and the
// resulting status in a single conditional update
func (s *DynamoConfirmedMeetupStore) RecordCheckin(ctx context.Context, meetupID, checkinField string, at time.Time, expectedStatus, newStatus string) (models.ConfirmedMeetup, error) {
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.ConfirmedMeetupsTable,
		meetupKey(meetupID),
		"SET #checkin = :at, #status = :new, #updatedAt = :at",
		"#status = :expected",
		map[string]types.AttributeValue{
			":at":       &types.AttributeValueMemberS{Value: at.UTC().Format(time.RFC3339Nano)},
			":new":      &types.AttributeValueMemberS{Value: newStatus},
			":expected": &types.AttributeValueMemberS{Value: expectedStatus},
		},
		map[string]string{
			"#checkin":   checkinField,
			"#status":    "status",
			"#updatedAt": "updatedAt",
		},
	)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return models.ConfirmedMeetup{}, fmt.Errorf("%w: meetup %s is no longer %s",
				models.ErrStateConflict, meetupID, expectedStatus)
		}
		return models.ConfirmedMeetup{}, err
	}

	var meetup models.ConfirmedMeetup
	if err := attributevalue.UnmarshalMap(attrs, &meetup); err != nil {
		return models.ConfirmedMeetup{}, fmt.Errorf("failed to unmarshal updated meetup: %w", err)
	}
	return meetup, nil
}

// ByUser fetches meetups where the user is either participant, merging the
// user1Id and user2Id GSIs
func (s *DynamoConfirmedMeetupStore) ByUser(ctx context.Context, userID string) ([]models.ConfirmedMeetup, error) {
	var meetups []models.ConfirmedMeetup

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
		items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.ConfirmedMeetupsTable, q.index, q.condition, expressionValues, nil, 100)
		if err != nil {
			log.Printf("❌ Error querying %s: %v", q.index, err)
			return nil, fmt.Errorf("failed to fetch meetups: %w", err)
		}

		for _, item := range items {
			var meetup models.ConfirmedMeetup
			if err := attributevalue.UnmarshalMap(item, &meetup); err != nil {
				log.Printf("❌ Error unmarshalling meetup from %s: %v", q.index, err)
				continue
			}
			meetups = append(meetups, meetup)
		}
	}

	return meetups, nil
}

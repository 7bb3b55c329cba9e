package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"meetspot_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FeedbackStore persists per-user meetup feedback. Create refuses to
// overwrite an existing (meetup, user) record.
type FeedbackStore interface {
	Create(ctx context.Context, feedback models.MeetupFeedback) error
	Update(ctx context.Context, feedback models.MeetupFeedback) (models.MeetupFeedback, error)
	ListByMeetup(ctx context.Context, meetupID string) ([]models.MeetupFeedback, error)
}

// DynamoFeedbackStore is the DynamoDB implementation of FeedbackStore.
// The table is keyed by meetupId (hash) and userId (range).
type DynamoFeedbackStore struct {
	Dynamo *DynamoService
}

func feedbackKey(meetupID, userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"meetupId": &types.AttributeValueMemberS{Value: meetupID},
		"userId":   &types.AttributeValueMemberS{Value: userID},
	}
}

// Create writes a feedback record, failing if one already exists for the
// (meetup, user) pair
func (s *DynamoFeedbackStore) Create(ctx context.Context, feedback models.MeetupFeedback) error {
	err := s.Dynamo.PutItemIfNotExists(ctx, models.MeetupFeedbackTable, feedback, "meetupId")
	if errors.Is(err, ErrConditionFailed) {
		return fmt.Errorf("%w: user %s, meetup %s", models.ErrDuplicateFeedback, feedback.UserID, feedback.MeetupID)
	}
	return err
}

// Update edits an existing feedback record in place
func (s *DynamoFeedbackStore) Update(ctx context.Context, feedback models.MeetupFeedback) (models.MeetupFeedback, error) {
	values := map[string]types.AttributeValue{
		":showedUp":       &types.AttributeValueMemberBOOL{Value: feedback.ShowedUp},
		":wouldMeetAgain": &types.AttributeValueMemberBOOL{Value: feedback.WouldMeetAgain},
		":comments":       &types.AttributeValueMemberS{Value: feedback.Comments},
		":updatedAt":      &types.AttributeValueMemberS{Value: feedback.UpdatedAt.UTC().Format(time.RFC3339Nano)},
	}
	update := "SET showedUp = :showedUp, wouldMeetAgain = :wouldMeetAgain, #comments = :comments, #updatedAt = :updatedAt"
	if feedback.Rating != nil {
		update += ", rating = :rating"
		values[":rating"] = &types.AttributeValueMemberN{Value: strconv.Itoa(*feedback.Rating)}
	}

	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.MeetupFeedbackTable,
		feedbackKey(feedback.MeetupID, feedback.UserID),
		update,
		"attribute_exists(meetupId)",
		values,
		map[string]string{
			"#comments":  "comments",
			"#updatedAt": "updatedAt",
		},
	)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return models.MeetupFeedback{}, fmt.Errorf("%w: user %s, meetup %s",
				models.ErrFeedbackNotFound, feedback.UserID, feedback.MeetupID)
		}
		return models.MeetupFeedback{}, err
	}

	var updated models.MeetupFeedback
	if err := attributevalue.UnmarshalMap(attrs, &updated); err != nil {
		return models.MeetupFeedback{}, fmt.Errorf("failed to unmarshal updated feedback: %w", err)
	}
	return updated, nil
}

// ListByMeetup fetches all feedback records for a meetup
func (s *DynamoFeedbackStore) ListByMeetup(ctx context.Context, meetupID string) ([]models.MeetupFeedback, error) {
	items, err := s.Dynamo.QueryItems(ctx, models.MeetupFeedbackTable,
		"meetupId = :meetupId",
		map[string]types.AttributeValue{
			":meetupId": &types.AttributeValueMemberS{Value: meetupID},
		},
		nil, 100)
	if err != nil {
		return nil, err
	}

	var feedback []models.MeetupFeedback
	if err := attributevalue.UnmarshalListOfMaps(items, &feedback); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feedback: %w", err)
	}
	return feedback, nil
}

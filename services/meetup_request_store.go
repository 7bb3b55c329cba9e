package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"meetspot_server/models"
	"meetspot_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MeetupRequestStore persists meetup requests. Create atomically enforces at
// most one non-terminal request per match, reporting
// models.ErrDuplicateRequest when the match already holds one. Status
// transitions are compare-and-set: UpdateStatus and Confirm only succeed when
// the stored status still matches the expected one, otherwise they report
// models.ErrStateConflict.
type MeetupRequestStore interface {
	Create(ctx context.Context, req models.MeetupRequest) error
	Get(ctx context.Context, requestID string) (models.MeetupRequest, error)
	ActiveByMatch(ctx context.Context, matchID string) (*models.MeetupRequest, error)
	UpdateStatus(ctx context.Context, requestID, expectedStatus, newStatus string, updatedAt time.Time) (models.MeetupRequest, error)
	Confirm(ctx context.Context, requestID string, meetup models.ConfirmedMeetup) error
}

// activeMarkerPrefix namespaces the per-match marker items that hold the
// one-active-request-per-match claim. Markers live in the requests table
// under a synthetic request id.
const activeMarkerPrefix = "active#"

func activeMarkerID(matchID string) string {
	return activeMarkerPrefix + matchID
}

// DynamoMeetupRequestStore is the DynamoDB implementation of MeetupRequestStore
type DynamoMeetupRequestStore struct {
	Dynamo *DynamoService
}

func requestKey(requestID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
}

// Create writes a new request together with the match's active-request
// marker in one transaction. The marker put is conditioned on absence, so
// two concurrent creations for the same match can never both commit — the
// GSI read in ActiveByMatch is only advisory. The marker is cleared when the
// request reaches a terminal status.
func (s *DynamoMeetupRequestStore) Create(ctx context.Context, req models.MeetupRequest) error {
	requestItem, err := attributevalue.MarshalMap(req)
	if err != nil {
		return fmt.Errorf("failed to marshal meetup request: %w", err)
	}

	marker := map[string]types.AttributeValue{
		"requestId":       &types.AttributeValueMemberS{Value: activeMarkerID(req.MatchID)},
		"matchId":         &types.AttributeValueMemberS{Value: req.MatchID},
		"activeRequestId": &types.AttributeValueMemberS{Value: req.RequestID},
	}

	err = s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(models.MeetupRequestsTable),
				Item:                marker,
				ConditionExpression: aws.String("attribute_not_exists(requestId)"),
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(models.MeetupRequestsTable),
				Item:                requestItem,
				ConditionExpression: aws.String("attribute_not_exists(requestId)"),
			},
		},
	})
	if errors.Is(err, ErrConditionFailed) {
		return fmt.Errorf("%w: match %s already has an active request", models.ErrDuplicateRequest, req.MatchID)
	}
	return err
}

// Get fetches a request by id
func (s *DynamoMeetupRequestStore) Get(ctx context.Context, requestID string) (models.MeetupRequest, error) {
	item, err := s.Dynamo.GetItem(ctx, models.MeetupRequestsTable, requestKey(requestID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return models.MeetupRequest{}, fmt.Errorf("%w: %s", models.ErrRequestNotFound, requestID)
		}
		return models.MeetupRequest{}, err
	}

	var req models.MeetupRequest
	if err := attributevalue.UnmarshalMap(item, &req); err != nil {
		return models.MeetupRequest{}, fmt.Errorf("failed to unmarshal meetup request: %w", err)
	}
	return req, nil
}

// ActiveByMatch returns the match's non-terminal request, or nil when none
// exists. Requests per match are few, so terminal filtering happens in code.
func (s *DynamoMeetupRequestStore) ActiveByMatch(ctx context.Context, matchID string) (*models.MeetupRequest, error) {
	expressionValues := map[string]types.AttributeValue{
		":matchId": &types.AttributeValueMemberS{Value: matchID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MeetupRequestsTable, "matchId-index",
		"matchId = :matchId", expressionValues, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests for match '%s': %w", matchID, err)
	}

	for _, item := range items {
		// Marker items share the matchId GSI; skip them
		if strings.HasPrefix(utils.ExtractString(item, "requestId"), activeMarkerPrefix) {
			continue
		}
		var req models.MeetupRequest
		if err := attributevalue.UnmarshalMap(item, &req); err != nil {
			continue
		}
		if !models.IsTerminalRequestStatus(req.Status) {
			return &req, nil
		}
	}
	return nil, nil
}

// UpdateStatus transitions the request's status, conditional on the stored
// status still being expectedStatus
func (s *DynamoMeetupRequestStore) UpdateStatus(ctx context.Context, requestID, expectedStatus, newStatus string, updatedAt time.Time) (models.MeetupRequest, error) {
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.MeetupRequestsTable,
		requestKey(requestID),
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
			return models.MeetupRequest{}, fmt.Errorf("%w: request %s is no longer %s",
				models.ErrStateConflict, requestID, expectedStatus)
		}
		return models.MeetupRequest{}, err
	}

	var req models.MeetupRequest
	if err := attributevalue.UnmarshalMap(attrs, &req); err != nil {
		return models.MeetupRequest{}, fmt.Errorf("failed to unmarshal updated request: %w", err)
	}

	// A terminal request releases the match's active-request claim. The
	// transition is already committed, so a failed cleanup is logged rather
	// than surfaced.
	if models.IsTerminalRequestStatus(newStatus) {
		if err := s.Dynamo.DeleteItem(ctx, models.MeetupRequestsTable, requestKey(activeMarkerID(req.MatchID))); err != nil {
			log.Printf("⚠️ Failed to clear active-request marker for match %s: %v", req.MatchID, err)
		}
	}
	return req, nil
}

// Confirm atomically flips the request from accepted to confirmed and writes
// the confirmed meetup, so a lost race can never produce two meetups for one
// request
func (s *DynamoMeetupRequestStore) Confirm(ctx context.Context, requestID string, meetup models.ConfirmedMeetup) error {
	meetupItem, err := attributevalue.MarshalMap(meetup)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmed meetup: %w", err)
	}

	err = s.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(models.MeetupRequestsTable),
				Key:                 requestKey(requestID),
				UpdateExpression:    aws.String("SET #status = :confirmed, #updatedAt = :updatedAt"),
				ConditionExpression: aws.String("#status = :accepted"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":confirmed": &types.AttributeValueMemberS{Value: models.RequestStatusConfirmed},
					":accepted":  &types.AttributeValueMemberS{Value: models.RequestStatusAccepted},
					":updatedAt": &types.AttributeValueMemberS{Value: meetup.CreatedAt.UTC().Format(time.RFC3339Nano)},
				},
				ExpressionAttributeNames: map[string]string{
					"#status":    "status",
					"#updatedAt": "updatedAt",
				},
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(models.ConfirmedMeetupsTable),
				Item:                meetupItem,
				ConditionExpression: aws.String("attribute_not_exists(meetupId)"),
			},
		},
	})
	if errors.Is(err, ErrConditionFailed) {
		return fmt.Errorf("%w: request %s was confirmed concurrently", models.ErrStateConflict, requestID)
	}
	return err
}

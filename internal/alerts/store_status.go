package alerts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/SilverCare-Graduation-Project/Backend/models"
	"github.com/SilverCare-Graduation-Project/Backend/pkg/db"
)

// monitorID keys the single persisted status row.
const monitorID = "humidity-monitor"

// DynamoAPI is the slice of the DynamoDB client the status store needs.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// StatusStore persists the alert debounce status across invocations. Nothing
// else reads or writes the row.
type StatusStore struct {
	Client    DynamoAPI
	TableName string
}

func NewStatusStore() (*StatusStore, error) {
	tableName := os.Getenv("DYNAMODB_STATUS_TABLE")
	if tableName == "" {
		return nil, fmt.Errorf("DYNAMODB_STATUS_TABLE environment variable is not set")
	}

	if db.Client == nil {
		return nil, fmt.Errorf("dynamodb client is not initialized")
	}

	return &StatusStore{
		Client:    db.Client,
		TableName: tableName,
	}, nil
}

// Get reads the persisted status. A missing row or attribute reads as
// normal, which is the documented fresh-deployment initial state.
func (store *StatusStore) Get(ctx context.Context) (models.AlertStatus, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(store.TableName),
		Key: map[string]types.AttributeValue{
			"monitor_id": &types.AttributeValueMemberS{Value: monitorID},
		},
		ConsistentRead: aws.Bool(true),
	}

	output, err := store.Client.GetItem(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to read alert status: %w", err)
	}

	attr, ok := output.Item["status"].(*types.AttributeValueMemberS)
	if !ok {
		return models.StatusNormal, nil
	}

	if status := models.AlertStatus(attr.Value); status == models.StatusAlert {
		return models.StatusAlert, nil
	}
	return models.StatusNormal, nil
}

// CompareAndSwap moves the status from one value to another, returning false
// without error when a concurrent invocation got there first. A missing row
// counts as normal for the comparison.
func (store *StatusStore) CompareAndSwap(ctx context.Context, from, to models.AlertStatus) (bool, error) {
	condition := "attribute_not_exists(#status) OR #status = :from"
	if from == models.StatusAlert {
		condition = "#status = :from"
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(store.TableName),
		Key: map[string]types.AttributeValue{
			"monitor_id": &types.AttributeValueMemberS{Value: monitorID},
		},
		ConditionExpression: aws.String(condition),
		UpdateExpression:    aws.String("SET #status = :to, updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from":       &types.AttributeValueMemberS{Value: string(from)},
			":to":         &types.AttributeValueMemberS{Value: string(to)},
			":updated_at": &types.AttributeValueMemberN{Value: fmt.Sprint(time.Now().Unix())},
		},
	}

	_, err := store.Client.UpdateItem(ctx, input)
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update alert status: %w", err)
	}

	return true, nil
}

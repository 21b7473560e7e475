package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/SilverCare-Graduation-Project/Backend/models"
	"github.com/SilverCare-Graduation-Project/Backend/pkg/db"
)

// DynamoAPI is the slice of the DynamoDB client the record store needs.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type RecordStore struct {
	Client    DynamoAPI
	TableName string
}

// NewRecordStore initializes the store using the shared db.Client.
func NewRecordStore() (*RecordStore, error) {
	tableName := os.Getenv("DYNAMODB_TABLE_NAME")
	if tableName == "" {
		return nil, fmt.Errorf("DYNAMODB_TABLE_NAME environment variable is not set")
	}

	if db.Client == nil {
		return nil, fmt.Errorf("dynamodb client is not initialized")
	}

	return &RecordStore{
		Client:    db.Client,
		TableName: tableName,
	}, nil
}

// Put persists one canonical record. The timestamp is the partition key and
// is not unique; a same-second write overwrites, which keeps ingest
// idempotent instead of corrupting the table.
func (store *RecordStore) Put(ctx context.Context, rec models.SensorRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal sensor record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(store.TableName),
		Item:      item,
	}

	if _, err := store.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to store record in dynamodb: %w", err)
	}

	return nil
}

// ScanSorted returns every stored reading rendered for the query response:
// rows with a non-numeric timestamp dropped, the rest sorted newest first.
func (store *RecordStore) ScanSorted(ctx context.Context) ([]map[string]interface{}, error) {
	var items []map[string]types.AttributeValue

	input := &dynamodb.ScanInput{
		TableName: aws.String(store.TableName),
	}

	for {
		output, err := store.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan records: %w", err)
		}

		items = append(items, output.Items...)

		if len(output.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return renderSorted(items), nil
}

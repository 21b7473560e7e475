package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

var (
	Client *dynamodb.Client
	cfg    aws.Config
	once   sync.Once // credentials are resolved only once per cold start
)

// NewDynamoDBClient initializes the shared connection to DynamoDB.
func NewDynamoDBClient(ctx context.Context) error {
	var initErr error

	once.Do(func() {
		loaded, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			initErr = fmt.Errorf("unable to load SDK config: %w", err)
			return
		}

		cfg = loaded
		Client = dynamodb.NewFromConfig(cfg)
	})

	if initErr != nil {
		return initErr
	}
	if Client == nil {
		return fmt.Errorf("dynamodb client is not initialized")
	}
	return nil
}

// AWSConfig exposes the resolved SDK config so other AWS clients (S3) can
// reuse the same credentials instead of resolving their own.
func AWSConfig() aws.Config {
	return cfg
}

package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/SilverCare-Graduation-Project/Backend/models"
	"github.com/SilverCare-Graduation-Project/Backend/pkg/db"
)

// S3API is the slice of the S3 client the uploader needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader archives each ingested reading as a JSON object under a per-day
// prefix, mirroring the daily log layout the dashboard expects.
type Uploader struct {
	Client S3API
	Bucket string
	Now    func() time.Time
}

// NewUploader returns nil without error when S3_BUCKET is unset; archiving
// is optional and the pipeline runs without it.
func NewUploader() (*Uploader, error) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil, nil
	}

	if db.Client == nil {
		return nil, fmt.Errorf("aws sdk config is not initialized")
	}

	return &Uploader{
		Client: s3.NewFromConfig(db.AWSConfig()),
		Bucket: bucket,
		Now:    time.Now,
	}, nil
}

// PutRecord uploads one reading. Object keys carry a uuid suffix so two
// readings in the same second never clobber each other in the archive.
func (u *Uploader) PutRecord(ctx context.Context, rec models.SensorRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record for archive: %w", err)
	}

	key := fmt.Sprintf("logs/%s/%s-%s.json",
		u.Now().UTC().Format("2006-01-02"), rec.Timestamp, uuid.NewString())

	input := &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}

	if _, err := u.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload record to s3: %w", err)
	}

	return nil
}

package archive

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/SilverCare-Graduation-Project/Backend/models"
)

type fakeS3 struct {
	keys   []string
	bodies []string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.keys = append(f.keys, *params.Key)
	buf := make([]byte, 4096)
	n, _ := params.Body.Read(buf)
	f.bodies = append(f.bodies, string(buf[:n]))
	return &s3.PutObjectOutput{}, nil
}

func TestPutRecordKeyLayout(t *testing.T) {
	fake := &fakeS3{}
	u := &Uploader{
		Client: fake,
		Bucket: "care-logs",
		Now:    func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) },
	}

	rec := models.SensorRecord{Timestamp: "1700000000", Temperature: 23.5, Humidity: 91}
	if err := u.PutRecord(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	if len(fake.keys) != 1 {
		t.Fatalf("got %d uploads, want 1", len(fake.keys))
	}
	if !strings.HasPrefix(fake.keys[0], "logs/2026-08-30/1700000000-") {
		t.Errorf("key = %s", fake.keys[0])
	}
	if !strings.HasSuffix(fake.keys[0], ".json") {
		t.Errorf("key = %s", fake.keys[0])
	}
	if !strings.Contains(fake.bodies[0], `"humidity":91`) {
		t.Errorf("body = %s", fake.bodies[0])
	}
}

func TestPutRecordDistinctKeysSameSecond(t *testing.T) {
	fake := &fakeS3{}
	u := &Uploader{Client: fake, Bucket: "care-logs", Now: time.Now}

	rec := models.SensorRecord{Timestamp: "1700000000"}
	_ = u.PutRecord(context.Background(), rec)
	_ = u.PutRecord(context.Background(), rec)

	if fake.keys[0] == fake.keys[1] {
		t.Errorf("same-second uploads share key %s", fake.keys[0])
	}
}

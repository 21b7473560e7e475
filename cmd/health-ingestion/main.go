package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/SilverCare-Graduation-Project/Backend/internal/alerts"
	"github.com/SilverCare-Graduation-Project/Backend/internal/archive"
	"github.com/SilverCare-Graduation-Project/Backend/internal/ingestion"
	"github.com/SilverCare-Graduation-Project/Backend/internal/notifier"
	"github.com/SilverCare-Graduation-Project/Backend/internal/telemetry"
	"github.com/SilverCare-Graduation-Project/Backend/pkg/db"
	"github.com/SilverCare-Graduation-Project/Backend/pkg/logger"
)

var (
	log         *slog.Logger
	recordStore *telemetry.RecordStore
	tracker     *alerts.Tracker
	mailer      *notifier.Mailer
	uploader    *archive.Uploader
)

func init() {

	log = logger.InitLogger()
	log.Info("Health Ingestion: Cold Start")

	if err := db.NewDynamoDBClient(context.Background()); err != nil {
		log.Error("Failed to initialize DynamoDB", "error", err)
		panic(err)
	}

	var err error

	recordStore, err = telemetry.NewRecordStore()
	if err != nil {
		panic(fmt.Errorf("failed to init record store: %w", err))
	}

	statusStore, err := alerts.NewStatusStore()
	if err != nil {
		panic(fmt.Errorf("failed to init alert status store: %w", err))
	}
	tracker = alerts.NewTracker(statusStore, log)

	mailer, err = notifier.NewMailer(log)
	if err != nil {
		panic(fmt.Errorf("failed to init mailer: %w", err))
	}

	uploader, err = archive.NewUploader()
	if err != nil {
		panic(fmt.Errorf("failed to init archive uploader: %w", err))
	}
	if uploader == nil {
		log.Info("S3_BUCKET not set, archiving disabled")
	}
}

func main() {

	service := &ingestion.Service{
		Logger:  log,
		Records: recordStore,
		Tracker: tracker,
		Mailer:  mailer,
	}
	if uploader != nil {
		service.Archive = uploader
	}

	lambda.Start(service.HandleRequest)
}

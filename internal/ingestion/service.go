package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/SilverCare-Graduation-Project/Backend/internal/anomaly"
	"github.com/SilverCare-Graduation-Project/Backend/internal/router"
	"github.com/SilverCare-Graduation-Project/Backend/models"
)

// Default alert wording, kept from the dashboard the caregivers already use.
const (
	defaultAlertSubject = "건강 이상 알림"
	defaultAlertReason  = "비정상 상태 감지"

	msgDirectStored = "IoT 데이터 저장 완료"
	msgAPIStored    = "데이터 저장 완료"
	msgEmailSent    = "이메일 전송됨"
)

// RecordStore persists canonical records and serves them back render-ready.
type RecordStore interface {
	Put(ctx context.Context, rec models.SensorRecord) error
	ScanSorted(ctx context.Context) ([]map[string]interface{}, error)
}

// BreachTracker runs one humidity reading through the debounced threshold
// policy.
type BreachTracker interface {
	Evaluate(ctx context.Context, humidity float64) (bool, models.AlertStatus, error)
}

// Notifier delivers one out-of-band alert.
type Notifier interface {
	Send(ctx context.Context, subject, reason string, snapshot map[string]interface{}) error
}

// Archiver copies a stored reading to cold storage.
type Archiver interface {
	PutRecord(ctx context.Context, rec models.SensorRecord) error
}

// Service holds dependencies for the pipeline logic.
type Service struct {
	Logger  *slog.Logger
	Records RecordStore
	Tracker BreachTracker
	Mailer  Notifier
	Archive Archiver // nil disables archiving
	Now     func() time.Time
}

// HandleRequest is the single entry point: classify the event, run the
// matching path, and always hand the caller a structured response.
func (s *Service) HandleRequest(ctx context.Context, event map[string]interface{}) (resp events.APIGatewayProxyResponse, err error) {
	// Panic Recovery Shield
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("CRITICAL: Lambda Panic Recovered", "panic", r)
			resp = errorResponse(500, "internal server error")
			err = nil
		}
	}()

	intent := router.Classify(event)
	s.Logger.Info("Event classified", "intent", intent.String())

	switch intent {
	case router.IntentIngestDirect:
		return s.handleIngest(ctx, event, msgDirectStored), nil

	case router.IntentIngestAPI:
		return s.handleIngest(ctx, event["body"], ""), nil

	case router.IntentAlert:
		return s.handleAlert(ctx, event["body"]), nil

	case router.IntentQuery:
		return s.handleQuery(ctx), nil

	default:
		return messageResponse(405, "Method not allowed"), nil
	}
}

// handleIngest normalizes, stamps, enriches, persists and then evaluates the
// threshold policy for one reading. plainBody switches the direct-path
// response shape, which predates the JSON envelope and is kept for the IoT
// rule that consumes it.
func (s *Service) handleIngest(ctx context.Context, raw interface{}, plainBody string) events.APIGatewayProxyResponse {
	rec, err := normalizeRecord(raw)
	if err != nil {
		s.Logger.Warn("Rejected ingest payload", "error", err)
		return errorResponse(400, err.Error())
	}

	rec.Timestamp = fmt.Sprint(s.now().Unix())

	reasons := anomaly.Classify(rec)
	rec.Abnormal = len(reasons) > 0
	rec.AbnormalReasons = reasons
	rec.Aircon, rec.Fan = anomaly.ApplianceStates(rec)

	if err := s.Records.Put(ctx, rec); err != nil {
		s.Logger.Error("Failed to save sensor record", "error", err)
		return errorResponse(500, err.Error())
	}

	s.Logger.Info("Sensor record stored",
		"timestamp", rec.Timestamp,
		"temperature", rec.Temperature,
		"humidity", rec.Humidity,
		"abnormal", rec.Abnormal,
	)

	s.evaluateBreach(ctx, rec)

	if s.Archive != nil {
		if err := s.Archive.PutRecord(ctx, rec); err != nil {
			s.Logger.Warn("Failed to archive record", "error", err)
		}
	}

	if plainBody != "" {
		return plainResponse(200, plainBody)
	}
	return messageResponse(200, msgAPIStored)
}

// evaluateBreach runs the humidity policy and notifies on the rising edge.
// The record is already persisted at this point, so policy or notifier
// trouble is logged and the ingest still acknowledges.
func (s *Service) evaluateBreach(ctx context.Context, rec models.SensorRecord) {
	transitioned, status, err := s.Tracker.Evaluate(ctx, rec.Humidity)
	if err != nil {
		s.Logger.Error("Threshold evaluation failed", "error", err)
		return
	}

	if !transitioned {
		return
	}

	s.Logger.Info("Humidity breach detected", "humidity", rec.Humidity, "status", string(status))

	snapshot := map[string]interface{}{
		"timestamp":    rec.Timestamp,
		"temperature":  rec.Temperature,
		"humidity":     rec.Humidity,
		"gas_detected": rec.GasDetected,
	}
	reason := fmt.Sprintf("습도 %.1f%% 임계치 초과", rec.Humidity)

	if err := s.Mailer.Send(ctx, defaultAlertSubject, reason, snapshot); err != nil {
		s.Logger.Error("Failed to send breach notification", "error", err)
	}
}

// handleAlert is the caller-triggered notification path. It never consults
// the tracker; the caller decided an alert is warranted.
func (s *Service) handleAlert(ctx context.Context, raw interface{}) events.APIGatewayProxyResponse {
	body, err := decodeBody(raw)
	if err != nil {
		s.Logger.Warn("Rejected alert payload", "error", err)
		return errorResponse(400, err.Error())
	}

	req := models.AlertRequest{
		Subject: defaultAlertSubject,
		Reason:  defaultAlertReason,
	}
	if subject, ok := body["subject"].(string); ok && subject != "" {
		req.Subject = subject
	}
	if reason, ok := body["reason"].(string); ok && reason != "" {
		req.Reason = reason
	}
	if snapshot, ok := body["sensorData"].(map[string]interface{}); ok {
		req.SensorData = snapshot
	}

	s.Logger.Info("Sending caller-triggered alert", "subject", req.Subject)

	if err := s.Mailer.Send(ctx, req.Subject, req.Reason, req.SensorData); err != nil {
		s.Logger.Error("Failed to send alert email", "error", err)
		return errorResponse(500, err.Error())
	}

	return messageResponse(200, msgEmailSent)
}

func (s *Service) handleQuery(ctx context.Context) events.APIGatewayProxyResponse {
	items, err := s.Records.ScanSorted(ctx)
	if err != nil {
		s.Logger.Error("Failed to query sensor records", "error", err)
		return errorResponse(500, err.Error())
	}

	if items == nil {
		items = []map[string]interface{}{}
	}

	body, err := json.Marshal(items)
	if err != nil {
		s.Logger.Error("Failed to serialize query result", "error", err)
		return errorResponse(500, "failed to serialize records")
	}

	return plainResponse(200, string(body))
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

package models

// SensorRecord is the canonical telemetry unit every inbound payload shape is
// normalized into before persistence. Timestamp is assigned at ingest time by
// the pipeline (integer seconds, stored as a string key) and is never taken
// from the caller.
type SensorRecord struct {
	Timestamp   string  `json:"timestamp" dynamodbav:"timestamp"`
	Temperature float64 `json:"temperature" dynamodbav:"temperature"`
	Humidity    float64 `json:"humidity" dynamodbav:"humidity"`
	GasDetected bool    `json:"gas_detected" dynamodbav:"gas_detected"`
	HeartRate   float64 `json:"heart_rate" dynamodbav:"heart_rate"`

	// Derived on ingest from the reading itself.
	Abnormal        bool     `json:"abnormal" dynamodbav:"abnormal"`
	AbnormalReasons []string `json:"abnormal_reasons,omitempty" dynamodbav:"abnormal_reasons,omitempty"`
	Aircon          string   `json:"aircon,omitempty" dynamodbav:"aircon,omitempty"`
	Fan             string   `json:"fan,omitempty" dynamodbav:"fan,omitempty"`
}

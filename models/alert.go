package models

// AlertStatus is the persisted debounce state of the humidity monitor.
type AlertStatus string

const (
	StatusNormal AlertStatus = "normal"
	StatusAlert  AlertStatus = "alert"
)

// AlertRequest is a caller-triggered notification, independent of the
// threshold pipeline. Subject and Reason get defaults when absent.
type AlertRequest struct {
	Subject    string                 `json:"subject"`
	Reason     string                 `json:"reason"`
	SensorData map[string]interface{} `json:"sensorData"`
}

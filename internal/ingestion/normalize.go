package ingestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SilverCare-Graduation-Project/Backend/models"
)

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrInvalidField     = errors.New("invalid field")
)

// normalizeRecord maps any accepted body shape into the canonical record.
// The timestamp stays empty here; the orchestrator stamps ingest time so a
// caller can never backdate a reading. Either a complete record comes back
// or an error does, nothing partial.
func normalizeRecord(raw interface{}) (models.SensorRecord, error) {
	body, err := decodeBody(raw)
	if err != nil {
		return models.SensorRecord{}, err
	}

	temperature, err := numericField(body, "temperature")
	if err != nil {
		return models.SensorRecord{}, err
	}
	humidity, err := numericField(body, "humidity")
	if err != nil {
		return models.SensorRecord{}, err
	}
	heartRate, err := numericField(body, "heart_rate")
	if err != nil {
		return models.SensorRecord{}, err
	}

	return models.SensorRecord{
		Temperature: temperature,
		Humidity:    humidity,
		HeartRate:   heartRate,
		GasDetected: truthyField(body, "gas_detected"),
	}, nil
}

// decodeBody accepts a structured object or its string encoding. Devices on
// the direct path deliver maps; the HTTP surface delivers JSON strings.
func decodeBody(raw interface{}) (map[string]interface{}, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case map[string]interface{}:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return map[string]interface{}{}, nil
		}
		var body map[string]interface{}
		if err := json.Unmarshal([]byte(v), &body); err != nil {
			return nil, fmt.Errorf("%w: body is not valid JSON", ErrMalformedPayload)
		}
		return body, nil
	default:
		return nil, fmt.Errorf("%w: unsupported body type %T", ErrMalformedPayload, raw)
	}
}

// numericField coerces a field from number or numeric string, defaulting to
// zero when absent.
func numericField(body map[string]interface{}, name string) (float64, error) {
	raw, ok := body[name]
	if !ok || raw == nil {
		return 0, nil
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not numeric", ErrInvalidField, name)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not numeric", ErrInvalidField, name)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s has type %T", ErrInvalidField, name, raw)
	}
}

// truthyField reads a flag the way lenient device firmware sends it: any
// non-zero, non-false value counts as set.
func truthyField(body map[string]interface{}, name string) bool {
	raw, ok := body[name]
	if !ok || raw == nil {
		return false
	}

	switch v := raw.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false":
			return false
		default:
			return true
		}
	default:
		return false
	}
}

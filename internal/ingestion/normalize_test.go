package ingestion

import (
	"errors"
	"testing"
)

func TestNormalizeRecordFromMap(t *testing.T) {
	rec, err := normalizeRecord(map[string]interface{}{
		"temperature":  23.5,
		"humidity":     91.0,
		"gas_detected": true,
		"heart_rate":   72.0,
	})
	if err != nil {
		t.Fatal(err)
	}

	if rec.Temperature != 23.5 || rec.Humidity != 91 || !rec.GasDetected || rec.HeartRate != 72 {
		t.Errorf("rec = %+v", rec)
	}
	if rec.Timestamp != "" {
		t.Error("normalize must not assign a timestamp")
	}
}

func TestNormalizeRecordFromJSONString(t *testing.T) {
	rec, err := normalizeRecord(`{"temperature":"21.5","humidity":"48","gas_detected":1}`)
	if err != nil {
		t.Fatal(err)
	}

	if rec.Temperature != 21.5 || rec.Humidity != 48 || !rec.GasDetected {
		t.Errorf("rec = %+v", rec)
	}
}

func TestNormalizeRecordDefaults(t *testing.T) {
	for _, raw := range []interface{}{nil, "", map[string]interface{}{}} {
		rec, err := normalizeRecord(raw)
		if err != nil {
			t.Fatalf("raw %v: %v", raw, err)
		}
		if rec.Temperature != 0 || rec.Humidity != 0 || rec.GasDetected || rec.HeartRate != 0 {
			t.Errorf("raw %v: rec = %+v", raw, rec)
		}
	}
}

func TestNormalizeRecordMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
	}{
		{"broken json string", "{not json"},
		{"array body", "[1,2,3]"},
		{"number body", 42.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeRecord(tt.raw)
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("err = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestNormalizeRecordInvalidField(t *testing.T) {
	_, err := normalizeRecord(map[string]interface{}{
		"temperature": "warm",
		"humidity":    50.0,
	})
	if !errors.Is(err, ErrInvalidField) {
		t.Errorf("err = %v, want ErrInvalidField", err)
	}
}

func TestTruthyField(t *testing.T) {
	tests := []struct {
		name string
		val  interface{}
		want bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"one", 1.0, true},
		{"zero", 0.0, false},
		{"string true", "true", true},
		{"string false", "false", false},
		{"string zero", "0", false},
		{"arbitrary string", "detected", true},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]interface{}{"gas_detected": tt.val}
			if got := truthyField(body, "gas_detected"); got != tt.want {
				t.Errorf("truthyField(%v) = %v, want %v", tt.val, got, tt.want)
			}
		})
	}
}

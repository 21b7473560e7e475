package anomaly

import "github.com/SilverCare-Graduation-Project/Backend/models"

// Safe operating ranges for an elderly-care room. Readings outside these are
// flagged so the frontend can explain what tripped the abnormal marker.
const (
	TempMin = 15.0
	TempMax = 30.0

	HumidityMin = 35.0
	HumidityMax = 65.0

	HeartRateMin = 50.0
	HeartRateMax = 90.0
)

// Comfort appliance trip points.
const (
	airconOnAbove = 27.0
	fanOnAbove    = 60.0
)

// Classify returns the reasons a reading is abnormal, empty when healthy.
// A zero heart rate means the wearable was absent, not a flatline.
func Classify(rec models.SensorRecord) []string {
	var reasons []string

	if rec.Temperature < TempMin || rec.Temperature > TempMax {
		reasons = append(reasons, "temperature")
	}
	if rec.Humidity < HumidityMin || rec.Humidity > HumidityMax {
		reasons = append(reasons, "humidity")
	}
	if rec.GasDetected {
		reasons = append(reasons, "gas")
	}
	if rec.HeartRate != 0 && (rec.HeartRate < HeartRateMin || rec.HeartRate > HeartRateMax) {
		reasons = append(reasons, "heart_rate")
	}

	return reasons
}

// ApplianceStates derives the aircon and fan switch positions from a reading.
func ApplianceStates(rec models.SensorRecord) (aircon, fan string) {
	aircon = "off"
	if rec.Temperature > airconOnAbove {
		aircon = "on"
	}

	fan = "off"
	if rec.Humidity > fanOnAbove {
		fan = "on"
	}

	return aircon, fan
}

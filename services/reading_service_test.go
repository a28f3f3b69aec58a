package services

import (
	"testing"
	"time"

	"github.com/Amadou-dot/infrasight-sub001/models"
)

func TestValidateReadingDefaults(t *testing.T) {
	r := models.Reading{
		DeviceID: "d1",
		Type:     models.ReadingTypeTemperature,
		Value:    21.5,
	}

	if err := validateReading(&r); err != nil {
		t.Fatalf("validateReading: %v", err)
	}
	if r.Timestamp.IsZero() {
		t.Fatal("expected timestamp defaulted to now")
	}
	if r.Source != models.ReadingSourceSensor {
		t.Fatalf("expected source defaulted to sensor, got %s", r.Source)
	}
}

func TestValidateReadingKeepsExplicitFields(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r := models.Reading{
		DeviceID:  "d1",
		Type:      models.ReadingTypeCO2,
		Value:     780,
		Timestamp: ts,
		Source:    models.ReadingSourceManual,
	}

	if err := validateReading(&r); err != nil {
		t.Fatalf("validateReading: %v", err)
	}
	if !r.Timestamp.Equal(ts) || r.Source != models.ReadingSourceManual {
		t.Fatalf("explicit fields must survive validation: %+v", r)
	}
}

func TestValidateReadingMissingDevice(t *testing.T) {
	r := models.Reading{Type: models.ReadingTypeTemperature, Value: 20}
	if err := validateReading(&r); err == nil {
		t.Fatal("expected error for missing device_id")
	}
}

func TestValidateReadingUnknownType(t *testing.T) {
	r := models.Reading{DeviceID: "d1", Type: "radiation", Value: 1}
	if err := validateReading(&r); err == nil {
		t.Fatal("expected error for unknown reading type")
	}
}

func TestValidateReadingAnomalyNeedsScore(t *testing.T) {
	r := models.Reading{
		DeviceID:  "d1",
		Type:      models.ReadingTypeTemperature,
		Value:     90,
		IsAnomaly: true,
	}
	if err := validateReading(&r); err == nil {
		t.Fatal("expected error when is_anomaly lacks a score")
	}

	score := 0.9
	r.AnomalyScore = &score
	if err := validateReading(&r); err != nil {
		t.Fatalf("validateReading: %v", err)
	}
}

func TestValidateReadingScoreBounds(t *testing.T) {
	bad := 1.2
	r := models.Reading{
		DeviceID:     "d1",
		Type:         models.ReadingTypeTemperature,
		Value:        90,
		AnomalyScore: &bad,
	}
	if err := validateReading(&r); err == nil {
		t.Fatal("expected error for anomaly_score above 1")
	}

	negative := -0.1
	r.AnomalyScore = nil
	r.ConfidenceScore = &negative
	if err := validateReading(&r); err == nil {
		t.Fatal("expected error for negative confidence_score")
	}
}

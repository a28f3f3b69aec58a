package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Amadou-dot/infrasight-sub001/models"
)

func newCorrelationService(gateway InterfaceTelemetryGateway) *CorrelationService {
	return &CorrelationService{
		Gateway: gateway,
		Now:     func() time.Time { return testNow },
	}
}

func tempReading(device string, ts time.Time, deviceTemp, ambientTemp float64) models.Reading {
	return models.Reading{
		DeviceID:    device,
		Type:        models.ReadingTypeTemperature,
		Timestamp:   ts,
		Value:       deviceTemp,
		AmbientTemp: &ambientTemp,
	}
}

func correlationFixture(points ...models.Reading) *fakeGateway {
	return &fakeGateway{
		devices:  []models.Device{{ID: "d1", Name: "sensor d1", Status: models.DeviceStatusActive}},
		readings: points,
	}
}

func TestGetTemperatureCorrelationDeviceFailure(t *testing.T) {
	base := testNow.Add(-3 * time.Hour)
	gateway := correlationFixture(
		tempReading("d1", base, 70, 22),
		tempReading("d1", base.Add(time.Hour), 78, 22.5),
		tempReading("d1", base.Add(2*time.Hour), 85, 23),
	)

	result, err := newCorrelationService(gateway).GetTemperatureCorrelation(CorrelationRequest{DeviceID: "d1"})
	if err != nil {
		t.Fatalf("GetTemperatureCorrelation: %v", err)
	}

	// Device runs hot while the room stays cool.
	if result.Diagnosis != models.DiagnosisDeviceFailure {
		t.Fatalf("expected device_failure, got %s", result.Diagnosis)
	}
	if len(result.ThresholdBreaches) != 2 {
		t.Fatalf("expected 2 breaches above 75, got %d", len(result.ThresholdBreaches))
	}
	if result.WindowHours != 24 {
		t.Fatalf("expected default window 24h, got %d", result.WindowHours)
	}
	if result.CorrelationScore == nil {
		t.Fatal("expected a correlation score")
	}
}

func TestGetTemperatureCorrelationEnvironmental(t *testing.T) {
	base := testNow.Add(-2 * time.Hour)
	gateway := correlationFixture(
		tempReading("d1", base, 76, 29),
		tempReading("d1", base.Add(time.Hour), 80, 31),
	)

	result, err := newCorrelationService(gateway).GetTemperatureCorrelation(CorrelationRequest{DeviceID: "d1"})
	if err != nil {
		t.Fatalf("GetTemperatureCorrelation: %v", err)
	}
	if result.Diagnosis != models.DiagnosisEnvironmental {
		t.Fatalf("expected environmental, got %s", result.Diagnosis)
	}
}

func TestGetTemperatureCorrelationNormal(t *testing.T) {
	base := testNow.Add(-2 * time.Hour)
	gateway := correlationFixture(
		tempReading("d1", base, 21, 20),
		tempReading("d1", base.Add(time.Hour), 22, 21),
	)

	result, err := newCorrelationService(gateway).GetTemperatureCorrelation(CorrelationRequest{DeviceID: "d1"})
	if err != nil {
		t.Fatalf("GetTemperatureCorrelation: %v", err)
	}
	if result.Diagnosis != models.DiagnosisNormal {
		t.Fatalf("expected normal, got %s", result.Diagnosis)
	}
	if len(result.ThresholdBreaches) != 0 {
		t.Fatalf("expected no breaches, got %d", len(result.ThresholdBreaches))
	}
}

func TestGetTemperatureCorrelationDiagnosisUsesLatestPoint(t *testing.T) {
	// Early breaches, but the latest pair is back to normal.
	base := testNow.Add(-3 * time.Hour)
	gateway := correlationFixture(
		tempReading("d1", base, 90, 22),
		tempReading("d1", base.Add(time.Hour), 85, 22),
		tempReading("d1", base.Add(2*time.Hour), 21, 21),
	)

	result, err := newCorrelationService(gateway).GetTemperatureCorrelation(CorrelationRequest{DeviceID: "d1"})
	if err != nil {
		t.Fatalf("GetTemperatureCorrelation: %v", err)
	}
	if result.Diagnosis != models.DiagnosisNormal {
		t.Fatalf("expected normal from latest point, got %s", result.Diagnosis)
	}
	// Breaches report history regardless of the diagnosis.
	if len(result.ThresholdBreaches) != 2 {
		t.Fatalf("expected 2 historical breaches, got %d", len(result.ThresholdBreaches))
	}
}

func TestGetTemperatureCorrelationInsufficientData(t *testing.T) {
	base := testNow.Add(-time.Hour)
	gateway := correlationFixture(tempReading("d1", base, 21, 20))

	result, err := newCorrelationService(gateway).GetTemperatureCorrelation(CorrelationRequest{DeviceID: "d1"})
	if err != nil {
		t.Fatalf("GetTemperatureCorrelation: %v", err)
	}
	if result.Diagnosis != models.DiagnosisInsufficientData {
		t.Fatalf("expected insufficient_data, got %s", result.Diagnosis)
	}
	if result.CorrelationScore != nil {
		t.Fatalf("expected null correlation score, got %v", *result.CorrelationScore)
	}
	if len(result.Series) != 0 {
		t.Fatalf("expected empty series, got %d points", len(result.Series))
	}
}

func TestGetTemperatureCorrelationMissingAmbient(t *testing.T) {
	// Device points without ambient context cannot form pairs.
	base := testNow.Add(-2 * time.Hour)
	gateway := correlationFixture(
		models.Reading{DeviceID: "d1", Type: models.ReadingTypeTemperature, Timestamp: base, Value: 21},
		models.Reading{DeviceID: "d1", Type: models.ReadingTypeTemperature, Timestamp: base.Add(time.Hour), Value: 22},
	)

	result, err := newCorrelationService(gateway).GetTemperatureCorrelation(CorrelationRequest{DeviceID: "d1"})
	if err != nil {
		t.Fatalf("GetTemperatureCorrelation: %v", err)
	}
	if result.Diagnosis != models.DiagnosisInsufficientData {
		t.Fatalf("expected insufficient_data without ambient, got %s", result.Diagnosis)
	}
}

func TestGetTemperatureCorrelationDeviceNotFound(t *testing.T) {
	gateway := &fakeGateway{}
	_, err := newCorrelationService(gateway).GetTemperatureCorrelation(CorrelationRequest{DeviceID: "missing"})
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestGetTemperatureCorrelationWindowExcludesOldReadings(t *testing.T) {
	gateway := correlationFixture(
		tempReading("d1", testNow.Add(-30*time.Hour), 90, 22),
		tempReading("d1", testNow.Add(-2*time.Hour), 21, 20),
		tempReading("d1", testNow.Add(-time.Hour), 22, 21),
	)

	result, err := newCorrelationService(gateway).GetTemperatureCorrelation(CorrelationRequest{DeviceID: "d1"})
	if err != nil {
		t.Fatalf("GetTemperatureCorrelation: %v", err)
	}
	if len(result.Series) != 2 {
		t.Fatalf("expected 2 points within the 24h window, got %d", len(result.Series))
	}
	if len(result.ThresholdBreaches) != 0 {
		t.Fatalf("the out-of-window breach must not be counted")
	}
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	points := []models.AlignedPoint{
		{DeviceTemp: 20, AmbientTemp: 10},
		{DeviceTemp: 22, AmbientTemp: 11},
		{DeviceTemp: 24, AmbientTemp: 12},
	}

	r := pearson(points)
	if r == nil {
		t.Fatal("expected a coefficient")
	}
	if math.Abs(*r-1) > 1e-9 {
		t.Fatalf("expected r=1 for a linear relation, got %v", *r)
	}
}

func TestPearsonPerfectInverseCorrelation(t *testing.T) {
	points := []models.AlignedPoint{
		{DeviceTemp: 20, AmbientTemp: 12},
		{DeviceTemp: 22, AmbientTemp: 11},
		{DeviceTemp: 24, AmbientTemp: 10},
	}

	r := pearson(points)
	if r == nil {
		t.Fatal("expected a coefficient")
	}
	if math.Abs(*r+1) > 1e-9 {
		t.Fatalf("expected r=-1, got %v", *r)
	}
}

func TestPearsonZeroVariance(t *testing.T) {
	points := []models.AlignedPoint{
		{DeviceTemp: 20, AmbientTemp: 10},
		{DeviceTemp: 20, AmbientTemp: 11},
		{DeviceTemp: 20, AmbientTemp: 12},
	}

	if r := pearson(points); r != nil {
		t.Fatalf("expected nil for a flat series, got %v", *r)
	}
}

func TestAlignSeriesNearestNeighbor(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	device := []seriesPoint{
		{ts: base, value: 20},
		{ts: base.Add(10 * time.Minute), value: 21},
	}
	ambient := []seriesPoint{
		{ts: base.Add(time.Minute), value: 18},
		{ts: base.Add(9 * time.Minute), value: 19},
		{ts: base.Add(20 * time.Minute), value: 25},
	}

	aligned := alignSeries(device, ambient)
	if len(aligned) != 2 {
		t.Fatalf("expected one pair per device point, got %d", len(aligned))
	}
	if aligned[0].AmbientTemp != 18 {
		t.Fatalf("first device point should pair with the 1-minute neighbor, got %v", aligned[0].AmbientTemp)
	}
	if aligned[1].AmbientTemp != 19 {
		t.Fatalf("second device point should pair with the 9-minute neighbor, got %v", aligned[1].AmbientTemp)
	}
}

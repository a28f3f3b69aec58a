package services

import (
	"math"
	"time"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/models"
)

// CorrelationRequest parameterizes a temperature diagnostic call.
// Thresholds are in the device's own unit.
type CorrelationRequest struct {
	DeviceID             string
	Hours                int     // lookback window, default 24
	DeviceTempThreshold  float64 // default 75
	AmbientTempThreshold float64 // default 28
}

// InterfaceCorrelationService defines the temperature diagnostic interface
type InterfaceCorrelationService interface {
	GetTemperatureCorrelation(req CorrelationRequest) (*models.TemperatureCorrelationResult, error)
}

// CorrelationService compares a device's self-reported temperature series
// against the ambient series for the same window and classifies the
// divergence pattern
type CorrelationService struct {
	Gateway InterfaceTelemetryGateway
	Config  *config.Config
	Now     func() time.Time
}

// NewCorrelationService creates a new correlation service
func NewCorrelationService(gateway InterfaceTelemetryGateway, cfg *config.Config) InterfaceCorrelationService {
	return &CorrelationService{
		Gateway: gateway,
		Config:  cfg,
		Now:     time.Now,
	}
}

// seriesPoint is one raw point of either series
type seriesPoint struct {
	ts    time.Time
	value float64
}

// GetTemperatureCorrelation runs the diagnostic for one device. With
// fewer than 2 aligned pairs the result carries the insufficient_data
// diagnosis and a null correlation score; that is a valid result, not
// an error.
func (s *CorrelationService) GetTemperatureCorrelation(req CorrelationRequest) (*models.TemperatureCorrelationResult, error) {
	if req.Hours <= 0 {
		req.Hours = 24
	}
	if req.DeviceTempThreshold == 0 {
		req.DeviceTempThreshold = 75
	}
	if req.AmbientTempThreshold == 0 {
		req.AmbientTempThreshold = 28
	}

	if _, err := s.Gateway.GetDeviceByID(req.DeviceID); err != nil {
		return nil, err
	}

	now := s.Now()
	start := now.Add(-time.Duration(req.Hours) * time.Hour)
	readings, err := s.Gateway.FindReadings(ReadingFilter{
		DeviceIDs: []string{req.DeviceID},
		Types:     []string{string(models.ReadingTypeTemperature)},
		StartTime: &start,
		EndTime:   &now,
	}, &ReadingSort{Field: "timestamp"}, 0)
	if err != nil {
		return nil, err
	}

	var deviceSeries, ambientSeries []seriesPoint
	for _, r := range readings {
		deviceSeries = append(deviceSeries, seriesPoint{ts: r.Timestamp, value: r.Value})
		if r.AmbientTemp != nil {
			ambientSeries = append(ambientSeries, seriesPoint{ts: r.Timestamp, value: *r.AmbientTemp})
		}
	}

	result := &models.TemperatureCorrelationResult{
		DeviceID:          req.DeviceID,
		Series:            []models.AlignedPoint{},
		ThresholdBreaches: []models.ThresholdBreach{},
		WindowHours:       req.Hours,
	}

	if len(deviceSeries) < 2 || len(ambientSeries) < 2 {
		result.Diagnosis = models.DiagnosisInsufficientData
		return result, nil
	}

	aligned := alignSeries(deviceSeries, ambientSeries)
	if len(aligned) < 2 {
		result.Diagnosis = models.DiagnosisInsufficientData
		return result, nil
	}
	result.Series = aligned

	result.CorrelationScore = pearson(aligned)

	// Every breach is reported regardless of the current diagnosis.
	for _, p := range aligned {
		if p.DeviceTemp > req.DeviceTempThreshold {
			result.ThresholdBreaches = append(result.ThresholdBreaches, models.ThresholdBreach{
				Timestamp:   p.Timestamp,
				DeviceTemp:  p.DeviceTemp,
				AmbientTemp: p.AmbientTemp,
				Threshold:   req.DeviceTempThreshold,
			})
		}
	}

	latest := aligned[len(aligned)-1]
	deviceHot := latest.DeviceTemp > req.DeviceTempThreshold
	ambientHot := latest.AmbientTemp > req.AmbientTempThreshold
	switch {
	case deviceHot && !ambientHot:
		result.Diagnosis = models.DiagnosisDeviceFailure
	case deviceHot && ambientHot:
		result.Diagnosis = models.DiagnosisEnvironmental
	default:
		result.Diagnosis = models.DiagnosisNormal
	}

	return result, nil
}

// alignSeries pairs every device point with the nearest ambient point by
// absolute time distance. Both inputs must be sorted by timestamp.
func alignSeries(device, ambient []seriesPoint) []models.AlignedPoint {
	aligned := make([]models.AlignedPoint, 0, len(device))

	j := 0
	for _, dp := range device {
		// Advance while the next ambient point is closer.
		for j+1 < len(ambient) && absDuration(ambient[j+1].ts.Sub(dp.ts)) <= absDuration(ambient[j].ts.Sub(dp.ts)) {
			j++
		}
		aligned = append(aligned, models.AlignedPoint{
			Timestamp:   dp.ts,
			DeviceTemp:  dp.value,
			AmbientTemp: ambient[j].value,
		})
	}

	return aligned
}

// pearson computes the Pearson correlation coefficient over the aligned
// pairs. A zero-variance series has no defined correlation; nil is
// returned and serialized as null.
func pearson(points []models.AlignedPoint) *float64 {
	n := float64(len(points))
	if n < 2 {
		return nil
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for _, p := range points {
		sumX += p.DeviceTemp
		sumY += p.AmbientTemp
		sumXY += p.DeviceTemp * p.AmbientTemp
		sumX2 += p.DeviceTemp * p.DeviceTemp
		sumY2 += p.AmbientTemp * p.AmbientTemp
	}

	denom := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denom == 0 {
		return nil
	}

	r := (n*sumXY - sumX*sumY) / denom
	return &r
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

package models

import (
	"time"
)

// ReadingType enumerates the supported sensor kinds
type ReadingType string

const (
	ReadingTypeTemperature ReadingType = "temperature"
	ReadingTypeHumidity    ReadingType = "humidity"
	ReadingTypeCO2         ReadingType = "co2"
	ReadingTypePressure    ReadingType = "pressure"
	ReadingTypeLight       ReadingType = "light"
	ReadingTypeMotion      ReadingType = "motion"
	ReadingTypeOccupancy   ReadingType = "occupancy"
	ReadingTypeAirQuality  ReadingType = "air_quality"
	ReadingTypeNoise       ReadingType = "noise"
	ReadingTypeVibration   ReadingType = "vibration"
	ReadingTypeVoltage     ReadingType = "voltage"
	ReadingTypeCurrent     ReadingType = "current"
	ReadingTypePower       ReadingType = "power"
	ReadingTypeEnergy      ReadingType = "energy"
	ReadingTypeWaterFlow   ReadingType = "water_flow"
)

// ReadingTypes lists every supported sensor kind
var ReadingTypes = []ReadingType{
	ReadingTypeTemperature, ReadingTypeHumidity, ReadingTypeCO2,
	ReadingTypePressure, ReadingTypeLight, ReadingTypeMotion,
	ReadingTypeOccupancy, ReadingTypeAirQuality, ReadingTypeNoise,
	ReadingTypeVibration, ReadingTypeVoltage, ReadingTypeCurrent,
	ReadingTypePower, ReadingTypeEnergy, ReadingTypeWaterFlow,
}

// ValidReadingType reports whether t is one of the known sensor kinds
func ValidReadingType(t string) bool {
	for _, rt := range ReadingTypes {
		if ReadingType(t) == rt {
			return true
		}
	}
	return false
}

// ReadingSource identifies how a reading was produced
type ReadingSource string

const (
	ReadingSourceSensor      ReadingSource = "sensor"
	ReadingSourceSimulation  ReadingSource = "simulation"
	ReadingSourceManual      ReadingSource = "manual"
	ReadingSourceCalibration ReadingSource = "calibration"
)

// Reading represents one telemetry sample. Readings are append-only;
// nothing in this service ever mutates a stored reading.
type Reading struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Metadata
	DeviceID string        `gorm:"type:varchar(36);not null;index:idx_readings_device_ts" json:"device_id"`
	Type     ReadingType   `gorm:"type:varchar(30);not null;index" json:"type"`
	Unit     string        `gorm:"type:varchar(20)" json:"unit"`
	Source   ReadingSource `gorm:"type:varchar(20);default:'sensor'" json:"source"`

	Timestamp time.Time `gorm:"not null;index:idx_readings_device_ts" json:"timestamp"`
	Value     float64   `gorm:"not null" json:"value"`

	// Quality. IsAnomaly implies AnomalyScore is set; both scores are
	// kept within [0,1] at the write boundary.
	IsValid         bool     `gorm:"default:true" json:"is_valid"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	IsAnomaly       bool     `gorm:"default:false;index" json:"is_anomaly"`
	AnomalyScore    *float64 `json:"anomaly_score,omitempty"`
	ValidationFlags string   `gorm:"type:varchar(255)" json:"validation_flags,omitempty"` // comma separated

	// Context
	BatteryLevel   *float64 `json:"battery_level,omitempty"`
	SignalStrength *float64 `json:"signal_strength,omitempty"`
	AmbientTemp    *float64 `json:"ambient_temp,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

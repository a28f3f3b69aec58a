package models

import (
	"time"
)

// DeviceStatus represents the operational status of a sensor device
type DeviceStatus string

const (
	DeviceStatusActive         DeviceStatus = "active"
	DeviceStatusMaintenance    DeviceStatus = "maintenance"
	DeviceStatusOffline        DeviceStatus = "offline"
	DeviceStatusError          DeviceStatus = "error"
	DeviceStatusDecommissioned DeviceStatus = "decommissioned"
)

// ValidDeviceStatus reports whether s is one of the known status values
func ValidDeviceStatus(s string) bool {
	switch DeviceStatus(s) {
	case DeviceStatusActive, DeviceStatusMaintenance, DeviceStatusOffline,
		DeviceStatusError, DeviceStatusDecommissioned:
		return true
	}
	return false
}

// Device represents a building sensor device. The ID is an opaque string
// used as the telemetry key; readings reference it via Reading.DeviceID.
type Device struct {
	ID           string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string       `gorm:"type:varchar(100);not null" json:"name"`
	SerialNumber string       `gorm:"type:varchar(50);unique;not null" json:"serial_number"`
	Type         string       `gorm:"type:varchar(50)" json:"type"`
	Status       DeviceStatus `gorm:"type:varchar(20);default:'offline';index" json:"status"`

	// Health
	UptimePercentage float64    `gorm:"default:100" json:"uptime_percentage"`
	ErrorCount       int        `gorm:"default:0" json:"error_count"`
	LastSeen         *time.Time `json:"last_seen,omitempty"`
	BatteryLevel     *float64   `json:"battery_level,omitempty"`
	SignalStrength   *float64   `json:"signal_strength,omitempty"`

	// Location
	BuildingID string `gorm:"type:varchar(50);index" json:"building_id"`
	Floor      int    `json:"floor"`
	RoomName   string `gorm:"type:varchar(100)" json:"room_name"`
	Zone       string `gorm:"type:varchar(50)" json:"zone,omitempty"`

	// Metadata
	Department      string     `gorm:"type:varchar(100);index" json:"department"`
	NextMaintenance *time.Time `json:"next_maintenance,omitempty"`
	Tags            string     `gorm:"type:varchar(255)" json:"tags,omitempty"` // comma separated

	// Audit. DeletedAt set means soft-deleted: hidden from live analytics,
	// always visible to the audit reconstructor.
	CreatedAt time.Time  `json:"created_at"`
	CreatedBy string     `gorm:"type:varchar(100)" json:"created_by"`
	UpdatedAt time.Time  `json:"updated_at"`
	UpdatedBy string     `gorm:"type:varchar(100)" json:"updated_by"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	DeletedBy string     `gorm:"type:varchar(100)" json:"deleted_by,omitempty"`
}

// IsDeleted reports whether the device has been soft-deleted
func (d *Device) IsDeleted() bool {
	return d.DeletedAt != nil
}

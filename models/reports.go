package models

import (
	"time"
)

// Derived report types. These are produced by the analytics services and
// never stored; every field carries the wire name the dashboard expects.

// UptimeStats summarizes fleet uptime and error totals
type UptimeStats struct {
	Avg         float64 `json:"avg"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	TotalErrors int     `json:"total_errors"`
}

// DeviceAlert is one entry in a health-report alert category
type DeviceAlert struct {
	DeviceID   string  `json:"device_id"`
	Name       string  `json:"name"`
	BuildingID string  `json:"building_id"`
	RoomName   string  `json:"room_name"`
	Detail     string  `json:"detail,omitempty"`
	Value      float64 `json:"value,omitempty"`
}

// PredictiveIssueType classifies a predictive-maintenance item
type PredictiveIssueType string

const (
	IssueBatteryCritical    PredictiveIssueType = "battery_critical"
	IssueMaintenanceOverdue PredictiveIssueType = "maintenance_overdue"
	IssueMaintenanceDue     PredictiveIssueType = "maintenance_due"
	IssueHighErrorCount     PredictiveIssueType = "high_error_count"
)

// PredictiveMaintenanceItem flags an impending or active maintenance
// need for one device. DaysUntil is only meaningful for the two
// maintenance-window issue types and is negative when overdue.
type PredictiveMaintenanceItem struct {
	DeviceID  string              `json:"device_id"`
	IssueType PredictiveIssueType `json:"issue_type"`
	Severity  string              `json:"severity"`
	DaysUntil *int                `json:"days_until,omitempty"`
}

// HealthAlerts groups the four alert categories of a health report
type HealthAlerts struct {
	Offline        []DeviceAlert `json:"offline"`
	LowBattery     []DeviceAlert `json:"low_battery"`
	Error          []DeviceAlert `json:"error"`
	MaintenanceDue []DeviceAlert `json:"maintenance_due"`
}

// HealthReport is the fleet health summary
type HealthReport struct {
	TotalDevices    int                         `json:"total_devices"`
	ActiveDevices   int                         `json:"active_devices"`
	HealthScore     int                         `json:"health_score"`
	StatusBreakdown map[DeviceStatus]int        `json:"status_breakdown"`
	UptimeStats     UptimeStats                 `json:"uptime_stats"`
	Alerts          HealthAlerts                `json:"alerts"`
	Predictive      []PredictiveMaintenanceItem `json:"predictive_maintenance"`
	GeneratedAt     time.Time                   `json:"generated_at"`
}

// DeviceAnomalyStats is the per-device breakdown row of an anomaly report
type DeviceAnomalyStats struct {
	Count           int       `json:"count"`
	AvgScore        float64   `json:"avg_score"`
	LatestTimestamp time.Time `json:"latest_timestamp"`
}

// TypeAnomalyStats is the per-type breakdown row of an anomaly report
type TypeAnomalyStats struct {
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
}

// TrendPoint is one time bucket of the anomaly trend series
type TrendPoint struct {
	Bucket   string  `json:"bucket"`
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
	MaxScore float64 `json:"max_score"`
}

// AnomalyFilters echoes the normalized filters an anomaly query ran with.
// Multi-valued filters are arrays; unset scalar filters stay null.
type AnomalyFilters struct {
	DeviceIDs []string   `json:"device_ids,omitempty"`
	Types     []string   `json:"types,omitempty"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	MinScore  *float64   `json:"min_score"`
	Bucket    string     `json:"bucket,omitempty"`
}

// AnomalyReport is the anomaly analytics result
type AnomalyReport struct {
	Anomalies      []Reading                        `json:"anomalies"`
	TotalCount     int                              `json:"total_count"`
	ByDevice       map[string]DeviceAnomalyStats    `json:"by_device"`
	ByType         map[ReadingType]TypeAnomalyStats `json:"by_type"`
	Trends         []TrendPoint                     `json:"trends,omitempty"`
	FiltersApplied AnomalyFilters                   `json:"filters_applied"`
	Pagination     PaginationResult                 `json:"pagination"`
}

// TemperatureDiagnosis classifies a device-vs-ambient divergence pattern
type TemperatureDiagnosis string

const (
	DiagnosisDeviceFailure    TemperatureDiagnosis = "device_failure"
	DiagnosisEnvironmental    TemperatureDiagnosis = "environmental"
	DiagnosisNormal           TemperatureDiagnosis = "normal"
	DiagnosisInsufficientData TemperatureDiagnosis = "insufficient_data"
)

// AlignedPoint is one device/ambient temperature pair
type AlignedPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	DeviceTemp  float64   `json:"device_temp"`
	AmbientTemp float64   `json:"ambient_temp"`
}

// ThresholdBreach marks an aligned point where the device temperature
// exceeded its threshold
type ThresholdBreach struct {
	Timestamp   time.Time `json:"timestamp"`
	DeviceTemp  float64   `json:"device_temp"`
	AmbientTemp float64   `json:"ambient_temp"`
	Threshold   float64   `json:"threshold"`
}

// TemperatureCorrelationResult is the temperature diagnostic report
type TemperatureCorrelationResult struct {
	DeviceID          string               `json:"device_id"`
	Series            []AlignedPoint       `json:"series"`
	CorrelationScore  *float64             `json:"correlation_score"`
	ThresholdBreaches []ThresholdBreach    `json:"threshold_breaches"`
	Diagnosis         TemperatureDiagnosis `json:"diagnosis"`
	WindowHours       int                  `json:"window_hours"`
}

// AuditAction identifies an audit event kind
type AuditAction string

const (
	AuditActionCreated AuditAction = "created"
	AuditActionUpdated AuditAction = "updated"
	AuditActionDeleted AuditAction = "deleted"
)

// AuditEvent is one reconstructed history entry for a device
type AuditEvent struct {
	DeviceID  string            `json:"device_id"`
	Action    AuditAction       `json:"action"`
	Timestamp time.Time         `json:"timestamp"`
	User      string            `json:"user"`
	Changes   map[string]string `json:"changes,omitempty"`
}

// AuditFeed is a page of audit events plus pagination metadata
type AuditFeed struct {
	Events     []AuditEvent     `json:"events"`
	Pagination PaginationResult `json:"pagination"`
}

// DashboardSummary is the combined landing-page snapshot
type DashboardSummary struct {
	Health          *HealthReport `json:"health"`
	RecentAnomalies int           `json:"recent_anomalies"`
	GeneratedAt     time.Time     `json:"generated_at"`
}

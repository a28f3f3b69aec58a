package services

import (
	"fmt"
	"math"
	"time"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/models"
)

// HealthRequest carries the fleet filter and thresholds for a health report
type HealthRequest struct {
	BuildingID              string
	Floor                   *int
	Department              string
	OfflineThresholdMinutes int     // default 5
	BatteryWarningThreshold float64 // default 20
}

// InterfaceHealthService defines the health analytics interface
type InterfaceHealthService interface {
	GetFleetHealth(req HealthRequest) (*models.HealthReport, error)
}

// HealthService derives fleet health scores, alert categories and
// predictive-maintenance items from the device set
type HealthService struct {
	Gateway InterfaceTelemetryGateway
	Config  *config.Config
	Now     func() time.Time
}

// NewHealthService creates a new health service
func NewHealthService(gateway InterfaceTelemetryGateway, cfg *config.Config) InterfaceHealthService {
	return &HealthService{
		Gateway: gateway,
		Config:  cfg,
		Now:     time.Now,
	}
}

// Predictive-maintenance window constants. The 3-day predictive window is
// deliberately narrower than the 7-day fleet alert window; they feed
// different reports.
const (
	batteryCriticalLevel    = 15.0
	maintenanceDueDays      = 3
	maintenanceAlertDays    = 7
	highErrorCountThreshold = 10
)

// predictiveRule is one predicate in the ordered classification list.
// Rules are evaluated top-down, first match wins.
type predictiveRule struct {
	issueType models.PredictiveIssueType
	matches   func(d *models.Device, now time.Time) bool
	daysUntil func(d *models.Device, now time.Time) *int
}

var predictiveRules = []predictiveRule{
	{
		issueType: models.IssueBatteryCritical,
		matches: func(d *models.Device, now time.Time) bool {
			return d.BatteryLevel != nil && *d.BatteryLevel < batteryCriticalLevel
		},
	},
	{
		issueType: models.IssueMaintenanceOverdue,
		matches: func(d *models.Device, now time.Time) bool {
			return d.NextMaintenance != nil && d.NextMaintenance.Before(now)
		},
		daysUntil: daysUntilMaintenance,
	},
	{
		issueType: models.IssueMaintenanceDue,
		matches: func(d *models.Device, now time.Time) bool {
			if d.NextMaintenance == nil {
				return false
			}
			diff := d.NextMaintenance.Sub(now)
			return diff >= 0 && diff <= maintenanceDueDays*24*time.Hour
		},
		daysUntil: daysUntilMaintenance,
	},
	{
		issueType: models.IssueHighErrorCount,
		matches: func(d *models.Device, now time.Time) bool {
			return d.ErrorCount > highErrorCountThreshold
		},
	},
}

// daysUntilMaintenance floors the remaining duration in whole days, so
// overdue maintenance always reports a strictly negative count
func daysUntilMaintenance(d *models.Device, now time.Time) *int {
	days := int(math.Floor(d.NextMaintenance.Sub(now).Hours() / 24))
	return &days
}

// GetFleetHealth computes the health report for the filtered fleet.
// An empty fleet is vacuously healthy: score 100, uptime stats 100/100/100.
func (s *HealthService) GetFleetHealth(req HealthRequest) (*models.HealthReport, error) {
	if req.OfflineThresholdMinutes <= 0 {
		req.OfflineThresholdMinutes = 5
	}
	if req.BatteryWarningThreshold <= 0 {
		req.BatteryWarningThreshold = 20
	}

	devices, err := s.Gateway.FindDevices(DeviceFilter{
		BuildingID: req.BuildingID,
		Floor:      req.Floor,
		Department: req.Department,
	})
	if err != nil {
		return nil, err
	}

	now := s.Now()
	report := &models.HealthReport{
		TotalDevices:    len(devices),
		StatusBreakdown: make(map[models.DeviceStatus]int),
		Alerts: models.HealthAlerts{
			Offline:        []models.DeviceAlert{},
			LowBattery:     []models.DeviceAlert{},
			Error:          []models.DeviceAlert{},
			MaintenanceDue: []models.DeviceAlert{},
		},
		Predictive:  []models.PredictiveMaintenanceItem{},
		GeneratedAt: now,
	}

	if len(devices) == 0 {
		report.HealthScore = 100
		report.UptimeStats = models.UptimeStats{Avg: 100, Min: 100, Max: 100, TotalErrors: 0}
		return report, nil
	}

	uptimeSum := 0.0
	uptimeMin := devices[0].UptimePercentage
	uptimeMax := devices[0].UptimePercentage
	totalErrors := 0

	offlineAfter := time.Duration(req.OfflineThresholdMinutes) * time.Minute

	for i := range devices {
		d := &devices[i]

		if d.Status == models.DeviceStatusActive {
			report.ActiveDevices++
		}
		report.StatusBreakdown[d.Status]++

		uptimeSum += d.UptimePercentage
		if d.UptimePercentage < uptimeMin {
			uptimeMin = d.UptimePercentage
		}
		if d.UptimePercentage > uptimeMax {
			uptimeMax = d.UptimePercentage
		}
		totalErrors += d.ErrorCount

		// Alert categories are independent; one device may appear in several.
		if d.LastSeen != nil && now.Sub(*d.LastSeen) > offlineAfter {
			report.Alerts.Offline = append(report.Alerts.Offline, deviceAlert(d,
				fmt.Sprintf("last seen %s", d.LastSeen.Format(time.RFC3339)), 0))
		}
		if d.BatteryLevel != nil && *d.BatteryLevel < req.BatteryWarningThreshold {
			report.Alerts.LowBattery = append(report.Alerts.LowBattery, deviceAlert(d, "low battery", *d.BatteryLevel))
		}
		if d.Status == models.DeviceStatusError {
			report.Alerts.Error = append(report.Alerts.Error, deviceAlert(d, "device in error state", float64(d.ErrorCount)))
		}
		if d.NextMaintenance != nil {
			diff := d.NextMaintenance.Sub(now)
			if diff >= 0 && diff <= maintenanceAlertDays*24*time.Hour {
				report.Alerts.MaintenanceDue = append(report.Alerts.MaintenanceDue, deviceAlert(d,
					fmt.Sprintf("maintenance due %s", d.NextMaintenance.Format("2006-01-02")), 0))
			}
		}

		if item := classifyPredictive(d, now); item != nil {
			report.Predictive = append(report.Predictive, *item)
		}
	}

	report.HealthScore = int(math.Round(float64(report.ActiveDevices) / float64(report.TotalDevices) * 100))
	report.UptimeStats = models.UptimeStats{
		Avg:         uptimeSum / float64(len(devices)),
		Min:         uptimeMin,
		Max:         uptimeMax,
		TotalErrors: totalErrors,
	}

	return report, nil
}

// classifyPredictive runs the ordered rule list; a device reports at most
// one issue, its most actionable
func classifyPredictive(d *models.Device, now time.Time) *models.PredictiveMaintenanceItem {
	for _, rule := range predictiveRules {
		if !rule.matches(d, now) {
			continue
		}
		item := &models.PredictiveMaintenanceItem{
			DeviceID:  d.ID,
			IssueType: rule.issueType,
			Severity:  "critical",
		}
		if rule.daysUntil != nil {
			item.DaysUntil = rule.daysUntil(d, now)
		}
		return item
	}
	return nil
}

func deviceAlert(d *models.Device, detail string, value float64) models.DeviceAlert {
	return models.DeviceAlert{
		DeviceID:   d.ID,
		Name:       d.Name,
		BuildingID: d.BuildingID,
		RoomName:   d.RoomName,
		Detail:     detail,
		Value:      value,
	}
}

package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/models"
)

// updateEpsilon guards against create-time default stamping: an
// updated_at within this distance of created_at is not a real update.
const updateEpsilon = time.Millisecond

// Upper bound on devices materialized for one global feed call
const auditDeviceCap = 5000

// AuditQuery filters a reconstructed history. Date bounds are inclusive.
type AuditQuery struct {
	Action    string // created | updated | deleted, "" for all
	User      string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// InterfaceAuditService defines the audit reconstruction interface
type InterfaceAuditService interface {
	GetDeviceHistory(deviceID string, q AuditQuery) (*models.AuditFeed, error)
	GetGlobalFeed(q AuditQuery) (*models.AuditFeed, error)
}

// AuditService reconstructs per-device event histories from the audit
// timestamps carried on the device record. There is no stored event log;
// this is a derived view.
type AuditService struct {
	Gateway InterfaceTelemetryGateway
	Config  *config.Config
}

// NewAuditService creates a new audit service
func NewAuditService(gateway InterfaceTelemetryGateway, cfg *config.Config) InterfaceAuditService {
	return &AuditService{
		Gateway: gateway,
		Config:  cfg,
	}
}

// GetDeviceHistory reconstructs the ordered history of one device.
// The id format is a precondition, checked before any lookup.
func (s *AuditService) GetDeviceHistory(deviceID string, q AuditQuery) (*models.AuditFeed, error) {
	if _, err := uuid.Parse(deviceID); err != nil {
		return nil, ErrInvalidDeviceID
	}

	device, err := s.Gateway.GetDeviceByID(deviceID)
	if err != nil {
		return nil, err
	}

	events := reconstructEvents(device)
	events = filterEvents(events, q)
	sortEventsDescending(events)

	return paginateEvents(events, q), nil
}

// GetGlobalFeed merges the reconstructed histories of every device in
// scope, soft-deleted included, into one descending stream
func (s *AuditService) GetGlobalFeed(q AuditQuery) (*models.AuditFeed, error) {
	devices, err := s.Gateway.FindDevices(DeviceFilter{IncludeDeleted: true})
	if err != nil {
		return nil, err
	}
	if len(devices) > auditDeviceCap {
		devices = devices[:auditDeviceCap]
	}

	var events []models.AuditEvent
	for i := range devices {
		events = append(events, reconstructEvents(&devices[i])...)
	}

	events = filterEvents(events, q)
	sortEventsDescending(events)

	return paginateEvents(events, q), nil
}

// reconstructEvents derives the applicable events from the three audit
// timestamps: created always, updated only when updated_at trails
// created_at by more than the epsilon, deleted when the marker is set
func reconstructEvents(d *models.Device) []models.AuditEvent {
	events := []models.AuditEvent{
		{
			DeviceID:  d.ID,
			Action:    models.AuditActionCreated,
			Timestamp: d.CreatedAt,
			User:      d.CreatedBy,
		},
	}

	if d.UpdatedAt.Sub(d.CreatedAt) > updateEpsilon {
		events = append(events, models.AuditEvent{
			DeviceID:  d.ID,
			Action:    models.AuditActionUpdated,
			Timestamp: d.UpdatedAt,
			User:      d.UpdatedBy,
		})
	}

	if d.DeletedAt != nil {
		events = append(events, models.AuditEvent{
			DeviceID:  d.ID,
			Action:    models.AuditActionDeleted,
			Timestamp: *d.DeletedAt,
			User:      d.DeletedBy,
		})
	}

	return events
}

func filterEvents(events []models.AuditEvent, q AuditQuery) []models.AuditEvent {
	filtered := events[:0]
	for _, e := range events {
		if q.Action != "" && string(e.Action) != q.Action {
			continue
		}
		if q.User != "" && e.User != q.User {
			continue
		}
		if q.StartDate != nil && e.Timestamp.Before(*q.StartDate) {
			continue
		}
		if q.EndDate != nil && e.Timestamp.After(*q.EndDate) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// actionPriority breaks timestamp ties: deleted > updated > created
var actionPriority = map[models.AuditAction]int{
	models.AuditActionDeleted: 3,
	models.AuditActionUpdated: 2,
	models.AuditActionCreated: 1,
}

// sortEventsDescending orders most recent first
func sortEventsDescending(events []models.AuditEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.After(events[j].Timestamp)
		}
		return actionPriority[events[i].Action] > actionPriority[events[j].Action]
	})
}

func paginateEvents(events []models.AuditEvent, q AuditQuery) *models.AuditFeed {
	page := models.PaginationQuery{Page: q.Page, Limit: q.Limit}
	page.Normalize()

	start := page.Offset()
	if start > len(events) {
		start = len(events)
	}
	end := start + page.Limit
	if end > len(events) {
		end = len(events)
	}

	return &models.AuditFeed{
		Events:     events[start:end],
		Pagination: models.NewPaginationResult(len(events), page.Page, page.Limit),
	}
}

package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/models"
)

// Service-level sentinel errors. Store failures propagate unchanged;
// these cover the caller-facing taxonomy.
var (
	ErrDeviceNotFound  = errors.New("device not found")
	ErrInvalidDeviceID = errors.New("invalid device id")
)

// DeviceFilter selects devices for an analytics or listing call.
// Zero values mean "no constraint". Soft-deleted devices are excluded
// unless IncludeDeleted is set.
type DeviceFilter struct {
	Status         string
	Type           string
	BuildingID     string
	Floor          *int
	Department     string
	IncludeDeleted bool
}

// ReadingFilter selects readings. Empty slices mean "no constraint".
type ReadingFilter struct {
	DeviceIDs []string
	Types     []string
	StartTime *time.Time
	EndTime   *time.Time
	MinScore  *float64
	IsAnomaly *bool
}

// ReadingSort names a sort key for reading queries
type ReadingSort struct {
	Field string // anomaly_score | value | timestamp
	Desc  bool
}

// InterfaceTelemetryGateway is the read contract every analytics
// component depends on. Analytics never write through it.
type InterfaceTelemetryGateway interface {
	FindDevices(filter DeviceFilter) ([]models.Device, error)
	FindReadings(filter ReadingFilter, sort *ReadingSort, limit int) ([]models.Reading, error)
	GetDeviceByID(id string) (*models.Device, error)
}

// TelemetryGateway implements the read contract over the SQL store
type TelemetryGateway struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewTelemetryGateway creates a new telemetry gateway
func NewTelemetryGateway(db *gorm.DB, cfg *config.Config) InterfaceTelemetryGateway {
	return &TelemetryGateway{
		DB:     db,
		Config: cfg,
	}
}

// FindDevices returns all devices matching the filter
func (g *TelemetryGateway) FindDevices(filter DeviceFilter) ([]models.Device, error) {
	query := g.DB.Model(&models.Device{})

	if !filter.IncludeDeleted {
		query = query.Where("deleted_at IS NULL")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.BuildingID != "" {
		query = query.Where("building_id = ?", filter.BuildingID)
	}
	if filter.Floor != nil {
		query = query.Where("floor = ?", *filter.Floor)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}

	var devices []models.Device
	if err := query.Find(&devices).Error; err != nil {
		return nil, err
	}

	return devices, nil
}

// FindReadings returns readings matching the filter, newest first unless
// a sort is given. A limit of 0 applies no row cap.
func (g *TelemetryGateway) FindReadings(filter ReadingFilter, sort *ReadingSort, limit int) ([]models.Reading, error) {
	query := g.DB.Model(&models.Reading{})

	if len(filter.DeviceIDs) > 0 {
		query = query.Where("device_id IN ?", filter.DeviceIDs)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if filter.StartTime != nil {
		query = query.Where("timestamp >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("timestamp <= ?", *filter.EndTime)
	}
	if filter.MinScore != nil {
		query = query.Where("anomaly_score >= ?", *filter.MinScore)
	}
	if filter.IsAnomaly != nil {
		query = query.Where("is_anomaly = ?", *filter.IsAnomaly)
	}

	if sort != nil && validSortField(sort.Field) {
		dir := "asc"
		if sort.Desc {
			dir = "desc"
		}
		query = query.Order(sort.Field + " " + dir)
	} else {
		query = query.Order("timestamp desc")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}

	var readings []models.Reading
	if err := query.Find(&readings).Error; err != nil {
		return nil, err
	}

	return readings, nil
}

// GetDeviceByID returns one device, soft-deleted included so audit and
// diagnostics can see the full record
func (g *TelemetryGateway) GetDeviceByID(id string) (*models.Device, error) {
	var device models.Device
	if err := g.DB.Where("id = ?", id).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}

	return &device, nil
}

func validSortField(field string) bool {
	switch field {
	case "anomaly_score", "value", "timestamp":
		return true
	}
	return false
}

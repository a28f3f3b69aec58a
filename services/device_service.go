package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/models"
	"github.com/Amadou-dot/infrasight-sub001/utils"
)

var ErrSerialNumberTaken = errors.New("serial number already exists")

// InterfaceDeviceService defines the device service interface
type InterfaceDeviceService interface {
	GetDevices(filter DeviceFilter) ([]models.Device, error)
	GetDeviceByID(id string) (*models.Device, error)
	CreateDevice(device *models.Device) error
	UpdateDevice(id string, updates map[string]interface{}, updatedBy string) (*models.Device, error)
	DeleteDevice(id string, deletedBy string) error
}

// DeviceService provides device CRUD on top of the telemetry store
type DeviceService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDeviceService creates a new device service
func NewDeviceService(db *gorm.DB, cfg *config.Config) InterfaceDeviceService {
	return &DeviceService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetDevices lists devices matching the filter
func (s *DeviceService) GetDevices(filter DeviceFilter) ([]models.Device, error) {
	gateway := &TelemetryGateway{DB: s.DB, Config: s.Config}
	return gateway.FindDevices(filter)
}

// 2 GetDeviceByID fetches one device, soft-deleted included
func (s *DeviceService) GetDeviceByID(id string) (*models.Device, error) {
	var device models.Device
	if err := s.DB.Where("id = ?", id).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}

	return &device, nil
}

// 3 CreateDevice creates a new device
func (s *DeviceService) CreateDevice(device *models.Device) error {
	if device.SerialNumber == "" {
		device.SerialNumber = utils.GenerateSerialNumber()
	}

	// Serial numbers are unique across the fleet
	var count int64
	if err := s.DB.Model(&models.Device{}).Where("serial_number = ?", device.SerialNumber).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSerialNumberTaken
	}

	if device.ID == "" {
		device.ID = uuid.NewString()
	}
	if device.Status == "" {
		device.Status = models.DeviceStatusOffline
	}
	if device.UptimePercentage == 0 {
		device.UptimePercentage = 100
	}

	return s.DB.Create(device).Error
}

// 4 UpdateDevice patches device fields
func (s *DeviceService) UpdateDevice(id string, updates map[string]interface{}, updatedBy string) (*models.Device, error) {
	device, err := s.GetDeviceByID(id)
	if err != nil {
		return nil, err
	}

	// Serial number changes must stay unique
	if serialNumber, ok := updates["serial_number"].(string); ok && serialNumber != device.SerialNumber {
		var count int64
		if err := s.DB.Model(&models.Device{}).Where("serial_number = ? AND id != ?", serialNumber, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSerialNumberTaken
		}
	}

	updates["updated_by"] = updatedBy
	if err := s.DB.Model(device).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetDeviceByID(id)
}

// 5 DeleteDevice soft-deletes: the record stays visible to audit views
func (s *DeviceService) DeleteDevice(id string, deletedBy string) error {
	device, err := s.GetDeviceByID(id)
	if err != nil {
		return err
	}
	if device.IsDeleted() {
		return ErrDeviceNotFound
	}

	now := time.Now()
	return s.DB.Model(device).Updates(map[string]interface{}{
		"deleted_at": &now,
		"deleted_by": deletedBy,
	}).Error
}

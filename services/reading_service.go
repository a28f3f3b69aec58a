package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/models"
)

var ErrEmptyBatch = errors.New("empty reading batch")

// InterfaceReadingService defines the reading ingest interface
type InterfaceReadingService interface {
	BulkInsert(readings []models.Reading) (int, error)
	GetReadings(filter ReadingFilter, sort *ReadingSort, limit int) ([]models.Reading, error)
}

// ReadingService handles reading ingest. Readings are append-only.
type ReadingService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewReadingService creates a new reading service
func NewReadingService(db *gorm.DB, cfg *config.Config) InterfaceReadingService {
	return &ReadingService{
		DB:     db,
		Config: cfg,
	}
}

// BulkInsert validates and inserts a batch of readings, returning the
// number stored
func (s *ReadingService) BulkInsert(readings []models.Reading) (int, error) {
	if len(readings) == 0 {
		return 0, ErrEmptyBatch
	}

	for i := range readings {
		if err := validateReading(&readings[i]); err != nil {
			return 0, fmt.Errorf("reading %d: %w", i, err)
		}
	}

	if err := s.DB.CreateInBatches(readings, 500).Error; err != nil {
		return 0, err
	}

	return len(readings), nil
}

// GetReadings lists readings through the gateway contract
func (s *ReadingService) GetReadings(filter ReadingFilter, sort *ReadingSort, limit int) ([]models.Reading, error) {
	gateway := &TelemetryGateway{DB: s.DB, Config: s.Config}
	return gateway.FindReadings(filter, sort, limit)
}

// validateReading applies the quality invariants and defaults
func validateReading(r *models.Reading) error {
	if r.DeviceID == "" {
		return errors.New("device_id is required")
	}
	if !models.ValidReadingType(string(r.Type)) {
		return fmt.Errorf("unknown reading type %q", r.Type)
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	if r.Source == "" {
		r.Source = models.ReadingSourceSensor
	}

	// is_anomaly implies a score; both scores stay within [0,1]
	if r.IsAnomaly && r.AnomalyScore == nil {
		return errors.New("anomaly_score is required when is_anomaly is set")
	}
	if r.AnomalyScore != nil && (*r.AnomalyScore < 0 || *r.AnomalyScore > 1) {
		return errors.New("anomaly_score must be within [0,1]")
	}
	if r.ConfidenceScore != nil && (*r.ConfidenceScore < 0 || *r.ConfidenceScore > 1) {
		return errors.New("confidence_score must be within [0,1]")
	}

	return nil
}

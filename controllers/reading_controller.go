package controllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Amadou-dot/infrasight-sub001/internal/error/code"
	"github.com/Amadou-dot/infrasight-sub001/internal/error/response"
	"github.com/Amadou-dot/infrasight-sub001/models"
	"github.com/Amadou-dot/infrasight-sub001/services"
	"github.com/Amadou-dot/infrasight-sub001/services/container"
)

// ReadingController handles reading ingest requests
type ReadingController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewReadingController creates a new reading controller
func NewReadingController(ctx *gin.Context, container *container.ServiceContainer) *ReadingController {
	return &ReadingController{
		Ctx:       ctx,
		Container: container,
	}
}

// ReadingInput is one reading in a bulk insert request. IsValid defaults
// to true when omitted.
type ReadingInput struct {
	DeviceID        string     `json:"device_id" binding:"required"`
	Type            string     `json:"type" binding:"required" example:"temperature"`
	Unit            string     `json:"unit" example:"celsius"`
	Source          string     `json:"source" example:"sensor"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
	Value           float64    `json:"value"`
	IsValid         *bool      `json:"is_valid,omitempty"`
	ConfidenceScore *float64   `json:"confidence_score,omitempty"`
	IsAnomaly       bool       `json:"is_anomaly,omitempty"`
	AnomalyScore    *float64   `json:"anomaly_score,omitempty"`
	ValidationFlags string     `json:"validation_flags,omitempty"`
	BatteryLevel    *float64   `json:"battery_level,omitempty"`
	SignalStrength  *float64   `json:"signal_strength,omitempty"`
	AmbientTemp     *float64   `json:"ambient_temp,omitempty"`
}

// BulkReadingRequest is the bulk insert request body
type BulkReadingRequest struct {
	Readings []ReadingInput `json:"readings" binding:"required"`
}

// HandleReadingFunc returns a Gin handler dispatching to the named method
func HandleReadingFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewReadingController(ctx, container)

		switch method {
		case "bulkInsert":
			controller.BulkInsert()
		default:
			response.Fail(ctx, code.ErrBind, nil)
		}
	}
}

// BulkInsert stores a batch of readings
// @Summary Bulk insert readings
// @Description Stores a batch of telemetry readings in one call
// @Tags reading
// @Accept json
// @Produce json
// @Param batch body BulkReadingRequest true "Reading batch"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /readings/bulk [post]
func (c *ReadingController) BulkInsert() {
	var req BulkReadingRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, err.Error(), nil)
		return
	}

	readings := make([]models.Reading, 0, len(req.Readings))
	for _, in := range req.Readings {
		r := models.Reading{
			DeviceID:        in.DeviceID,
			Type:            models.ReadingType(in.Type),
			Unit:            in.Unit,
			Source:          models.ReadingSource(in.Source),
			Value:           in.Value,
			IsValid:         true,
			ConfidenceScore: in.ConfidenceScore,
			IsAnomaly:       in.IsAnomaly,
			AnomalyScore:    in.AnomalyScore,
			ValidationFlags: in.ValidationFlags,
			BatteryLevel:    in.BatteryLevel,
			SignalStrength:  in.SignalStrength,
			AmbientTemp:     in.AmbientTemp,
		}
		if in.Timestamp != nil {
			r.Timestamp = *in.Timestamp
		}
		if in.IsValid != nil {
			r.IsValid = *in.IsValid
		}
		readings = append(readings, r)
	}

	readingService := c.Container.GetService("reading").(services.InterfaceReadingService)

	stored, err := readingService.BulkInsert(readings)
	if err != nil {
		if errors.Is(err, services.ErrEmptyBatch) {
			response.ParamError(c.Ctx, "empty reading batch")
			return
		}
		// Validation failures name the offending reading
		response.FailWithMessage(c.Ctx, code.ErrReadingInvalid, err.Error(), nil)
		return
	}

	// Fresh telemetry invalidates cached anomaly reports. A failed
	// invalidation only means staleness until the TTL expires.
	redisService := c.Container.GetService("redis").(services.InterfaceRedisService)
	_ = redisService.InvalidateReports("anomaly")

	response.Success(c.Ctx, gin.H{"inserted": stored})
}

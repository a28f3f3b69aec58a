package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/internal/error/code"
	"github.com/Amadou-dot/infrasight-sub001/internal/error/response"
	"github.com/Amadou-dot/infrasight-sub001/models"
	"github.com/Amadou-dot/infrasight-sub001/services"
	"github.com/Amadou-dot/infrasight-sub001/services/container"
)

// InterfaceAnalyticsController defines the analytics controller interface
type InterfaceAnalyticsController interface {
	GetFleetHealth()
	GetAnomalyReport()
	GetTemperatureCorrelation()
	GetDashboardSummary()
}

// AnalyticsController handles analytics report requests
type AnalyticsController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAnalyticsController creates a new analytics controller
func NewAnalyticsController(ctx *gin.Context, container *container.ServiceContainer) *AnalyticsController {
	return &AnalyticsController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAnalyticsFunc returns a Gin handler dispatching to the named method
func HandleAnalyticsFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAnalyticsController(ctx, container)

		switch method {
		case "getFleetHealth":
			controller.GetFleetHealth()
		case "getAnomalyReport":
			controller.GetAnomalyReport()
		case "getTemperatureCorrelation":
			controller.GetTemperatureCorrelation()
		case "getDashboardSummary":
			controller.GetDashboardSummary()
		default:
			response.Fail(ctx, code.ErrBind, nil)
		}
	}
}

// 1. GetFleetHealth returns the fleet health report
// @Summary Fleet health report
// @Description Computes health score, status breakdown, alerts and predictive-maintenance items for the filtered fleet
// @Tags analytics
// @Accept json
// @Produce json
// @Param building_id query string false "Building id"
// @Param floor query int false "Floor"
// @Param department query string false "Department"
// @Param offline_threshold_minutes query int false "Offline threshold in minutes (default 5)"
// @Param battery_warning_threshold query number false "Battery warning threshold (default 20)"
// @Success 200 {object} models.HealthReport
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /analytics/health [get]
func (c *AnalyticsController) GetFleetHealth() {
	floor, ok := queryIntPtr(c.Ctx, "floor")
	if !ok {
		response.ParamError(c.Ctx, "invalid floor value")
		return
	}
	battery, ok := queryFloat(c.Ctx, "battery_warning_threshold")
	if !ok {
		response.ParamError(c.Ctx, "invalid battery_warning_threshold value")
		return
	}

	cfg := c.Container.GetService("config").(*config.Config)
	req := services.HealthRequest{
		BuildingID:              c.Ctx.Query("building_id"),
		Floor:                   floor,
		Department:              c.Ctx.Query("department"),
		OfflineThresholdMinutes: queryInt(c.Ctx, "offline_threshold_minutes", cfg.OfflineThresholdMinutes),
		BatteryWarningThreshold: float64(cfg.BatteryWarningThreshold),
	}
	if battery != nil {
		req.BatteryWarningThreshold = *battery
	}

	redisService := c.Container.GetService("redis").(services.InterfaceRedisService)
	cacheKey := fmt.Sprintf("%s:%v:%s:%d:%.1f", req.BuildingID, floorKey(req.Floor),
		req.Department, req.OfflineThresholdMinutes, req.BatteryWarningThreshold)

	var cached models.HealthReport
	if redisService.GetCachedReport("health", cacheKey, &cached) {
		response.Success(c.Ctx, cached)
		return
	}

	healthService := c.Container.GetService("health").(services.InterfaceHealthService)

	report, err := healthService.GetFleetHealth(req)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	_ = redisService.CacheReport("health", cacheKey, report)
	response.Success(c.Ctx, report)
}

// 2. GetAnomalyReport returns the anomaly analytics report
// @Summary Anomaly report
// @Description Filters flagged readings and computes breakdowns, a sorted page and optional time-bucketed trends
// @Tags analytics
// @Accept json
// @Produce json
// @Param device_id query string false "Device id or comma-separated list"
// @Param type query string false "Reading type or comma-separated list"
// @Param start_time query string false "RFC3339 start of the window"
// @Param end_time query string false "RFC3339 end of the window"
// @Param min_score query number false "Minimum anomaly score"
// @Param bucket query string false "Trend granularity: minute|hour|day|week|month"
// @Param sort_by query string false "Sort key: anomaly_score|value|timestamp"
// @Param sort_dir query string false "asc or desc"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.AnomalyReport
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /analytics/anomalies [get]
func (c *AnalyticsController) GetAnomalyReport() {
	types := queryList(c.Ctx, "type")
	for _, t := range types {
		if !models.ValidReadingType(t) {
			response.ParamError(c.Ctx, fmt.Sprintf("unknown reading type %q", t))
			return
		}
	}

	startTime, ok := queryTime(c.Ctx, "start_time")
	if !ok {
		response.ParamError(c.Ctx, "invalid start_time, expected RFC3339")
		return
	}
	endTime, ok := queryTime(c.Ctx, "end_time")
	if !ok {
		response.ParamError(c.Ctx, "invalid end_time, expected RFC3339")
		return
	}
	if startTime != nil && endTime != nil && startTime.After(*endTime) {
		response.Fail(c.Ctx, code.ErrInvalidRange, nil)
		return
	}

	minScore, ok := queryFloat(c.Ctx, "min_score")
	if !ok || (minScore != nil && (*minScore < 0 || *minScore > 1)) {
		response.ParamError(c.Ctx, "min_score must be a number within [0,1]")
		return
	}

	bucket := c.Ctx.Query("bucket")
	if bucket != "" && !services.ValidBucket(bucket) {
		response.ParamError(c.Ctx, "bucket must be one of minute, hour, day, week, month")
		return
	}

	sortBy := c.Ctx.DefaultQuery("sort_by", "timestamp")
	if !services.ValidAnomalySortField(sortBy) {
		response.ParamError(c.Ctx, "sort_by must be one of anomaly_score, value, timestamp")
		return
	}

	req := services.AnomalyRequest{
		DeviceIDs: queryList(c.Ctx, "device_id"),
		Types:     types,
		StartTime: startTime,
		EndTime:   endTime,
		MinScore:  minScore,
		Bucket:    bucket,
		SortBy:    sortBy,
		SortDesc:  c.Ctx.DefaultQuery("sort_dir", "desc") == "desc",
		Page:      queryInt(c.Ctx, "page", 1),
		Limit:     queryInt(c.Ctx, "limit", 50),
	}

	anomalyService := c.Container.GetService("anomaly").(services.InterfaceAnomalyService)

	report, err := anomalyService.GetAnomalyReport(req)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, report)
}

// 3. GetTemperatureCorrelation returns the temperature diagnostic
// @Summary Temperature correlation diagnostic
// @Description Compares the device temperature series against ambient readings and classifies the divergence
// @Tags analytics
// @Accept json
// @Produce json
// @Param id path string true "Device id"
// @Param hours query int false "Lookback window in hours (default 24)"
// @Param device_threshold query number false "Device temperature threshold (default 75)"
// @Param ambient_threshold query number false "Ambient temperature threshold (default 28)"
// @Success 200 {object} models.TemperatureCorrelationResult
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /analytics/temperature/{id} [get]
func (c *AnalyticsController) GetTemperatureCorrelation() {
	id := c.Ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c.Ctx, code.ErrInvalidID, nil)
		return
	}

	deviceThreshold, ok := queryFloat(c.Ctx, "device_threshold")
	if !ok {
		response.ParamError(c.Ctx, "invalid device_threshold value")
		return
	}
	ambientThreshold, ok := queryFloat(c.Ctx, "ambient_threshold")
	if !ok {
		response.ParamError(c.Ctx, "invalid ambient_threshold value")
		return
	}

	req := services.CorrelationRequest{
		DeviceID: id,
		Hours:    queryInt(c.Ctx, "hours", 24),
	}
	if deviceThreshold != nil {
		req.DeviceTempThreshold = *deviceThreshold
	}
	if ambientThreshold != nil {
		req.AmbientTempThreshold = *ambientThreshold
	}

	correlationService := c.Container.GetService("correlation").(services.InterfaceCorrelationService)

	result, err := correlationService.GetTemperatureCorrelation(req)
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			response.Fail(c.Ctx, code.ErrDeviceNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, result)
}

// 4. GetDashboardSummary returns the landing-page snapshot
// @Summary Dashboard summary
// @Description Combines the fleet health report with the last 24h anomaly count
// @Tags analytics
// @Accept json
// @Produce json
// @Success 200 {object} models.DashboardSummary
// @Failure 500 {object} response.Response
// @Router /dashboard/summary [get]
func (c *AnalyticsController) GetDashboardSummary() {
	cfg := c.Container.GetService("config").(*config.Config)
	healthService := c.Container.GetService("health").(services.InterfaceHealthService)
	anomalyService := c.Container.GetService("anomaly").(services.InterfaceAnomalyService)

	health, err := healthService.GetFleetHealth(services.HealthRequest{
		OfflineThresholdMinutes: cfg.OfflineThresholdMinutes,
		BatteryWarningThreshold: float64(cfg.BatteryWarningThreshold),
	})
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	dayAgo := time.Now().Add(-24 * time.Hour)
	anomalies, err := anomalyService.GetAnomalyReport(services.AnomalyRequest{
		StartTime: &dayAgo,
		Limit:     1,
	})
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, models.DashboardSummary{
		Health:          health,
		RecentAnomalies: anomalies.TotalCount,
		GeneratedAt:     time.Now(),
	})
}

func floorKey(floor *int) string {
	if floor == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *floor)
}

package controllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Amadou-dot/infrasight-sub001/internal/error/code"
	"github.com/Amadou-dot/infrasight-sub001/internal/error/response"
	"github.com/Amadou-dot/infrasight-sub001/models"
	"github.com/Amadou-dot/infrasight-sub001/services"
	"github.com/Amadou-dot/infrasight-sub001/services/container"
)

// InterfaceDeviceController defines the device controller interface
type InterfaceDeviceController interface {
	GetDevices()
	GetDevice()
	CreateDevice()
	UpdateDevice()
	DeleteDevice()
}

// DeviceController handles device CRUD requests
type DeviceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDeviceController creates a new device controller
func NewDeviceController(ctx *gin.Context, container *container.ServiceContainer) *DeviceController {
	return &DeviceController{
		Ctx:       ctx,
		Container: container,
	}
}

// DeviceRequestInput is the create/update request body
type DeviceRequestInput struct {
	Name            string     `json:"name" binding:"required" example:"Lobby CO2 sensor"`
	SerialNumber    string     `json:"serial_number" binding:"required" example:"SN2026010001"`
	Type            string     `json:"type" example:"co2"`
	Status          string     `json:"status" example:"active"`
	BuildingID      string     `json:"building_id" example:"bldg-a"`
	Floor           int        `json:"floor" example:"3"`
	RoomName        string     `json:"room_name" example:"A-301"`
	Zone            string     `json:"zone" example:"north"`
	Department      string     `json:"department" example:"facilities"`
	NextMaintenance *time.Time `json:"next_maintenance,omitempty"`
	Tags            string     `json:"tags" example:"hvac,critical"`
}

// HandleDeviceFunc returns a Gin handler dispatching to the named method
func HandleDeviceFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDeviceController(ctx, container)

		switch method {
		case "getDevices":
			controller.GetDevices()
		case "getDevice":
			controller.GetDevice()
		case "createDevice":
			controller.CreateDevice()
		case "updateDevice":
			controller.UpdateDevice()
		case "deleteDevice":
			controller.DeleteDevice()
		default:
			response.Fail(ctx, code.ErrBind, nil)
		}
	}
}

// 1. GetDevices lists devices
// @Summary List devices
// @Description Lists devices, optionally filtered by status, type, building, floor or department
// @Tags device
// @Accept json
// @Produce json
// @Param status query string false "Device status"
// @Param type query string false "Device type"
// @Param building_id query string false "Building id"
// @Param floor query int false "Floor"
// @Param department query string false "Department"
// @Param include_deleted query bool false "Include soft-deleted devices"
// @Success 200 {array} models.Device
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /devices [get]
func (c *DeviceController) GetDevices() {
	status := c.Ctx.Query("status")
	if status != "" && !models.ValidDeviceStatus(status) {
		response.ParamError(c.Ctx, "invalid status value")
		return
	}

	floor, ok := queryIntPtr(c.Ctx, "floor")
	if !ok {
		response.ParamError(c.Ctx, "invalid floor value")
		return
	}

	filter := services.DeviceFilter{
		Status:         status,
		Type:           c.Ctx.Query("type"),
		BuildingID:     c.Ctx.Query("building_id"),
		Floor:          floor,
		Department:     c.Ctx.Query("department"),
		IncludeDeleted: c.Ctx.Query("include_deleted") == "true",
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	devices, err := deviceService.GetDevices(filter)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, devices)
}

// 2. GetDevice fetches one device
// @Summary Get a device
// @Description Fetches a single device by id
// @Tags device
// @Accept json
// @Produce json
// @Param id path string true "Device id"
// @Success 200 {object} models.Device
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /devices/{id} [get]
func (c *DeviceController) GetDevice() {
	id := c.Ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c.Ctx, code.ErrInvalidID, nil)
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	device, err := deviceService.GetDeviceByID(id)
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			response.Fail(c.Ctx, code.ErrDeviceNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, device)
}

// 3. CreateDevice registers a new device
// @Summary Create a device
// @Description Registers a new sensor device
// @Tags device
// @Accept json
// @Produce json
// @Param device body DeviceRequestInput true "Device fields"
// @Success 200 {object} models.Device
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /devices [post]
func (c *DeviceController) CreateDevice() {
	var req DeviceRequestInput
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, err.Error(), nil)
		return
	}
	if req.Status != "" && !models.ValidDeviceStatus(req.Status) {
		response.ParamError(c.Ctx, "invalid status value")
		return
	}

	actor := requestActor(c.Ctx)
	device := &models.Device{
		Name:            req.Name,
		SerialNumber:    req.SerialNumber,
		Type:            req.Type,
		Status:          models.DeviceStatus(req.Status),
		BuildingID:      req.BuildingID,
		Floor:           req.Floor,
		RoomName:        req.RoomName,
		Zone:            req.Zone,
		Department:      req.Department,
		NextMaintenance: req.NextMaintenance,
		Tags:            req.Tags,
		CreatedBy:       actor,
		UpdatedBy:       actor,
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	if err := deviceService.CreateDevice(device); err != nil {
		if errors.Is(err, services.ErrSerialNumberTaken) {
			response.Fail(c.Ctx, code.ErrDeviceAlreadyExist, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, device)
}

// 4. UpdateDevice patches device fields
// @Summary Update a device
// @Description Patches mutable device fields by id
// @Tags device
// @Accept json
// @Produce json
// @Param id path string true "Device id"
// @Param device body DeviceRequestInput true "Fields to update"
// @Success 200 {object} models.Device
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /devices/{id} [patch]
func (c *DeviceController) UpdateDevice() {
	id := c.Ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c.Ctx, code.ErrInvalidID, nil)
		return
	}

	var req map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, err.Error(), nil)
		return
	}

	updates := make(map[string]interface{})
	for _, field := range []string{
		"name", "serial_number", "type", "status", "building_id", "floor",
		"room_name", "zone", "department", "next_maintenance", "tags",
		"uptime_percentage", "error_count", "battery_level", "signal_strength",
	} {
		if v, ok := req[field]; ok {
			updates[field] = v
		}
	}
	if status, ok := updates["status"].(string); ok && !models.ValidDeviceStatus(status) {
		response.ParamError(c.Ctx, "invalid status value")
		return
	}
	if len(updates) == 0 {
		response.ParamError(c.Ctx, "no updatable fields in request")
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	device, err := deviceService.UpdateDevice(id, updates, requestActor(c.Ctx))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDeviceNotFound):
			response.Fail(c.Ctx, code.ErrDeviceNotFound, nil)
		case errors.Is(err, services.ErrSerialNumberTaken):
			response.Fail(c.Ctx, code.ErrDeviceAlreadyExist, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, device)
}

// 5. DeleteDevice soft-deletes a device
// @Summary Delete a device
// @Description Soft-deletes a device; it stays visible in audit views
// @Tags device
// @Accept json
// @Produce json
// @Param id path string true "Device id"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /devices/{id} [delete]
func (c *DeviceController) DeleteDevice() {
	id := c.Ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Fail(c.Ctx, code.ErrInvalidID, nil)
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	if err := deviceService.DeleteDevice(id, requestActor(c.Ctx)); err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			response.Fail(c.Ctx, code.ErrDeviceNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}

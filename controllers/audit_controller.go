package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Amadou-dot/infrasight-sub001/internal/error/code"
	"github.com/Amadou-dot/infrasight-sub001/internal/error/response"
	"github.com/Amadou-dot/infrasight-sub001/models"
	"github.com/Amadou-dot/infrasight-sub001/services"
	"github.com/Amadou-dot/infrasight-sub001/services/container"
)

// AuditController handles audit history requests
type AuditController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuditController creates a new audit controller
func NewAuditController(ctx *gin.Context, container *container.ServiceContainer) *AuditController {
	return &AuditController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAuditFunc returns a Gin handler dispatching to the named method
func HandleAuditFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuditController(ctx, container)

		switch method {
		case "getDeviceHistory":
			controller.GetDeviceHistory()
		case "getGlobalFeed":
			controller.GetGlobalFeed()
		default:
			response.Fail(ctx, code.ErrBind, nil)
		}
	}
}

// parseAuditQuery normalizes the shared audit filter params
func (c *AuditController) parseAuditQuery() (services.AuditQuery, bool) {
	action := c.Ctx.Query("action")
	switch models.AuditAction(action) {
	case "", models.AuditActionCreated, models.AuditActionUpdated, models.AuditActionDeleted:
	default:
		response.ParamError(c.Ctx, "action must be one of created, updated, deleted")
		return services.AuditQuery{}, false
	}

	startDate, ok := queryTime(c.Ctx, "start_date")
	if !ok {
		response.ParamError(c.Ctx, "invalid start_date")
		return services.AuditQuery{}, false
	}
	endDate, ok := queryTime(c.Ctx, "end_date")
	if !ok {
		response.ParamError(c.Ctx, "invalid end_date")
		return services.AuditQuery{}, false
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		response.Fail(c.Ctx, code.ErrInvalidRange, nil)
		return services.AuditQuery{}, false
	}

	return services.AuditQuery{
		Action:    action,
		User:      c.Ctx.Query("user"),
		StartDate: startDate,
		EndDate:   endDate,
		Page:      queryInt(c.Ctx, "page", 1),
		Limit:     queryInt(c.Ctx, "limit", 50),
	}, true
}

// 1. GetDeviceHistory returns the reconstructed history of one device
// @Summary Device audit history
// @Description Reconstructs the created/updated/deleted history of one device, most recent first
// @Tags audit
// @Accept json
// @Produce json
// @Param id path string true "Device id"
// @Param action query string false "Filter by action"
// @Param user query string false "Filter by user"
// @Param start_date query string false "Inclusive range start"
// @Param end_date query string false "Inclusive range end"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.AuditFeed
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /devices/{id}/audit [get]
func (c *AuditController) GetDeviceHistory() {
	q, ok := c.parseAuditQuery()
	if !ok {
		return
	}

	auditService := c.Container.GetService("audit").(services.InterfaceAuditService)

	feed, err := auditService.GetDeviceHistory(c.Ctx.Param("id"), q)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDeviceID):
			response.Fail(c.Ctx, code.ErrInvalidID, nil)
		case errors.Is(err, services.ErrDeviceNotFound):
			response.Fail(c.Ctx, code.ErrDeviceNotFound, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, feed)
}

// 2. GetGlobalFeed returns the merged audit stream across all devices
// @Summary Global audit feed
// @Description Merges every device's reconstructed history into one descending stream
// @Tags audit
// @Accept json
// @Produce json
// @Param action query string false "Filter by action"
// @Param user query string false "Filter by user"
// @Param start_date query string false "Inclusive range start"
// @Param end_date query string false "Inclusive range end"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.AuditFeed
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /audit [get]
func (c *AuditController) GetGlobalFeed() {
	q, ok := c.parseAuditQuery()
	if !ok {
		return
	}

	auditService := c.Container.GetService("audit").(services.InterfaceAuditService)

	feed, err := auditService.GetGlobalFeed(q)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, feed)
}

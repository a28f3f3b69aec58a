package container

import (
	"log"
	"sync"

	"gorm.io/gorm"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/services"
)

// ServiceContainer manages dependency injection for all services
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// Store gateway
	gateway services.InterfaceTelemetryGateway

	// Data services
	deviceService  services.InterfaceDeviceService
	readingService services.InterfaceReadingService
	redisService   services.InterfaceRedisService

	// Analytics services
	healthService      services.InterfaceHealthService
	anomalyService     services.InterfaceAnomalyService
	correlationService services.InterfaceCorrelationService
	auditService       services.InterfaceAuditService

	// Ingest
	mqttIngestService services.InterfaceMQTTIngestService

	mu sync.RWMutex
}

// NewServiceContainer creates a new service container
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}
	if cfg == nil {
		panic("config is nil")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices initializes all services
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Store gateway first; every analytics service reads through it
	c.gateway = services.NewTelemetryGateway(c.db, c.config)

	// Data services
	c.deviceService = services.NewDeviceService(c.db, c.config)
	c.readingService = services.NewReadingService(c.db, c.config)
	c.redisService = services.NewRedisService(c.config)

	// Analytics services
	c.healthService = services.NewHealthService(c.gateway, c.config)
	c.anomalyService = services.NewAnomalyService(c.gateway, c.config)
	c.correlationService = services.NewCorrelationService(c.gateway, c.config)
	c.auditService = services.NewAuditService(c.gateway, c.config)

	// MQTT ingest is optional; the HTTP bulk endpoint always works
	c.mqttIngestService = services.NewMQTTIngestService(c.config, c.readingService)
	if c.config.MQTTEnabled {
		if err := c.mqttIngestService.Connect(); err != nil {
			log.Printf("MQTT ingest connect failed: %v", err)
		}
	}
}

// GetService returns the service registered under name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "gateway":
		return c.gateway
	case "device":
		return c.deviceService
	case "reading":
		return c.readingService
	case "redis":
		return c.redisService
	case "health":
		return c.healthService
	case "anomaly":
		return c.anomalyService
	case "correlation":
		return c.correlationService
	case "audit":
		return c.auditService
	case "mqtt_ingest":
		return c.mqttIngestService
	default:
		return nil
	}
}

// GetDB returns the database connection
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/models"
)

// Telemetry topics. Devices publish batches to telemetry/<device_id>/readings.
const (
	TopicTelemetryReadings = "telemetry/+/readings"
)

// InterfaceMQTTIngestService defines the MQTT telemetry ingest interface
type InterfaceMQTTIngestService interface {
	Connect() error
	Disconnect()
	SubscribeToTopics() error
	IsConnected() bool
}

// mqttReadingPayload is the wire shape devices publish. Omitted quality
// fields take the documented defaults.
type mqttReadingPayload struct {
	Type            string   `json:"type"`
	Unit            string   `json:"unit"`
	Source          string   `json:"source,omitempty"`
	Timestamp       int64    `json:"timestamp"` // Unix milliseconds
	Value           float64  `json:"value"`
	IsValid         *bool    `json:"is_valid,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	IsAnomaly       bool     `json:"is_anomaly,omitempty"`
	AnomalyScore    *float64 `json:"anomaly_score,omitempty"`
	BatteryLevel    *float64 `json:"battery_level,omitempty"`
	SignalStrength  *float64 `json:"signal_strength,omitempty"`
	AmbientTemp     *float64 `json:"ambient_temp,omitempty"`
}

// MQTTIngestService subscribes to telemetry topics and stores incoming
// reading batches
type MQTTIngestService struct {
	Config         *config.Config
	Readings       InterfaceReadingService
	Client         mqtt.Client
	connected      bool
	connectedMutex sync.RWMutex
	TopicHandlers  map[string]mqtt.MessageHandler
}

// NewMQTTIngestService creates a new MQTT ingest service
func NewMQTTIngestService(cfg *config.Config, readings InterfaceReadingService) InterfaceMQTTIngestService {
	service := &MQTTIngestService{
		Config:        cfg,
		Readings:      readings,
		TopicHandlers: make(map[string]mqtt.MessageHandler),
	}

	service.setupMQTTClient()
	service.setupTopicHandlers()

	return service
}

// setupMQTTClient configures the MQTT client options
func (s *MQTTIngestService) setupMQTTClient() {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBrokerURL)
	// Unique client id so multiple instances do not clash
	opts.SetClientID(fmt.Sprintf("%s-%s", s.Config.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Second * 30)
	opts.SetKeepAlive(time.Second * 60)
	opts.SetPingTimeout(time.Second * 10)
	opts.SetCleanSession(true)

	if s.Config.MQTTUsername != "" {
		opts.SetUsername(s.Config.MQTTUsername)
		opts.SetPassword(s.Config.MQTTPassword)
	}

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Printf("[MQTT] connection lost: %v", err)
		s.setConnected(false)
	})
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Printf("[MQTT] connected to %s", s.Config.MQTTBrokerURL)
		s.setConnected(true)
		// Resubscribe after reconnect
		if err := s.SubscribeToTopics(); err != nil {
			log.Printf("[MQTT] resubscribe failed: %v", err)
		}
	})

	s.Client = mqtt.NewClient(opts)
}

// setupTopicHandlers registers the topic handler map
func (s *MQTTIngestService) setupTopicHandlers() {
	s.TopicHandlers[TopicTelemetryReadings] = s.handleReadingsMessage
}

// Connect connects to the MQTT broker and subscribes
func (s *MQTTIngestService) Connect() error {
	if token := s.Client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect failed: %w", token.Error())
	}
	s.setConnected(true)
	return s.SubscribeToTopics()
}

// Disconnect disconnects gracefully
func (s *MQTTIngestService) Disconnect() {
	if s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
	s.setConnected(false)
}

// SubscribeToTopics subscribes every registered topic handler
func (s *MQTTIngestService) SubscribeToTopics() error {
	for topic, handler := range s.TopicHandlers {
		if token := s.Client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("subscribe %s failed: %w", topic, token.Error())
		}
		log.Printf("[MQTT] subscribed to %s", topic)
	}
	return nil
}

// IsConnected reports the connection state
func (s *MQTTIngestService) IsConnected() bool {
	s.connectedMutex.RLock()
	defer s.connectedMutex.RUnlock()
	return s.connected
}

func (s *MQTTIngestService) setConnected(v bool) {
	s.connectedMutex.Lock()
	defer s.connectedMutex.Unlock()
	s.connected = v
}

// handleReadingsMessage decodes one published batch and stores it.
// The device id comes from the topic, never from the payload.
func (s *MQTTIngestService) handleReadingsMessage(client mqtt.Client, msg mqtt.Message) {
	deviceID := deviceIDFromTopic(msg.Topic())
	if deviceID == "" {
		log.Printf("[MQTT] ignoring message on malformed topic %s", msg.Topic())
		return
	}

	var payloads []mqttReadingPayload
	if err := json.Unmarshal(msg.Payload(), &payloads); err != nil {
		// Single-object publishes are accepted too
		var single mqttReadingPayload
		if err := json.Unmarshal(msg.Payload(), &single); err != nil {
			log.Printf("[MQTT] undecodable payload on %s: %v", msg.Topic(), err)
			return
		}
		payloads = []mqttReadingPayload{single}
	}

	readings := make([]models.Reading, 0, len(payloads))
	for _, p := range payloads {
		readings = append(readings, readingFromPayload(deviceID, p))
	}

	stored, err := s.Readings.BulkInsert(readings)
	if err != nil {
		log.Printf("[MQTT] failed to store batch from %s: %v", deviceID, err)
		return
	}
	log.Printf("[MQTT] stored %d readings from %s", stored, deviceID)
}

func readingFromPayload(deviceID string, p mqttReadingPayload) models.Reading {
	r := models.Reading{
		DeviceID:        deviceID,
		Type:            models.ReadingType(p.Type),
		Unit:            p.Unit,
		Source:          models.ReadingSource(p.Source),
		Value:           p.Value,
		IsValid:         true,
		ConfidenceScore: p.ConfidenceScore,
		IsAnomaly:       p.IsAnomaly,
		AnomalyScore:    p.AnomalyScore,
		BatteryLevel:    p.BatteryLevel,
		SignalStrength:  p.SignalStrength,
		AmbientTemp:     p.AmbientTemp,
	}
	if p.Timestamp > 0 {
		r.Timestamp = time.UnixMilli(p.Timestamp)
	}
	if p.IsValid != nil {
		r.IsValid = *p.IsValid
	}
	return r
}

// deviceIDFromTopic extracts the device id from telemetry/<id>/readings
func deviceIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "telemetry" || parts[2] != "readings" {
		return ""
	}
	return parts[1]
}

package reporting

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/MarcosBrindi/roadswarm/internal/config"
)

// MQTTSink reenvía los reportes de accidentes a un broker MQTT
type MQTTSink struct {
	config   config.MQTTConfig
	deviceID string
	client   mqtt.Client

	mu        sync.RWMutex
	connected bool
}

// NewMQTTSink crea el sink y conecta al broker
func NewMQTTSink(cfg config.MQTTConfig, deviceID string) (*MQTTSink, error) {
	s := &MQTTSink{
		config:   cfg,
		deviceID: deviceID,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(1 * time.Minute)

	opts.SetOnConnectHandler(s.onConnect)
	opts.SetConnectionLostHandler(s.onConnectionLost)

	s.client = mqtt.NewClient(opts)

	fmt.Printf("📡 [MQTT] Conectando a %s...\n", cfg.Broker)

	token := s.client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("error conectando a MQTT: %w", token.Error())
	}

	return s, nil
}

// onConnect callback cuando se conecta
func (s *MQTTSink) onConnect(client mqtt.Client) {
	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()

	fmt.Println("✅ [MQTT] Conectado exitosamente")

	s.publishStatus("online")
}

// onConnectionLost callback cuando se pierde conexión
func (s *MQTTSink) onConnectionLost(client mqtt.Client, err error) {
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()

	fmt.Printf("⚠️  [MQTT] Conexión perdida: %v\n", err)
	fmt.Println("🔄 [MQTT] Intentando reconectar...")
}

// Report publica el reporte de accidente
func (s *MQTTSink) Report(r AccidentReport) error {
	if !s.isConnected() {
		return fmt.Errorf("MQTT desconectado")
	}

	payload := map[string]interface{}{
		"device_id":     s.deviceID,
		"timestamp":     r.ReceivedAt.UTC().Format(time.RFC3339),
		"origin_id":     r.OriginID,
		"has_position":  r.HasPosition,
		"latitude":      r.Latitude,
		"longitude":     r.Longitude,
		"emitted_at_ms": r.EmittedAtMS,
		"window_start":  r.WindowStart.UTC().Format(time.RFC3339),
	}

	return s.publish(s.config.Topics.Accidents, payload)
}

// publishStatus publica estado de conexión
func (s *MQTTSink) publishStatus(status string) {
	payload := map[string]interface{}{
		"device_id": s.deviceID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    status,
	}

	if err := s.publish(s.config.Topics.Status, payload); err != nil {
		fmt.Printf("⚠️  [MQTT] Error publicando estado: %v\n", err)
	}
}

// publish publica un mensaje MQTT
func (s *MQTTSink) publish(topic string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error serializando JSON: %w", err)
	}

	token := s.client.Publish(topic, s.config.QoS, s.config.Retain, jsonData)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("error publicando a %s: %w", topic, token.Error())
	}
	return nil
}

// Close desconecta del broker
func (s *MQTTSink) Close() error {
	if s.client != nil && s.client.IsConnected() {
		s.publishStatus("offline")
		s.client.Disconnect(250)
		fmt.Println("🛑 [MQTT] Desconectado")
	}
	return nil
}

// isConnected verifica si está conectado
func (s *MQTTSink) isConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := Default()

	if cfg.Detector.ConfirmCount != 3 {
		t.Errorf("confirm_count = %d, esperaba 3", cfg.Detector.ConfirmCount)
	}
	if cfg.Detector.RecencyWindowMS != 2000 {
		t.Errorf("recency_window_ms = %d, esperaba 2000", cfg.Detector.RecencyWindowMS)
	}
	if cfg.Detector.QuietResetMS != 3000 {
		t.Errorf("quiet_reset_ms = %d, esperaba 3000", cfg.Detector.QuietResetMS)
	}

	if cfg.Node.TrackingHold != 8.0 {
		t.Errorf("tracking_hold = %f, esperaba 8.0", cfg.Node.TrackingHold)
	}
	if cfg.Node.TrafficCooldown != 10.0 {
		t.Errorf("traffic_cooldown = %f, esperaba 10.0", cfg.Node.TrafficCooldown)
	}
	if cfg.Node.PanicReset != 300.0 {
		t.Errorf("panic_reset = %f, esperaba 300.0", cfg.Node.PanicReset)
	}
	if cfg.Node.FullDuty != 255 || cfg.Node.IdleDuty != 30 {
		t.Errorf("duty = %d/%d, esperaba 255/30", cfg.Node.FullDuty, cfg.Node.IdleDuty)
	}

	if cfg.Hub.DebounceWindow != 30.0 {
		t.Errorf("debounce_window = %f, esperaba 30.0", cfg.Hub.DebounceWindow)
	}

	if cfg.Sensors.Proximity.ThresholdMM != 1000 {
		t.Errorf("threshold_mm = %d, esperaba 1000", cfg.Sensors.Proximity.ThresholdMM)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	yaml := `
device_id: "POSTE-07"
node_id: 7

simulation:
  nodes: 3
  loss_rate: 0.25

detector:
  confirm_count: 4
  recency_window_ms: 1500
  quiet_reset_ms: 2500

node:
  tracking_hold: 6.0
  traffic_cooldown: 12.0
  panic_reset: 120.0
  idle_duty: 20
  full_duty: 200

hub:
  debounce_window: 15.0

mqtt:
  enabled: true
  broker: "tcp://broker:1883"
  topics:
    accidents: "roadswarm/{device_id}/accidents"
    status: "roadswarm/{device_id}/status"

rabbitmq:
  routing_key: "roadswarm.{device_id}.accidents"

ui:
  window:
    title: "Enjambre - {{device_id}}"
`

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.NodeID != 7 {
		t.Errorf("node_id = %d, esperaba 7", cfg.NodeID)
	}
	if cfg.Simulation.Nodes != 3 {
		t.Errorf("nodes = %d, esperaba 3", cfg.Simulation.Nodes)
	}
	if cfg.Detector.ConfirmCount != 4 {
		t.Errorf("confirm_count = %d, esperaba 4", cfg.Detector.ConfirmCount)
	}
	if cfg.Node.TrafficCooldown != 12.0 {
		t.Errorf("traffic_cooldown = %f, esperaba 12.0", cfg.Node.TrafficCooldown)
	}
	if cfg.Hub.DebounceWindow != 15.0 {
		t.Errorf("debounce_window = %f, esperaba 15.0", cfg.Hub.DebounceWindow)
	}
}

func TestPlaceholderReplacement(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.DeviceID = "POSTE-42"
	cfg.MQTT.Topics.Accidents = "roadswarm/{device_id}/accidents"
	cfg.MQTT.Topics.Status = "roadswarm/{device_id}/status"
	cfg.RabbitMQ.RoutingKey = "roadswarm.{device_id}.accidents"
	cfg.UI.Window.Title = "Enjambre - {{device_id}}"

	got := replaceDeviceIDPlaceholders(*cfg)

	if got.MQTT.Topics.Accidents != "roadswarm/POSTE-42/accidents" {
		t.Errorf("topic accidents = %q", got.MQTT.Topics.Accidents)
	}
	if got.MQTT.Topics.Status != "roadswarm/POSTE-42/status" {
		t.Errorf("topic status = %q", got.MQTT.Topics.Status)
	}
	if got.RabbitMQ.RoutingKey != "roadswarm.POSTE-42.accidents" {
		t.Errorf("routing key = %q", got.RabbitMQ.RoutingKey)
	}
	if got.UI.Window.Title != "Enjambre - POSTE-42" {
		t.Errorf("título = %q", got.UI.Window.Title)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "no-existe.yaml")); err == nil {
		t.Error("LoadConfig() no falló con archivo inexistente")
	}
}

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config es la estructura principal de configuración
type Config struct {
	DeviceID   string           `yaml:"device_id"`
	NodeID     uint16           `yaml:"node_id"`
	Simulation SimulationConfig `yaml:"simulation"`
	Sensors    SensorsConfig    `yaml:"sensors"`
	Detector   DetectorConfig   `yaml:"detector"`
	Node       NodeConfig       `yaml:"node"`
	Hub        HubConfig        `yaml:"hub"`
	Swarm      SwarmConfig      `yaml:"swarm"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
	UI         UIConfig         `yaml:"ui"`
}

type SimulationConfig struct {
	Nodes           int     `yaml:"nodes"`            // Número de nodos en modo sim
	InitialScenario string  `yaml:"initial_scenario"` // Escenario a ejecutar al inicio
	ScenariosDir    string  `yaml:"scenarios_dir"`    // Directorio con escenarios YAML
	LossRate        float64 `yaml:"loss_rate"`        // Probabilidad de pérdida de mensajes (0.0 a 1.0)
	StatusInterval  float64 `yaml:"status_interval"`  // Intervalo de estado en modo headless (s)
}

type SensorsConfig struct {
	Proximity ProximityConfig `yaml:"proximity"`
	Vibration VibrationConfig `yaml:"vibration"`
	Light     LightConfig     `yaml:"light"`
	GPS       GPSConfig       `yaml:"gps"`
}

// ProximityConfig configuración del sensor de proximidad (tipo VL53L0X)
type ProximityConfig struct {
	Frequency     float64 `yaml:"frequency"`       // Hz
	ThresholdMM   int     `yaml:"threshold_mm"`    // Umbral de detección de vehículo
	ReadTimeoutMS int     `yaml:"read_timeout_ms"` // Timeout de lectura (timeout = sin detección)
	DebounceReads int     `yaml:"debounce_reads"`  // Lecturas consecutivas para validar
}

// VibrationConfig configuración del sensor de vibración/impacto (línea digital)
type VibrationConfig struct {
	Frequency float64 `yaml:"frequency"` // Hz de muestreo de la línea
}

// LightConfig configuración del sensor de luz ambiental (tipo LDR)
type LightConfig struct {
	Frequency         float64 `yaml:"frequency"`          // Hz
	DaylightThreshold int     `yaml:"daylight_threshold"` // Nivel crudo >= umbral = día
	SmoothingWindow   int     `yaml:"smoothing_window"`   // Muestras del promedio móvil
}

type GPSConfig struct {
	Frequency   float64  `yaml:"frequency"`
	InstalledAt Position `yaml:"installed_at"` // Posición fija del nodo
}

type Position struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// DetectorConfig parámetros del detector de impactos por flancos
type DetectorConfig struct {
	ConfirmCount    int `yaml:"confirm_count"`     // Pulsos para confirmar impacto
	RecencyWindowMS int `yaml:"recency_window_ms"` // Ventana desde el último pulso
	QuietResetMS    int `yaml:"quiet_reset_ms"`    // Silencio que reinicia el contador
}

// NodeConfig tiempos y niveles de la máquina de estados del nodo
type NodeConfig struct {
	TrackingHold    float64 `yaml:"tracking_hold"`    // Retención de iluminación tras detección (s)
	TrafficCooldown float64 `yaml:"traffic_cooldown"` // Cooldown entre broadcasts de tráfico (s)
	PanicReset      float64 `yaml:"panic_reset"`      // Auto-reset del estado de pánico (s)
	IdleDuty        uint8   `yaml:"idle_duty"`        // Brillo en reposo (0-255)
	FullDuty        uint8   `yaml:"full_duty"`        // Brillo máximo (0-255)
	StrobeDuration  float64 `yaml:"strobe_duration"`  // Duración del estrobo al entrar en pánico (s)
	StrobeInterval  float64 `yaml:"strobe_interval"`  // Periodo de parpadeo del estrobo (s)
	TickInterval    float64 `yaml:"tick_interval"`    // Periodo del loop de muestreo (s)
}

// HubConfig parámetros del hub central
type HubConfig struct {
	DebounceWindow float64 `yaml:"debounce_window"` // Ventana de dedup por origen (s)
}

// SwarmConfig configuración del medio de broadcast
type SwarmConfig struct {
	Transport string         `yaml:"transport"` // "local" (sim) o "udp"
	UDP       SwarmUDPConfig `yaml:"udp"`
}

type SwarmUDPConfig struct {
	Port          int    `yaml:"port"`
	BroadcastAddr string `yaml:"broadcast_addr"`
}

// MQTTConfig configuración del sink de reportes vía MQTT
type MQTTConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Broker   string           `yaml:"broker"`
	ClientID string           `yaml:"client_id"`
	Username string           `yaml:"username"`
	Password string           `yaml:"password"`
	QoS      byte             `yaml:"qos"`
	Retain   bool             `yaml:"retain"`
	Topics   MQTTTopicsConfig `yaml:"topics"`
}

// MQTTTopicsConfig topics MQTT
type MQTTTopicsConfig struct {
	Accidents string `yaml:"accidents"`
	Status    string `yaml:"status"`
}

// RabbitMQConfig configuración del sink de reportes vía RabbitMQ
type RabbitMQConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	VHost        string `yaml:"vhost"`
	Exchange     string `yaml:"exchange"`
	ExchangeType string `yaml:"exchange_type"`
	RoutingKey   string `yaml:"routing_key"`
}

type UIConfig struct {
	Enabled bool         `yaml:"enabled"`
	Window  WindowConfig `yaml:"window"`
	FPS     int          `yaml:"fps"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// LoadConfig carga la configuración desde un archivo YAML
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error leyendo config: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("error parseando YAML: %w", err)
	}

	// Reemplazar {{device_id}} y {device_id} en strings
	config = replaceDeviceIDPlaceholders(config)

	return &config, nil
}

// replaceDeviceIDPlaceholders reemplaza {{device_id}} y {device_id} en strings
func replaceDeviceIDPlaceholders(config Config) Config {
	deviceID := config.DeviceID

	config.UI.Window.Title = strings.ReplaceAll(
		config.UI.Window.Title,
		"{{device_id}}",
		deviceID,
	)

	config.MQTT.Topics.Accidents = strings.ReplaceAll(
		config.MQTT.Topics.Accidents,
		"{device_id}",
		deviceID,
	)

	config.MQTT.Topics.Status = strings.ReplaceAll(
		config.MQTT.Topics.Status,
		"{device_id}",
		deviceID,
	)

	config.RabbitMQ.RoutingKey = strings.ReplaceAll(
		config.RabbitMQ.RoutingKey,
		"{device_id}",
		deviceID,
	)

	return config
}

// Default devuelve una configuración por defecto si no se puede cargar el archivo
func Default() *Config {
	return &Config{
		DeviceID: "POSTE-DEFAULT",
		NodeID:   1,
		Simulation: SimulationConfig{
			Nodes:           5,
			InitialScenario: "",
			ScenariosDir:    "scenarios",
			LossRate:        0.1,
			StatusInterval:  5.0,
		},
		Sensors: SensorsConfig{
			Proximity: ProximityConfig{
				Frequency:     10.0,
				ThresholdMM:   1000,
				ReadTimeoutMS: 30,
				DebounceReads: 2,
			},
			Vibration: VibrationConfig{
				Frequency: 50.0,
			},
			Light: LightConfig{
				Frequency:         1.0,
				DaylightThreshold: 500,
				SmoothingWindow:   5,
			},
			GPS: GPSConfig{
				Frequency: 1.0,
				InstalledAt: Position{
					Latitude:  0.0, // Se debe configurar en config.yaml
					Longitude: 0.0, // Se debe configurar en config.yaml
				},
			},
		},
		Detector: DetectorConfig{
			ConfirmCount:    3,
			RecencyWindowMS: 2000,
			QuietResetMS:    3000,
		},
		Node: NodeConfig{
			TrackingHold:    8.0,
			TrafficCooldown: 10.0,
			PanicReset:      300.0,
			IdleDuty:        30,
			FullDuty:        255,
			StrobeDuration:  3.0,
			StrobeInterval:  0.15,
			TickInterval:    0.1,
		},
		Hub: HubConfig{
			DebounceWindow: 30.0,
		},
		Swarm: SwarmConfig{
			Transport: "local",
			UDP: SwarmUDPConfig{
				Port:          9876,
				BroadcastAddr: "255.255.255.255",
			},
		},
		MQTT: MQTTConfig{
			Enabled:  false,
			Broker:   "tcp://localhost:1883",
			ClientID: "roadswarm-hub",
			QoS:      1,
			Retain:   false,
			Topics: MQTTTopicsConfig{
				Accidents: "roadswarm/{device_id}/accidents",
				Status:    "roadswarm/{device_id}/status",
			},
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:      false,
			Host:         "localhost",
			Port:         5672,
			Username:     "guest",
			Password:     "guest",
			VHost:        "/",
			Exchange:     "amq.topic",
			ExchangeType: "topic",
			RoutingKey:   "roadswarm.{device_id}.accidents",
		},
		UI: UIConfig{
			Enabled: true,
			Window: WindowConfig{
				Width:  1280,
				Height: 720,
				Title:  "Enjambre Vial - {{device_id}}",
			},
			FPS: 60,
		},
	}
}

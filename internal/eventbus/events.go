package eventbus

import "time"

// ========================================
// TIPOS DE EVENTOS
// ========================================

type EventType string

const (
	EventProximity EventType = "proximity"
	EventVibration EventType = "vibration"
	EventLight     EventType = "light"
	EventPosition  EventType = "position"
	EventLighting  EventType = "lighting"
	EventNodeState EventType = "node_state"
)

// ========================================
// EVENTO GENÉRICO
// ========================================

type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      interface{}
}

// ========================================
// DATOS PROXIMIDAD (sensor láser tipo VL53L0X)
// ========================================

type ProximityData struct {
	DistanceMM int  // Distancia medida en milímetros
	Detected   bool // true si hay objetivo dentro del umbral
	TimedOut   bool // true si la lectura expiró (se trata como sin detección)
}

// ========================================
// DATOS VIBRACIÓN (línea digital de impacto)
// ========================================

type VibrationData struct {
	Level bool // Nivel de la línea: true = alto
}

// ========================================
// DATOS LUZ AMBIENTAL (LDR)
// ========================================

type LightData struct {
	Raw    int  // Nivel crudo suavizado (0-1023)
	IsDark bool // true si está por debajo del umbral de día
}

// ========================================
// DATOS POSICIÓN (GPS)
// ========================================

// PositionData usa el centinela "ambos cero = sin fix", igual que el
// formato de mensaje del enjambre.
type PositionData struct {
	Latitude  float64
	Longitude float64
}

// Valid indica si hay fix (lat y lon distintos de cero)
func (p PositionData) Valid() bool {
	return p.Latitude != 0.0 || p.Longitude != 0.0
}

// ========================================
// ESTADOS DE ILUMINACIÓN DEL NODO
// ========================================

type LightingState int

const (
	LightingIdle LightingState = iota
	LightingTracking
	LightingPanic
)

func (ls LightingState) String() string {
	return [...]string{
		"IDLE",
		"TRACKING",
		"PANIC",
	}[ls]
}

// LightingData es la salida de actuación publicada por la luminaria
// simulada al cambiar (consumida por el modo headless; la UI sondea
// Snapshot directamente)
type LightingData struct {
	NodeID     uint16
	State      LightingState
	Brightness uint8 // Duty aplicado (0-255); 0 si el gate de día fuerza apagado
	Strobing   bool  // true durante el estrobo de entrada a pánico
	Supporting bool  // true si el pánico es de soporte (por mensaje de par)
	Daylight   bool  // true si el gate de día está forzando la salida
}

// ========================================
// ESTADO AGREGADO DEL NODO (telemetría)
// ========================================

type NodeStateData struct {
	NodeID        uint16
	State         LightingState
	Brightness    uint8
	Supporting    bool
	Daylight      bool
	HasFix        bool
	LastTraffic   time.Time // Última detección de tráfico (cero si ninguna)
	AccidentSince time.Time // Entrada al estado de pánico (cero si no activo)
	Timestamp     time.Time
}

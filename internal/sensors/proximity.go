package sensors

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
)

// Distancia base de la vía despejada (mm) y distancia típica de un
// vehículo dentro del haz
const (
	emptyRoadDistanceMM = 2600
	vehicleDistanceMM   = 650
)

// ProximitySensor simula el sensor láser de proximidad del nodo (clase
// VL53L0X apuntando a la vía). La lectura es con timeout acotado: si el
// sensor no responde a tiempo se trata como "sin detección", nunca se
// bloquea el loop.
type ProximitySensor struct {
	bus    *eventbus.EventBus
	config config.ProximityConfig

	// Campos protegidos por mutex
	mu           sync.RWMutex
	running      bool
	paused       bool
	vehicleUntil time.Time // Hay un vehículo en el haz hasta este instante
	consecutive  int       // Lecturas en rango consecutivas (debounce)
	lastDistance int
}

// NewProximitySensor crea un nuevo sensor de proximidad simulado
func NewProximitySensor(bus *eventbus.EventBus, cfg config.ProximityConfig) *ProximitySensor {
	return &ProximitySensor{
		bus:          bus,
		config:       cfg,
		lastDistance: emptyRoadDistanceMM,
	}
}

// Start inicia el sensor en su propia goroutine
func (ps *ProximitySensor) Start() {
	ps.mu.Lock()
	ps.running = true
	ps.mu.Unlock()

	go ps.loop()
}

// Stop detiene el sensor
func (ps *ProximitySensor) Stop() {
	ps.mu.Lock()
	ps.running = false
	ps.mu.Unlock()
}

// Pause pausa el sensor
func (ps *ProximitySensor) Pause() {
	ps.mu.Lock()
	ps.paused = true
	ps.mu.Unlock()
}

// Resume reanuda el sensor
func (ps *ProximitySensor) Resume() {
	ps.mu.Lock()
	ps.paused = false
	ps.mu.Unlock()
}

// SimulateVehiclePass inyecta un vehículo en el haz durante la duración dada
func (ps *ProximitySensor) SimulateVehiclePass(duration time.Duration) {
	ps.mu.Lock()
	ps.vehicleUntil = time.Now().Add(duration)
	ps.mu.Unlock()

	fmt.Printf("[Proximity] Vehículo simulado en el haz por %.1fs\n", duration.Seconds())
}

// loop es el bucle principal del sensor
func (ps *ProximitySensor) loop() {
	ticker := time.NewTicker(time.Duration(1000.0/ps.config.Frequency) * time.Millisecond)
	defer ticker.Stop()

	for {
		ps.mu.RLock()
		running := ps.running
		paused := ps.paused
		ps.mu.RUnlock()

		if !running {
			break
		}

		<-ticker.C

		if paused {
			continue
		}

		data := ps.sample()

		ps.bus.Publish(eventbus.Event{
			Type:      eventbus.EventProximity,
			Timestamp: time.Now(),
			Data:      data,
		})
	}
}

// sample hace una lectura acotada y aplica el debounce
func (ps *ProximitySensor) sample() eventbus.ProximityData {
	distance, timedOut := ps.readDistance()

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if timedOut {
		// Timeout de lectura = sin detección este ciclo, y el debounce
		// se reinicia: una racha interrumpida no es una detección
		ps.consecutive = 0
		return eventbus.ProximityData{DistanceMM: ps.lastDistance, TimedOut: true}
	}

	ps.lastDistance = distance

	inRange := distance <= ps.config.ThresholdMM
	if inRange {
		ps.consecutive++
	} else {
		ps.consecutive = 0
	}

	return eventbus.ProximityData{
		DistanceMM: distance,
		Detected:   ps.consecutive >= ps.config.DebounceReads,
	}
}

// readDistance simula la lectura del sensor con timeout acotado.
// El hardware real puede tardar más que el presupuesto (config
// read_timeout_ms); aquí se modela como una probabilidad pequeña.
func (ps *ProximitySensor) readDistance() (int, bool) {
	// ~1% de lecturas expiran
	if rand.Float64() < 0.01 {
		time.Sleep(time.Duration(ps.config.ReadTimeoutMS) * time.Millisecond)
		return 0, true
	}

	ps.mu.RLock()
	vehiclePresent := time.Now().Before(ps.vehicleUntil)
	ps.mu.RUnlock()

	base := emptyRoadDistanceMM
	if vehiclePresent {
		base = vehicleDistanceMM
	}

	// Ruido realista ±40mm
	noise := rand.Intn(80) - 40
	distance := base + noise
	if distance < 30 {
		distance = 30
	}

	return distance, false
}

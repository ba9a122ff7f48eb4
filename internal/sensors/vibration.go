package sensors

import (
	"fmt"
	"sync"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
)

// Forma de los pulsos inyectados por SimulateImpact: el golpe y sus
// rebotes mecánicos sobre el poste
const (
	impactPulseWidth   = 60 * time.Millisecond
	impactPulseSpacing = 150 * time.Millisecond
)

// VibrationSensor simula la línea digital del sensor de vibración
// (SW-420 o similar montado en el poste). Publica el nivel crudo de la
// línea a la cadencia configurada; la confirmación de impacto vive en
// internal/detector, no aquí.
type VibrationSensor struct {
	bus    *eventbus.EventBus
	config config.VibrationConfig

	// Campos protegidos por mutex
	mu      sync.RWMutex
	running bool
	paused  bool
	pulses  []pulseWindow // Ventanas de nivel alto pendientes
}

type pulseWindow struct {
	from time.Time
	to   time.Time
}

// NewVibrationSensor crea un nuevo sensor de vibración simulado
func NewVibrationSensor(bus *eventbus.EventBus, cfg config.VibrationConfig) *VibrationSensor {
	return &VibrationSensor{
		bus:    bus,
		config: cfg,
	}
}

// Start inicia el sensor en su propia goroutine
func (vs *VibrationSensor) Start() {
	vs.mu.Lock()
	vs.running = true
	vs.mu.Unlock()

	go vs.loop()
}

// Stop detiene el sensor
func (vs *VibrationSensor) Stop() {
	vs.mu.Lock()
	vs.running = false
	vs.mu.Unlock()
}

// Pause pausa el sensor
func (vs *VibrationSensor) Pause() {
	vs.mu.Lock()
	vs.paused = true
	vs.mu.Unlock()
}

// Resume reanuda el sensor
func (vs *VibrationSensor) Resume() {
	vs.mu.Lock()
	vs.paused = false
	vs.mu.Unlock()
}

// SimulateImpact inyecta un golpe con el número de pulsos dado
func (vs *VibrationSensor) SimulateImpact(pulses int) {
	now := time.Now()

	vs.mu.Lock()
	for i := 0; i < pulses; i++ {
		start := now.Add(time.Duration(i) * impactPulseSpacing)
		vs.pulses = append(vs.pulses, pulseWindow{from: start, to: start.Add(impactPulseWidth)})
	}
	vs.mu.Unlock()

	fmt.Printf("[Vibration] Impacto simulado: %d pulsos\n", pulses)
}

// loop es el bucle principal del sensor
func (vs *VibrationSensor) loop() {
	ticker := time.NewTicker(time.Duration(1000.0/vs.config.Frequency) * time.Millisecond)
	defer ticker.Stop()

	for {
		vs.mu.RLock()
		running := vs.running
		paused := vs.paused
		vs.mu.RUnlock()

		if !running {
			break
		}

		<-ticker.C

		if paused {
			continue
		}

		level := vs.currentLevel(time.Now())

		vs.bus.Publish(eventbus.Event{
			Type:      eventbus.EventVibration,
			Timestamp: time.Now(),
			Data:      eventbus.VibrationData{Level: level},
		})
	}
}

// currentLevel calcula el nivel de la línea y poda ventanas vencidas
func (vs *VibrationSensor) currentLevel(now time.Time) bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	level := false
	active := vs.pulses[:0]
	for _, p := range vs.pulses {
		if now.After(p.to) {
			continue // Ventana vencida
		}
		active = append(active, p)
		if !now.Before(p.from) {
			level = true
		}
	}
	vs.pulses = active

	return level
}

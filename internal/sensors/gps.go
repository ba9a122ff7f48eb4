package sensors

import (
	"fmt"
	"sync"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
)

// PositionSensor simula la fuente de posición del nodo (módulo GPS).
// Los nodos son fijos: la posición instalada viene del config y lo único
// que varía es si hay fix. Sin fix se publica el centinela ambos-cero,
// el mismo que viaja en los mensajes del enjambre.
type PositionSensor struct {
	bus    *eventbus.EventBus
	config config.GPSConfig

	// Campos protegidos por mutex
	mu      sync.RWMutex
	running bool
	paused  bool
	hasFix  bool
}

// NewPositionSensor crea una nueva fuente de posición simulada
func NewPositionSensor(bus *eventbus.EventBus, cfg config.GPSConfig) *PositionSensor {
	// Sin posición instalada no hay fix que reportar
	installed := cfg.InstalledAt.Latitude != 0.0 || cfg.InstalledAt.Longitude != 0.0

	return &PositionSensor{
		bus:    bus,
		config: cfg,
		hasFix: installed,
	}
}

// Start inicia la fuente en su propia goroutine
func (gps *PositionSensor) Start() {
	gps.mu.Lock()
	gps.running = true
	gps.mu.Unlock()

	go gps.loop()

	fmt.Printf("[GPS] Posición instalada: %.6f°, %.6f°\n",
		gps.config.InstalledAt.Latitude,
		gps.config.InstalledAt.Longitude)
}

// Stop detiene la fuente
func (gps *PositionSensor) Stop() {
	gps.mu.Lock()
	gps.running = false
	gps.mu.Unlock()
}

// Pause pausa la fuente
func (gps *PositionSensor) Pause() {
	gps.mu.Lock()
	gps.paused = true
	gps.mu.Unlock()
}

// Resume reanuda la fuente
func (gps *PositionSensor) Resume() {
	gps.mu.Lock()
	gps.paused = false
	gps.mu.Unlock()
}

// SetFix simula pérdida o recuperación del fix
func (gps *PositionSensor) SetFix(hasFix bool) {
	gps.mu.Lock()
	gps.hasFix = hasFix
	gps.mu.Unlock()

	if hasFix {
		fmt.Println("[GPS] Fix recuperado")
	} else {
		fmt.Println("[GPS] Fix perdido")
	}
}

// Current retorna la posición actual (centinela ambos-cero sin fix)
func (gps *PositionSensor) Current() eventbus.PositionData {
	gps.mu.RLock()
	defer gps.mu.RUnlock()

	if !gps.hasFix {
		return eventbus.PositionData{}
	}

	return eventbus.PositionData{
		Latitude:  gps.config.InstalledAt.Latitude,
		Longitude: gps.config.InstalledAt.Longitude,
	}
}

// loop es el bucle principal de la fuente
func (gps *PositionSensor) loop() {
	ticker := time.NewTicker(time.Duration(1000.0/gps.config.Frequency) * time.Millisecond)
	defer ticker.Stop()

	for {
		gps.mu.RLock()
		running := gps.running
		paused := gps.paused
		gps.mu.RUnlock()

		if !running {
			break
		}

		<-ticker.C

		if paused {
			continue
		}

		gps.bus.Publish(eventbus.Event{
			Type:      eventbus.EventPosition,
			Timestamp: time.Now(),
			Data:      gps.Current(),
		})
	}
}

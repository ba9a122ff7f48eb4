package sensors

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
)

// Niveles ambientales típicos del LDR (escala cruda 0-1023)
const (
	nightAmbientLevel = 80
	dayAmbientLevel   = 850
)

// LightSensor simula el sensor de luz ambiental (LDR con divisor de
// tensión). Aplica un promedio móvil corto antes de comparar contra el
// umbral de día, para que una nube o un faro no conmuten el gate.
type LightSensor struct {
	bus    *eventbus.EventBus
	config config.LightConfig

	// Campos protegidos por mutex
	mu      sync.RWMutex
	running bool
	paused  bool
	ambient int   // Nivel ambiental inyectado
	samples []int // Buffer del promedio móvil
}

// NewLightSensor crea un nuevo sensor de luz simulado (arranca de noche)
func NewLightSensor(bus *eventbus.EventBus, cfg config.LightConfig) *LightSensor {
	return &LightSensor{
		bus:     bus,
		config:  cfg,
		ambient: nightAmbientLevel,
		samples: make([]int, 0, cfg.SmoothingWindow),
	}
}

// Start inicia el sensor en su propia goroutine
func (ls *LightSensor) Start() {
	ls.mu.Lock()
	ls.running = true
	ls.mu.Unlock()

	go ls.loop()
}

// Stop detiene el sensor
func (ls *LightSensor) Stop() {
	ls.mu.Lock()
	ls.running = false
	ls.mu.Unlock()
}

// Pause pausa el sensor
func (ls *LightSensor) Pause() {
	ls.mu.Lock()
	ls.paused = true
	ls.mu.Unlock()
}

// Resume reanuda el sensor
func (ls *LightSensor) Resume() {
	ls.mu.Lock()
	ls.paused = false
	ls.mu.Unlock()
}

// SetDaylight conmuta el nivel ambiental entre día y noche
func (ls *LightSensor) SetDaylight(daylight bool) {
	level := nightAmbientLevel
	if daylight {
		level = dayAmbientLevel
	}

	ls.mu.Lock()
	ls.ambient = level
	ls.mu.Unlock()

	fmt.Printf("[Light] Nivel ambiental: %d\n", level)
}

// SetAmbientLevel fija el nivel ambiental crudo directamente
func (ls *LightSensor) SetAmbientLevel(level int) {
	ls.mu.Lock()
	ls.ambient = level
	ls.mu.Unlock()
}

// loop es el bucle principal del sensor
func (ls *LightSensor) loop() {
	ticker := time.NewTicker(time.Duration(1000.0/ls.config.Frequency) * time.Millisecond)
	defer ticker.Stop()

	for {
		ls.mu.RLock()
		running := ls.running
		paused := ls.paused
		ls.mu.RUnlock()

		if !running {
			break
		}

		<-ticker.C

		if paused {
			continue
		}

		data := ls.sample()

		ls.bus.Publish(eventbus.Event{
			Type:      eventbus.EventLight,
			Timestamp: time.Now(),
			Data:      data,
		})
	}
}

// sample lee el nivel con ruido, suaviza y evalúa el umbral de día
func (ls *LightSensor) sample() eventbus.LightData {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	// Ruido de lectura ±15
	raw := ls.ambient + rand.Intn(30) - 15
	if raw < 0 {
		raw = 0
	}
	if raw > 1023 {
		raw = 1023
	}

	ls.samples = append(ls.samples, raw)
	if len(ls.samples) > ls.config.SmoothingWindow {
		ls.samples = ls.samples[1:]
	}

	sum := 0
	for _, s := range ls.samples {
		sum += s
	}
	smooth := sum / len(ls.samples)

	return eventbus.LightData{
		Raw:    smooth,
		IsDark: smooth < ls.config.DaylightThreshold,
	}
}

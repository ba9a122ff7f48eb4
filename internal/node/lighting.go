package node

import (
	"sync"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
)

// LightOutput es la salida de actuación de la luminaria (el PWM del
// driver LED en el hardware real)
type LightOutput interface {
	Apply(data eventbus.LightingData)
}

// SimulatedPWM es la luminaria simulada: guarda el último estado y lo
// publica al bus interno para la UI y el modo headless
type SimulatedPWM struct {
	bus *eventbus.EventBus

	mu   sync.RWMutex
	last eventbus.LightingData
}

// NewSimulatedPWM crea una luminaria simulada
func NewSimulatedPWM(bus *eventbus.EventBus) *SimulatedPWM {
	return &SimulatedPWM{bus: bus}
}

// Apply aplica el duty a la luminaria
func (p *SimulatedPWM) Apply(data eventbus.LightingData) {
	p.mu.Lock()
	changed := data != p.last
	p.last = data
	p.mu.Unlock()

	// Solo publicar cambios: el Tick corre a 10 Hz y la UI no necesita
	// el mismo duty repetido
	if changed && p.bus != nil {
		p.bus.Publish(eventbus.Event{
			Type:      eventbus.EventLighting,
			Timestamp: time.Now(),
			Data:      data,
		})
	}
}

// Last retorna el último estado aplicado (thread-safe)
func (p *SimulatedPWM) Last() eventbus.LightingData {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// NullOutput descarta la actuación (tests)
type NullOutput struct{}

func (NullOutput) Apply(eventbus.LightingData) {}

package node

import (
	"fmt"
	"sync"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/detector"
	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
	"github.com/MarcosBrindi/roadswarm/internal/sensors"
	"github.com/MarcosBrindi/roadswarm/internal/swarm"
)

// Node integra los sensores, el detector de impactos y la máquina de
// estados de un poste. Es el equivalente al loop principal del firmware:
// un ciclo fijo que drena los eventos pendientes, evalúa en orden y
// aplica la salida.
//
// El orden de drenaje por iteración es fijo y deliberado: vibración
// (impactos) antes que proximidad (tráfico), de modo que cuando ambos
// llegan en la misma iteración el accidente prevalece y el tráfico ya
// encuentra el pánico activo.
type Node struct {
	cfg config.Config
	bus *eventbus.EventBus
	sm  *StateMachine

	proximity *sensors.ProximitySensor
	vibration *sensors.VibrationSensor
	light     *sensors.LightSensor
	gps       *sensors.PositionSensor
	impacts   *detector.VibrationDetector

	proximityCh <-chan eventbus.Event
	vibrationCh <-chan eventbus.Event
	lightCh     <-chan eventbus.Event
	positionCh  <-chan eventbus.Event

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewNode arma un nodo completo sobre el bus interno y el bus de
// enjambre dados. Los sensores todavía no corren: llamar Start.
func NewNode(id uint16, cfg config.Config, bus *eventbus.EventBus, swarmBus swarm.Bus) *Node {
	sm := NewStateMachine(id, cfg.Node, swarmBus, NewSimulatedPWM(bus))

	n := &Node{
		cfg:       cfg,
		bus:       bus,
		sm:        sm,
		proximity: sensors.NewProximitySensor(bus, cfg.Sensors.Proximity),
		vibration: sensors.NewVibrationSensor(bus, cfg.Sensors.Vibration),
		light:     sensors.NewLightSensor(bus, cfg.Sensors.Light),
		gps:       sensors.NewPositionSensor(bus, cfg.Sensors.GPS),
		impacts:   detector.NewVibrationDetector(cfg.Detector),
	}

	n.proximityCh = bus.Subscribe(eventbus.EventProximity)
	n.vibrationCh = bus.Subscribe(eventbus.EventVibration)
	n.lightCh = bus.Subscribe(eventbus.EventLight)
	n.positionCh = bus.Subscribe(eventbus.EventPosition)

	// Los mensajes del enjambre llegan por interrupción (goroutine del
	// bus), no por el loop: la máquina de estados ya es thread-safe
	swarmBus.OnReceive(func(msg swarm.Message) {
		sm.HandleSwarmMessage(msg, time.Now())
	})

	return n
}

// StateMachine expone la máquina de estados (telemetría/UI)
func (n *Node) StateMachine() *StateMachine {
	return n.sm
}

// Sensors expone los simuladores para inyección de escenarios
func (n *Node) Sensors() (*sensors.ProximitySensor, *sensors.VibrationSensor, *sensors.LightSensor, *sensors.PositionSensor) {
	return n.proximity, n.vibration, n.light, n.gps
}

// Start arranca los sensores y el loop de control
func (n *Node) Start() {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return
	}
	n.running = true
	n.done = make(chan struct{})
	n.mu.Unlock()

	n.proximity.Start()
	n.vibration.Start()
	n.light.Start()
	n.gps.Start()

	go n.loop()

	fmt.Printf("[Nodo %d] Iniciado\n", n.sm.ID())
}

// Stop detiene el loop y los sensores
func (n *Node) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return
	}
	n.running = false
	done := n.done
	n.mu.Unlock()

	close(done)

	n.proximity.Stop()
	n.vibration.Stop()
	n.light.Stop()
	n.gps.Stop()

	fmt.Printf("[Nodo %d] Detenido\n", n.sm.ID())
}

// loop es el ciclo de control del nodo
func (n *Node) loop() {
	ticker := time.NewTicker(time.Duration(n.cfg.Node.TickInterval * float64(time.Second)))
	defer ticker.Stop()

	n.mu.Lock()
	done := n.done
	n.mu.Unlock()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			n.step(time.Now())
		}
	}
}

// step drena los eventos pendientes en orden fijo y evalúa la iteración
func (n *Node) step(now time.Time) {
	// 1. Vibración: alimentar el detector y confirmar impactos
vibration:
	for {
		select {
		case ev := <-n.vibrationCh:
			data := ev.Data.(eventbus.VibrationData)
			if n.impacts.Sample(data.Level, now) {
				n.sm.HandleImpact(now)
			}
		default:
			break vibration
		}
	}

	// 2. Proximidad: tráfico (ya debounceada por el sensor)
proximity:
	for {
		select {
		case ev := <-n.proximityCh:
			data := ev.Data.(eventbus.ProximityData)
			n.sm.HandleProximity(data.Detected, now)
		default:
			break proximity
		}
	}

	// 3. Luz ambiental: gate de día
light:
	for {
		select {
		case ev := <-n.lightCh:
			data := ev.Data.(eventbus.LightData)
			n.sm.HandleLight(data.IsDark)
		default:
			break light
		}
	}

	// 4. Posición
position:
	for {
		select {
		case ev := <-n.positionCh:
			data := ev.Data.(eventbus.PositionData)
			n.sm.HandlePosition(data)
		default:
			break position
		}
	}

	// 5. Vencimientos por tiempo y actuación
	n.sm.Tick(now)

	// Telemetría del nodo al bus interno
	n.bus.Publish(eventbus.Event{
		Type:      eventbus.EventNodeState,
		Timestamp: now,
		Data:      n.sm.Snapshot(now),
	})
}

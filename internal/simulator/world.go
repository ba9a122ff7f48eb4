package simulator

import (
	"fmt"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
	"github.com/MarcosBrindi/roadswarm/internal/hub"
	"github.com/MarcosBrindi/roadswarm/internal/node"
	"github.com/MarcosBrindi/roadswarm/internal/reporting"
	"github.com/MarcosBrindi/roadswarm/internal/swarm"
)

// Tramo por defecto cuando el config no trae posición instalada
// (carretera Tuxtla - San Cristóbal)
const (
	defaultBaseLatitude  = 16.7531
	defaultBaseLongitude = -93.1156

	// Separación entre postes: ~30 m sobre el eje de la vía
	nodeSpacingLatitude = 0.00027
)

// World es el tramo simulado completo: N nodos sobre el mismo medio de
// broadcast con pérdida, más el hub escuchando. Implementa la interfaz
// de inyección del ejecutor de escenarios.
type World struct {
	cfg *config.Config

	medium *swarm.LocalBus
	hub    *hub.Hub
	nodes  []*node.Node
	buses  []*eventbus.EventBus
}

// NewWorld arma el tramo con los nodos y el hub. Nada corre todavía:
// llamar Start.
func NewWorld(cfg *config.Config, sink reporting.Sink) *World {
	medium := swarm.NewLocalBus(cfg.Simulation.LossRate)

	w := &World{
		cfg:    cfg,
		medium: medium,
	}

	base := cfg.Sensors.GPS.InstalledAt
	if base.Latitude == 0.0 && base.Longitude == 0.0 {
		base = config.Position{
			Latitude:  defaultBaseLatitude,
			Longitude: defaultBaseLongitude,
		}
	}

	for i := 0; i < cfg.Simulation.Nodes; i++ {
		// Config por nodo: misma base, posición instalada desplazada a lo
		// largo del tramo
		nodeCfg := *cfg
		nodeCfg.Sensors.GPS.InstalledAt = config.Position{
			Latitude:  base.Latitude + float64(i)*nodeSpacingLatitude,
			Longitude: base.Longitude,
		}

		bus := eventbus.NewEventBus()
		n := node.NewNode(uint16(i+1), nodeCfg, bus, medium.Attach())

		w.nodes = append(w.nodes, n)
		w.buses = append(w.buses, bus)
	}

	// El hub escucha el mismo medio (con la misma pérdida que los nodos)
	w.hub = hub.NewHub(cfg.Hub, medium.Attach(), sink)

	return w
}

// BuildSink arma el sink de reportes según el config: consola siempre,
// brokers solo si están habilitados
func BuildSink(cfg *config.Config) (reporting.Sink, error) {
	sinks := []reporting.Sink{reporting.LogSink{}}

	if cfg.MQTT.Enabled {
		mqttSink, err := reporting.NewMQTTSink(cfg.MQTT, cfg.DeviceID)
		if err != nil {
			return nil, fmt.Errorf("error iniciando sink MQTT: %w", err)
		}
		sinks = append(sinks, mqttSink)
	}

	if cfg.RabbitMQ.Enabled {
		rabbitSink, err := reporting.NewRabbitMQSink(cfg.RabbitMQ, cfg.DeviceID)
		if err != nil {
			return nil, fmt.Errorf("error iniciando sink RabbitMQ: %w", err)
		}
		sinks = append(sinks, rabbitSink)
	}

	return reporting.NewMultiSink(sinks...), nil
}

// Start arranca todos los nodos
func (w *World) Start() {
	fmt.Printf("🚀 [World] Tramo con %d nodos (pérdida %.0f%%)\n",
		len(w.nodes), w.cfg.Simulation.LossRate*100)

	for _, n := range w.nodes {
		n.Start()
	}
}

// Stop detiene los nodos y cierra el medio
func (w *World) Stop() {
	for _, n := range w.nodes {
		n.Stop()
	}
	for _, bus := range w.buses {
		bus.Close()
	}
	w.medium.Close()

	fmt.Println("🛑 [World] Tramo detenido")
}

// Hub retorna el hub del tramo
func (w *World) Hub() *hub.Hub {
	return w.hub
}

// Nodes retorna los nodos del tramo
func (w *World) Nodes() []*node.Node {
	return w.nodes
}

// NodeBus retorna el bus interno de un nodo (UI)
func (w *World) NodeBus(i int) *eventbus.EventBus {
	if i < 0 || i >= len(w.buses) {
		return nil
	}
	return w.buses[i]
}

// ========================================
// INYECCIÓN (interfaz del ejecutor de escenarios)
// ========================================

// VehiclePass simula el paso de un vehículo frente a un nodo
func (w *World) VehiclePass(i int, duration time.Duration) {
	if i < 0 || i >= len(w.nodes) {
		return
	}
	proximity, _, _, _ := w.nodes[i].Sensors()
	proximity.SimulateVehiclePass(duration)
}

// Impact simula una ráfaga de pulsos de impacto en un nodo
func (w *World) Impact(i int, pulses int) {
	if i < 0 || i >= len(w.nodes) {
		return
	}
	_, vibration, _, _ := w.nodes[i].Sensors()
	vibration.SimulateImpact(pulses)
}

// SetDaylight conmuta día/noche en todo el tramo
func (w *World) SetDaylight(daylight bool) {
	for _, n := range w.nodes {
		_, _, light, _ := n.Sensors()
		light.SetDaylight(daylight)
	}
}

// SetAmbientLevel fija el nivel crudo del LDR en todo el tramo
func (w *World) SetAmbientLevel(level int) {
	for _, n := range w.nodes {
		_, _, light, _ := n.Sensors()
		light.SetAmbientLevel(level)
	}
}

// SetGPSFix conmuta el fix GPS de un nodo
func (w *World) SetGPSFix(i int, fix bool) {
	if i < 0 || i >= len(w.nodes) {
		return
	}
	_, _, _, gps := w.nodes[i].Sensors()
	gps.SetFix(fix)
}

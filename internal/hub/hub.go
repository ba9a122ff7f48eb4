package hub

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/reporting"
	"github.com/MarcosBrindi/roadswarm/internal/swarm"
)

// NodeSnapshot es la última vista que el hub tiene de cada nodo,
// armada a partir de los mensajes observados en el medio
type NodeSnapshot struct {
	NodeID      uint16
	LastCommand swarm.Command
	Latitude    float64
	Longitude   float64
	HasPosition bool
	LastHeard   time.Time
	Accidents   int // Accidentes aceptados de este origen
}

// Hub escucha el medio de broadcast, deduplica accidentes y mantiene el
// tablero de nodos observados. No participa del enjambre: nunca emite.
type Hub struct {
	router *DedupRouter
	bus    swarm.Bus

	mu    sync.Mutex
	nodes map[uint16]*NodeSnapshot
}

// NewHub crea el hub sobre el bus y el sink dados
func NewHub(cfg config.HubConfig, bus swarm.Bus, sink reporting.Sink) *Hub {
	h := &Hub{
		router: NewDedupRouter(cfg, sink),
		bus:    bus,
		nodes:  make(map[uint16]*NodeSnapshot),
	}

	bus.OnReceive(func(msg swarm.Message) {
		h.handle(msg, time.Now())
	})

	return h
}

// Router expone el router de dedup (telemetría/tests)
func (h *Hub) Router() *DedupRouter {
	return h.router
}

// handle procesa un mensaje observado en el medio
func (h *Hub) handle(msg swarm.Message, now time.Time) {
	outcome := h.router.HandleMessage(msg, now)

	h.mu.Lock()
	snap, ok := h.nodes[msg.Origin]
	if !ok {
		snap = &NodeSnapshot{NodeID: msg.Origin}
		h.nodes[msg.Origin] = snap
	}
	snap.LastCommand = msg.Command
	snap.LastHeard = now
	if msg.HasPosition() {
		snap.Latitude = msg.Latitude
		snap.Longitude = msg.Longitude
		snap.HasPosition = true
	}
	if outcome == OutcomeForwarded || outcome == OutcomeSinkFailed {
		snap.Accidents++
	}
	h.mu.Unlock()
}

// Snapshot retorna el tablero de nodos ordenado por ID
func (h *Hub) Snapshot() []NodeSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]NodeSnapshot, 0, len(h.nodes))
	for _, snap := range h.nodes {
		out = append(out, *snap)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NodeID < out[j].NodeID
	})
	return out
}

// PrintStatus imprime el tablero a la consola (modo headless)
func (h *Hub) PrintStatus(now time.Time) {
	snaps := h.Snapshot()
	forwarded, duplicates, failures := h.router.Stats()

	fmt.Printf("[Hub] Nodos observados: %d | reenviados: %d, ecos: %d, fallos: %d\n",
		len(snaps), forwarded, duplicates, failures)

	for _, s := range snaps {
		pos := "sin posición"
		if s.HasPosition {
			pos = fmt.Sprintf("%.6f°, %.6f°", s.Latitude, s.Longitude)
		}
		fmt.Printf("  nodo %d: último=%s hace %.1fs (%s) accidentes=%d\n",
			s.NodeID, s.LastCommand, now.Sub(s.LastHeard).Seconds(), pos, s.Accidents)
	}
}

package hub

import (
	"fmt"
	"sync"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/reporting"
	"github.com/MarcosBrindi/roadswarm/internal/swarm"
)

// Outcome clasifica qué hizo el router con un mensaje recibido
type Outcome int

const (
	// OutcomeIgnored mensaje sin acción (tráfico, idle)
	OutcomeIgnored Outcome = iota
	// OutcomeForwarded accidente nuevo reenviado al sink
	OutcomeForwarded
	// OutcomeDuplicate accidente dentro de la ventana de dedup de su origen
	OutcomeDuplicate
	// OutcomeSinkFailed accidente aceptado pero el sink falló (sin reintento)
	OutcomeSinkFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeForwarded:
		return "Forwarded"
	case OutcomeDuplicate:
		return "Duplicate"
	case OutcomeSinkFailed:
		return "SinkFailed"
	default:
		return "Ignored"
	}
}

// DedupRouter es el corazón del hub: decide qué accidentes se reenvían
// y cuáles se absorben como ecos del mismo evento físico.
//
// La ventana de dedup es POR ORIGEN: dos postes distintos reportando al
// mismo tiempo son dos accidentes (o dos perspectivas del mismo, y eso
// lo resuelve el consumidor con las posiciones). El debounce solo
// protege contra el mismo poste repitiendo su propio evento.
type DedupRouter struct {
	cfg  config.HubConfig
	sink reporting.Sink

	mu       sync.Mutex
	lastSeen map[uint16]time.Time // Último accidente aceptado por origen

	// Contadores (telemetría)
	forwarded  int
	duplicates int
	failures   int
}

// NewDedupRouter crea el router con el sink de reportes dado
func NewDedupRouter(cfg config.HubConfig, sink reporting.Sink) *DedupRouter {
	return &DedupRouter{
		cfg:      cfg,
		sink:     sink,
		lastSeen: make(map[uint16]time.Time),
	}
}

// HandleMessage procesa un mensaje del enjambre y retorna el resultado
func (r *DedupRouter) HandleMessage(msg swarm.Message, receivedAt time.Time) Outcome {
	if msg.Command != swarm.CommandAccident {
		// Tráfico e idle son telemetría del enjambre, no se reenvían
		return OutcomeIgnored
	}

	r.mu.Lock()

	if last, ok := r.lastSeen[msg.Origin]; ok &&
		receivedAt.Sub(last) < r.window() {
		r.duplicates++
		r.mu.Unlock()

		fmt.Printf("[Hub] Eco del nodo %d absorbido (ventana de dedup)\n", msg.Origin)
		return OutcomeDuplicate
	}

	// La ventana se arma ANTES de intentar el reenvío: un fallo del sink
	// no reabre la ventana (sin reintentos, el evento se pierde y queda
	// en el log)
	r.lastSeen[msg.Origin] = receivedAt
	r.mu.Unlock()

	report := reporting.AccidentReport{
		OriginID:    msg.Origin,
		Latitude:    msg.Latitude,
		Longitude:   msg.Longitude,
		HasPosition: msg.HasPosition(),
		EmittedAtMS: msg.EmittedAtMS,
		ReceivedAt:  receivedAt,
		WindowStart: receivedAt,
	}

	if err := r.sink.Report(report); err != nil {
		r.mu.Lock()
		r.failures++
		r.mu.Unlock()

		fmt.Printf("⚠️  [Hub] Error reenviando accidente del nodo %d: %v\n", msg.Origin, err)
		return OutcomeSinkFailed
	}

	r.mu.Lock()
	r.forwarded++
	r.mu.Unlock()

	fmt.Printf("[Hub] 🚨 Accidente del nodo %d reenviado\n", msg.Origin)
	return OutcomeForwarded
}

// Stats retorna los contadores acumulados
func (r *DedupRouter) Stats() (forwarded, duplicates, failures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forwarded, r.duplicates, r.failures
}

func (r *DedupRouter) window() time.Duration {
	return time.Duration(r.cfg.DebounceWindow * float64(time.Second))
}

package node

import (
	"fmt"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/swarm"
)

// ReactionPolicy define cómo reacciona un nodo a los mensajes de OTROS
// nodos. La regla de oro: un nodo que reacciona nunca retransmite. La
// onda de soporte se propaga visualmente, no por la red (sin tormentas
// de broadcast).
type ReactionPolicy struct{}

// DefaultReactionPolicy es la política aplicada por HandleSwarmMessage
var DefaultReactionPolicy = ReactionPolicy{}

// React aplica la reacción al mensaje de un par. El llamador ya
// descartó el loopback de origen propio.
func (ReactionPolicy) React(sm *StateMachine, msg swarm.Message, now time.Time) {
	switch msg.Command {
	case swarm.CommandTraffic:
		// Pre-iluminación: encender a duty máximo y resetear el timer
		// de retención, SIN pasar por la transición a Tracking y sin
		// emitir nada. Es un efecto de actuación puro.
		sm.mu.Lock()
		sm.lastTrafficAt = now
		sm.preLitUntil = now.Add(sm.trackingHold())
		sm.mu.Unlock()

		fmt.Printf("[Nodo %d] Pre-iluminando por tráfico del nodo %d\n", sm.id, msg.Origin)

	case swarm.CommandAccident:
		// Modo soporte: misma actuación de pánico (estrobo incluido),
		// entrada pegajosa, cero retransmisión
		sm.mu.Lock()
		if sm.accidentActive {
			sm.mu.Unlock()
			return
		}
		sm.enterPanicLocked(now, true)
		sm.mu.Unlock()

		fmt.Printf("[Nodo %d] Pánico de SOPORTE por accidente del nodo %d\n", sm.id, msg.Origin)

	case swarm.CommandIdle:
		// Informativo: sin reacción local
	}
}

package node

import (
	"fmt"
	"sync"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
	"github.com/MarcosBrindi/roadswarm/internal/swarm"
)

// StateMachine es el núcleo de control del nodo: consume muestras de
// sensores y la salida del detector de impactos, maneja la luminaria y
// decide cuándo emitir mensajes al enjambre.
//
// El estado es compartido entre el loop de muestreo y el handler
// asíncrono del bus de enjambre: TODO acceso pasa por el mutex. No hay
// paralelismo real en el hardware de destino, pero sí intercalado, y
// eso basta para corromper los timestamps de cooldown sin la sección
// crítica.
//
// Todos los métodos reciben el instante explícito: el reloj se muestrea
// una vez por iteración del loop y las pruebas lo controlan.
type StateMachine struct {
	mu     sync.Mutex
	cfg    config.NodeConfig
	id     uint16
	bus    swarm.Bus
	output LightOutput

	start time.Time // Referencia monotónica local para emittedAtMs

	state      eventbus.LightingState
	brightness uint8
	dark       bool

	lastPosition eventbus.PositionData

	lastTrafficAt          time.Time // Última detección local (timer de retención)
	lastTrafficBroadcastAt time.Time
	preLitUntil            time.Time // Pre-iluminación por tráfico de un par

	accidentActive    bool
	accidentEnteredAt time.Time
	supporting        bool // Pánico de soporte (por mensaje de par)
	strobeUntil       time.Time
}

// NewStateMachine crea la máquina de estados del nodo
func NewStateMachine(id uint16, cfg config.NodeConfig, bus swarm.Bus, output LightOutput) *StateMachine {
	return &StateMachine{
		cfg:    cfg,
		id:     id,
		bus:    bus,
		output: output,
		start:  time.Now(),
		state:  eventbus.LightingIdle,
		// Arranque pesimista: a oscuras hasta que el sensor de luz diga
		// lo contrario (la función de alumbrado no debe esperar)
		dark: true,
	}
}

// ID retorna la identidad del nodo en el enjambre
func (sm *StateMachine) ID() uint16 {
	return sm.id
}

// ========================================
// ENTRADAS DEL LOOP DE MUESTREO
// ========================================

// HandleImpact procesa un impacto confirmado por el detector.
// Se evalúa SIEMPRE antes que el tráfico en la misma iteración: un
// accidente prevalece incondicionalmente.
func (sm *StateMachine) HandleImpact(now time.Time) {
	sm.mu.Lock()

	if sm.accidentActive {
		// Pánico pegajoso: disparos repetidos del detector mientras el
		// estado sigue activo se ignoran (guardia de reentrada)
		sm.mu.Unlock()
		return
	}

	msg := sm.enterPanicLocked(now, false)
	sm.mu.Unlock()

	fmt.Printf("[Nodo %d] IMPACTO CONFIRMADO - entrando en pánico\n", sm.id)

	// El broadcast va fuera de la sección crítica: la actuación local ya
	// ocurrió y un fallo de transmisión no debe revertirla
	sm.send(msg)
}

// HandleProximity procesa la muestra validada del sensor de proximidad
func (sm *StateMachine) HandleProximity(detected bool, now time.Time) {
	if !detected {
		return
	}

	sm.mu.Lock()

	if sm.accidentActive {
		// El manejo de tráfico queda suspendido durante el pánico
		sm.mu.Unlock()
		return
	}

	sm.lastTrafficAt = now

	var msg *swarm.Message
	if sm.state == eventbus.LightingIdle {
		sm.state = eventbus.LightingTracking
		fmt.Printf("[Nodo %d] Vehículo detectado - TRACKING\n", sm.id)

		// La entrada a Tracking no espera el cooldown (la luz reacciona
		// ya); solo el broadcast se regula aparte
		if sm.lastTrafficBroadcastAt.IsZero() ||
			now.Sub(sm.lastTrafficBroadcastAt) >= sm.cooldown() {
			sm.lastTrafficBroadcastAt = now
			msg = sm.buildMessageLocked(swarm.CommandTraffic, now)
		}
	}

	sm.mu.Unlock()
	sm.send(msg)
}

// HandleLight actualiza el gate de luz de día.
// Política: el gate afecta SOLO la actuación. La detección de tráfico y
// accidentes sigue corriendo de día; un choque a mediodía se reporta
// igual, solo que sin encender la luminaria.
func (sm *StateMachine) HandleLight(dark bool) {
	sm.mu.Lock()
	sm.dark = dark
	sm.mu.Unlock()
}

// HandlePosition actualiza la última posición conocida
func (sm *StateMachine) HandlePosition(pos eventbus.PositionData) {
	sm.mu.Lock()
	sm.lastPosition = pos
	sm.mu.Unlock()
}

// Tick evalúa los vencimientos por tiempo y aplica la salida.
// Llamar una vez por iteración del loop, con el reloj muestreado una vez.
func (sm *StateMachine) Tick(now time.Time) {
	sm.mu.Lock()

	// Auto-reset del pánico: reseteo local de seguridad, no dedup (el
	// dedup vive en el hub)
	if sm.accidentActive && now.Sub(sm.accidentEnteredAt) >= sm.panicReset() {
		sm.accidentActive = false
		sm.supporting = false
		sm.state = eventbus.LightingIdle
		fmt.Printf("[Nodo %d] Pánico auto-reseteado tras %.0fs\n", sm.id, sm.cfg.PanicReset)
	}

	// Retención de iluminación: Tracking vuelve a Idle tras el hold sin
	// nuevas detecciones ("iluminación persistente", no detección continua)
	if sm.state == eventbus.LightingTracking &&
		now.Sub(sm.lastTrafficAt) >= sm.trackingHold() {
		sm.state = eventbus.LightingIdle
	}

	out := sm.desiredOutputLocked(now)
	sm.mu.Unlock()

	sm.output.Apply(out)
}

// ========================================
// ENTRADA DEL BUS DE ENJAMBRE
// ========================================

// HandleSwarmMessage es el handler de entrega asíncrona del bus.
// Corre fuera del loop de muestreo; de ahí el mutex en todo lo demás.
func (sm *StateMachine) HandleSwarmMessage(msg swarm.Message, now time.Time) {
	if msg.Origin == sm.id {
		// Loopback del medio: falla, no señal
		return
	}

	DefaultReactionPolicy.React(sm, msg, now)
}

// ========================================
// CONSULTAS
// ========================================

// Snapshot retorna el estado agregado del nodo (telemetría/UI)
func (sm *StateMachine) Snapshot(now time.Time) eventbus.NodeStateData {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	snap := eventbus.NodeStateData{
		NodeID:     sm.id,
		State:      sm.state,
		Brightness: sm.desiredBrightnessLocked(now),
		Supporting: sm.supporting,
		Daylight:   !sm.dark,
		HasFix:     sm.lastPosition.Valid(),
		Timestamp:  now,
	}
	if !sm.lastTrafficAt.IsZero() {
		snap.LastTraffic = sm.lastTrafficAt
	}
	if sm.accidentActive {
		snap.AccidentSince = sm.accidentEnteredAt
	}
	return snap
}

// ========================================
// INTERNOS (requieren sm.mu)
// ========================================

// enterPanicLocked entra al estado de pánico y construye el mensaje a
// emitir (nil en modo soporte). El llamador ya verificó la guardia de
// reentrada o la verifica aquí.
func (sm *StateMachine) enterPanicLocked(now time.Time, supporting bool) *swarm.Message {
	sm.state = eventbus.LightingPanic
	sm.accidentActive = true
	sm.accidentEnteredAt = now
	sm.supporting = supporting
	sm.strobeUntil = now.Add(sm.strobeDuration())

	if supporting {
		// Modo soporte: misma actuación, cero tráfico de red (la onda
		// visual se propaga, los mensajes no se amplifican)
		return nil
	}

	return sm.buildMessageLocked(swarm.CommandAccident, now)
}

// buildMessageLocked arma un mensaje con la identidad y posición actuales
func (sm *StateMachine) buildMessageLocked(cmd swarm.Command, now time.Time) *swarm.Message {
	return &swarm.Message{
		Origin:      sm.id,
		Command:     cmd,
		Latitude:    sm.lastPosition.Latitude,
		Longitude:   sm.lastPosition.Longitude,
		EmittedAtMS: now.Sub(sm.start).Milliseconds(),
	}
}

// desiredOutputLocked calcula la salida de actuación completa
func (sm *StateMachine) desiredOutputLocked(now time.Time) eventbus.LightingData {
	return eventbus.LightingData{
		NodeID:     sm.id,
		State:      sm.state,
		Brightness: sm.desiredBrightnessLocked(now),
		Strobing:   sm.accidentActive && now.Before(sm.strobeUntil),
		Supporting: sm.supporting,
		Daylight:   !sm.dark,
	}
}

// desiredBrightnessLocked calcula el duty según estado, estrobo,
// pre-iluminación y gate de día
func (sm *StateMachine) desiredBrightnessLocked(now time.Time) uint8 {
	// Gate de día: salida forzada a cero sin importar el estado
	if !sm.dark {
		return 0
	}

	switch sm.state {
	case eventbus.LightingPanic:
		if now.Before(sm.strobeUntil) {
			// Fase de estrobo: parpadeo al periodo configurado
			phase := now.Sub(sm.accidentEnteredAt) / sm.strobeInterval()
			if phase%2 == 1 {
				return 0
			}
		}
		return sm.cfg.FullDuty

	case eventbus.LightingTracking:
		return sm.cfg.FullDuty

	default:
		// Pre-iluminación por tráfico de un par: duty máximo sin
		// transición de estado
		if now.Before(sm.preLitUntil) {
			return sm.cfg.FullDuty
		}
		return sm.cfg.IdleDuty
	}
}

// send emite un mensaje al enjambre (fire-and-forget, error solo a log)
func (sm *StateMachine) send(msg *swarm.Message) {
	if msg == nil {
		return
	}

	if err := sm.bus.Send(*msg); err != nil {
		// El fallo de transmisión no bloquea ni revierte nada: la
		// respuesta local ya ocurrió
		fmt.Printf("[Nodo %d] Error transmitiendo %s: %v\n", sm.id, msg.Command, err)
	}
}

// ========================================
// DURACIONES DEL CONFIG
// ========================================

func (sm *StateMachine) trackingHold() time.Duration {
	return time.Duration(sm.cfg.TrackingHold * float64(time.Second))
}

func (sm *StateMachine) cooldown() time.Duration {
	return time.Duration(sm.cfg.TrafficCooldown * float64(time.Second))
}

func (sm *StateMachine) panicReset() time.Duration {
	return time.Duration(sm.cfg.PanicReset * float64(time.Second))
}

func (sm *StateMachine) strobeDuration() time.Duration {
	return time.Duration(sm.cfg.StrobeDuration * float64(time.Second))
}

func (sm *StateMachine) strobeInterval() time.Duration {
	return time.Duration(sm.cfg.StrobeInterval * float64(time.Second))
}

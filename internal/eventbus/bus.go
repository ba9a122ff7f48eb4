package eventbus

import (
	"sync"
)

// Tamaño del buffer de cada canal de suscripción. Si un suscriptor se
// atrasa más que esto, los eventos nuevos se descartan (nunca se bloquea
// al publicador: el loop de muestreo no puede detenerse).
const subscriberBuffer = 16

// EventBus es el bus interno de eventos de un proceso (patrón Pub/Sub).
// Conecta los sensores con la máquina de estados y la UI. No es el medio
// de enjambre: eso vive en internal/swarm.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]chan Event
	closed      bool
}

// NewEventBus crea una nueva instancia del Event Bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
	}
}

// Subscribe crea una suscripción a un tipo de evento específico.
// Retorna un canal read-only para recibir eventos.
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)

	if eb.closed {
		// Bus cerrado: canal cerrado de inmediato para que los
		// range de los suscriptores terminen
		close(ch)
		return ch
	}

	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// Publish publica un evento a todos los suscriptores de ese tipo
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type] {
		// Non-blocking send: si el canal está lleno, se descarta
		select {
		case ch <- event:
		default:
		}
	}
}

// Close cierra todos los canales de suscriptores
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}
	eb.closed = true

	for _, subs := range eb.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}

	eb.subscribers = make(map[EventType][]chan Event)
}

package swarm

import (
	"math/rand"
	"sync"
)

// LocalBus simula el medio de broadcast dentro de un solo proceso
// (modo sim). Cada nodo y el hub se conectan con Attach y reciben una
// terminal propia. La entrega es asíncrona (una goroutine por entrega,
// como la interrupción de recepción del radio real), sin orden entre
// terminales y con pérdida aleatoria configurable.
type LocalBus struct {
	mu        sync.RWMutex
	terminals []*Terminal
	lossRate  float64
	loopback  bool // entregar también al emisor (falla del medio real, útil en tests)
	closed    bool
}

// NewLocalBus crea un medio local con la probabilidad de pérdida dada (0.0 a 1.0)
func NewLocalBus(lossRate float64) *LocalBus {
	return &LocalBus{
		lossRate: lossRate,
	}
}

// SetLoopback habilita la entrega del mensaje al propio emisor.
// El medio real puede hacerlo; los receptores deben descartarlo.
func (lb *LocalBus) SetLoopback(enabled bool) {
	lb.mu.Lock()
	lb.loopback = enabled
	lb.mu.Unlock()
}

// Attach conecta una nueva terminal al medio
func (lb *LocalBus) Attach() *Terminal {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	t := &Terminal{bus: lb}
	lb.terminals = append(lb.terminals, t)
	return t
}

// Close cierra el medio completo; las terminales dejan de entregar
func (lb *LocalBus) Close() {
	lb.mu.Lock()
	lb.closed = true
	lb.terminals = nil
	lb.mu.Unlock()
}

// broadcast reparte el blob a todas las terminales salvo (normalmente) la emisora
func (lb *LocalBus) broadcast(from *Terminal, data []byte) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	if lb.closed {
		return
	}

	for _, t := range lb.terminals {
		if t == from && !lb.loopback {
			continue
		}

		// Pérdida aleatoria por receptor: un mensaje puede llegar a
		// unos pares y a otros no, igual que en el aire. El generador
		// global es thread-safe: los nodos transmiten en paralelo.
		if lb.lossRate > 0 && rand.Float64() < lb.lossRate {
			continue
		}

		t.deliver(data)
	}
}

// Terminal es el extremo del medio local para un proceso (nodo o hub).
// Implementa Bus.
type Terminal struct {
	bus *LocalBus

	mu      sync.RWMutex
	handler Handler
}

// Send transmite el mensaje a todas las demás terminales
func (t *Terminal) Send(msg Message) error {
	// El blob viaja serializado: los receptores decodifican igual que
	// con el transporte real
	t.bus.broadcast(t, msg.Encode())
	return nil
}

// OnReceive registra el handler de entrega
func (t *Terminal) OnReceive(handler Handler) {
	t.mu.Lock()
	t.handler = handler
	t.mu.Unlock()
}

// Close desconecta la terminal (deja de recibir)
func (t *Terminal) Close() error {
	t.mu.Lock()
	t.handler = nil
	t.mu.Unlock()
	return nil
}

// deliver entrega un blob de forma asíncrona al handler registrado
func (t *Terminal) deliver(data []byte) {
	t.mu.RLock()
	handler := t.handler
	t.mu.RUnlock()

	if handler == nil {
		return
	}

	msg, err := Decode(data)
	if err != nil {
		// Blob malformado: se descarta en silencio, el protocolo no
		// tiene forma de reportarlo al emisor
		return
	}

	// Goroutine por entrega: intercala con el loop de muestreo del
	// receptor en cualquier punto, igual que la interrupción real
	go handler(msg)
}

package swarm

// Handler procesa un mensaje recibido del medio. Se ejecuta en la
// goroutine de recepción del bus, fuera del loop de muestreo del
// proceso: todo estado que toque debe protegerse con mutex.
type Handler func(Message)

// Bus abstrae el medio de broadcast de un solo salto que une a todos
// los nodos y al hub. Sin orden, sin acuse de recibo, sin reintentos.
type Bus interface {
	// Send transmite a todos los pares (fire-and-forget). El error
	// indica solo fallo local de transmisión y sirve únicamente para
	// log, nunca para control de flujo.
	Send(msg Message) error

	// OnReceive registra el handler de entrega asíncrona.
	// A lo sumo un handler por proceso; la segunda llamada reemplaza.
	OnReceive(handler Handler)

	// Close libera el medio
	Close() error
}

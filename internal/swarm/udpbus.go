package swarm

import (
	"fmt"
	"net"
	"sync"

	"github.com/MarcosBrindi/roadswarm/internal/config"
)

// UDPBus implementa el medio de enjambre sobre broadcast UDP de un solo
// salto (modo node / hub). Cada datagrama es un blob Message sin framing;
// datagramas de otro tamaño se descartan. El socket de recepción puede
// escuchar la propia transmisión: el loopback se tolera aguas arriba
// (PeerReactionPolicy descarta origen propio).
type UDPBus struct {
	conn     *net.UDPConn
	destAddr *net.UDPAddr

	mu      sync.RWMutex
	handler Handler
	closed  bool
}

// NewUDPBus abre el socket de broadcast y arranca el loop de recepción
func NewUDPBus(cfg config.SwarmUDPConfig) (*UDPBus, error) {
	listenAddr := &net.UDPAddr{IP: net.IPv4zero, Port: cfg.Port}
	conn, err := net.ListenUDP("udp4", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("error abriendo socket UDP: %w", err)
	}

	destIP := net.ParseIP(cfg.BroadcastAddr)
	if destIP == nil {
		conn.Close()
		return nil, fmt.Errorf("dirección de broadcast inválida: %s", cfg.BroadcastAddr)
	}

	bus := &UDPBus{
		conn:     conn,
		destAddr: &net.UDPAddr{IP: destIP, Port: cfg.Port},
	}

	go bus.receiveLoop()

	fmt.Printf("[SwarmBus] Escuchando broadcast UDP en :%d\n", cfg.Port)
	return bus, nil
}

// Send transmite el mensaje como un solo datagrama de broadcast
func (b *UDPBus) Send(msg Message) error {
	_, err := b.conn.WriteToUDP(msg.Encode(), b.destAddr)
	if err != nil {
		return fmt.Errorf("error transmitiendo al enjambre: %w", err)
	}
	return nil
}

// OnReceive registra el handler de entrega
func (b *UDPBus) OnReceive(handler Handler) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
}

// Close cierra el socket y detiene el loop de recepción
func (b *UDPBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return b.conn.Close()
}

// receiveLoop lee datagramas y los entrega al handler
func (b *UDPBus) receiveLoop() {
	buf := make([]byte, 64) // los blobs miden MessageSize; margen para descartar basura

	for {
		n, _, err := b.conn.ReadFromUDP(buf)
		if err != nil {
			b.mu.RLock()
			closed := b.closed
			b.mu.RUnlock()
			if closed {
				return
			}
			// Error transitorio de lectura: el medio es con pérdida
			// de todos modos, seguir escuchando
			continue
		}

		msg, err := Decode(buf[:n])
		if err != nil {
			// Datagrama ajeno o truncado: descartar
			continue
		}

		b.mu.RLock()
		handler := b.handler
		b.mu.RUnlock()

		if handler != nil {
			handler(msg)
		}
	}
}

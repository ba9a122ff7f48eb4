package swarm

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ========================================
// MENSAJE DEL ENJAMBRE
// ========================================

// Command es el tipo de evento que anuncia un nodo
type Command uint8

const (
	CommandIdle Command = iota
	CommandTraffic
	CommandAccident
)

func (c Command) String() string {
	switch c {
	case CommandIdle:
		return "IDLE"
	case CommandTraffic:
		return "TRAFFIC"
	case CommandAccident:
		return "ACCIDENT"
	default:
		return fmt.Sprintf("COMMAND(%d)", uint8(c))
	}
}

// Message es la única entidad que viaja por el medio de broadcast.
// Layout fijo little-endian, sin framing, sin checksum, sin número de
// secuencia: duplicados y desorden se toleran por diseño aguas arriba.
//
//	origin    uint16   2 bytes
//	command   uint8    1 byte
//	latitude  float64  8 bytes
//	longitude float64  8 bytes
//	emittedAt int64    8 bytes (ms monotónicos locales del emisor)
//
// EmittedAtMS solo tiene sentido para el emisor: los relojes de los
// nodos no están sincronizados y nunca se compara entre nodos.
type Message struct {
	Origin      uint16
	Command     Command
	Latitude    float64
	Longitude   float64
	EmittedAtMS int64
}

// MessageSize es el tamaño exacto del blob en bytes
const MessageSize = 2 + 1 + 8 + 8 + 8

// HasPosition indica si el mensaje lleva posición válida.
// El centinela "ambos cero" significa sin fix (igual que el GPS).
func (m Message) HasPosition() bool {
	return m.Latitude != 0.0 || m.Longitude != 0.0
}

// Encode serializa el mensaje al blob de tamaño fijo
func (m Message) Encode() []byte {
	buf := make([]byte, MessageSize)
	binary.LittleEndian.PutUint16(buf[0:2], m.Origin)
	buf[2] = byte(m.Command)
	binary.LittleEndian.PutUint64(buf[3:11], math.Float64bits(m.Latitude))
	binary.LittleEndian.PutUint64(buf[11:19], math.Float64bits(m.Longitude))
	binary.LittleEndian.PutUint64(buf[19:27], uint64(m.EmittedAtMS))
	return buf
}

// Decode reconstruye un mensaje desde el blob. Cualquier payload que no
// mida exactamente MessageSize se rechaza: un par con layout distinto
// interpretaría los bytes en silencio y eso es peor que descartar.
func Decode(data []byte) (Message, error) {
	if len(data) != MessageSize {
		return Message{}, fmt.Errorf("payload de %d bytes, se esperaban %d", len(data), MessageSize)
	}

	var m Message
	m.Origin = binary.LittleEndian.Uint16(data[0:2])
	m.Command = Command(data[2])
	m.Latitude = math.Float64frombits(binary.LittleEndian.Uint64(data[3:11]))
	m.Longitude = math.Float64frombits(binary.LittleEndian.Uint64(data[11:19]))
	m.EmittedAtMS = int64(binary.LittleEndian.Uint64(data[19:27]))

	if m.Command > CommandAccident {
		return Message{}, fmt.Errorf("comando desconocido: %d", data[2])
	}

	return m, nil
}

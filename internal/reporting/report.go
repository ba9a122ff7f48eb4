package reporting

import (
	"fmt"
	"time"
)

// AccidentReport es el reporte que el hub reenvía a los servicios
// externos cuando acepta un accidente nuevo (fuera de la ventana de
// dedup de su origen)
type AccidentReport struct {
	OriginID    uint16    `json:"origin_id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	HasPosition bool      `json:"has_position"`
	EmittedAtMS int64     `json:"emitted_at_ms"`
	ReceivedAt  time.Time `json:"received_at"`

	// WindowStart marca el inicio de la ventana de dedup que este reporte
	// armó para su origen. El router arma la ventana al aceptar, así que
	// coincide con ReceivedAt; va explícito para que el consumidor no
	// dependa de ese detalle.
	WindowStart time.Time `json:"window_start"`
}

// Sink es el destino de reportes del hub. Un error indica que el
// reporte no salió; el hub lo registra y sigue (sin reintentos, el
// dedup ya quedó armado y un duplicado posterior no lo reenviará).
type Sink interface {
	Report(report AccidentReport) error
	Close() error
}

// LogSink escribe los reportes a la consola. Es el sink por defecto del
// modo simulación, donde no hay broker disponible.
type LogSink struct{}

// Report imprime el reporte
func (LogSink) Report(r AccidentReport) error {
	pos := "sin posición"
	if r.HasPosition {
		pos = fmt.Sprintf("%.6f°, %.6f°", r.Latitude, r.Longitude)
	}
	fmt.Printf("[Reporte] 🚨 ACCIDENTE nodo %d (%s) emitido_ms=%d\n",
		r.OriginID, pos, r.EmittedAtMS)
	return nil
}

// Close no hace nada
func (LogSink) Close() error {
	return nil
}

// MultiSink reenvía cada reporte a todos los sinks. Intenta todos
// aunque alguno falle y retorna el primer error encontrado.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink crea un sink compuesto
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Report reenvía a todos los sinks
func (m *MultiSink) Report(r AccidentReport) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Report(r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close cierra todos los sinks
func (m *MultiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

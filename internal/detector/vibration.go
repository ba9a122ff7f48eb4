package detector

import (
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
)

// VibrationDetector convierte la línea digital ruidosa del sensor de
// vibración en un evento de impacto confirmado, con un algoritmo de
// flancos y ventana:
//
//   - Cada flanco de subida inicia un pulso e incrementa el contador
//     de la ventana; el flanco de bajada lo termina (la duración se
//     registra pero no condiciona la confirmación).
//   - Si pasa más del intervalo de silencio sin un pulso nuevo, el
//     contador se reinicia a cero.
//   - Cuando el contador llega al umbral con el último pulso dentro de
//     la ventana de recencia, se dispara exactamente un evento y el
//     contador vuelve a cero (disparo por flanco: no vuelve a disparar
//     hasta que se acumule un cluster nuevo).
//
// No es thread-safe: pertenece al loop de muestreo del nodo.
type VibrationDetector struct {
	confirmCount  int
	recencyWindow time.Duration
	quietReset    time.Duration

	prevLevel    bool
	windowCount  int
	lastPulseAt  time.Time
	pulseStartAt time.Time
	lastPulseDur time.Duration
}

// NewVibrationDetector crea un detector con los parámetros del config
func NewVibrationDetector(cfg config.DetectorConfig) *VibrationDetector {
	return &VibrationDetector{
		confirmCount:  cfg.ConfirmCount,
		recencyWindow: time.Duration(cfg.RecencyWindowMS) * time.Millisecond,
		quietReset:    time.Duration(cfg.QuietResetMS) * time.Millisecond,
	}
}

// Sample procesa una muestra de la línea. Retorna true exactamente una
// vez por cluster que alcanza el umbral.
func (d *VibrationDetector) Sample(level bool, now time.Time) bool {
	// Silencio prolongado sin pulso nuevo: cluster viejo, reiniciar
	if d.windowCount > 0 && now.Sub(d.lastPulseAt) > d.quietReset {
		d.windowCount = 0
	}

	fired := false

	switch {
	case level && !d.prevLevel:
		// Flanco de subida: inicia pulso. La recencia se mide contra
		// el pulso anterior del cluster: el pulso que completa el
		// umbral debe llegar dentro de la ventana.
		sincePrev := time.Duration(0)
		if d.windowCount > 0 {
			sincePrev = now.Sub(d.lastPulseAt)
		}

		d.pulseStartAt = now
		d.lastPulseAt = now
		d.windowCount++

		if d.windowCount >= d.confirmCount && sincePrev <= d.recencyWindow {
			fired = true
			d.windowCount = 0
		}

	case !level && d.prevLevel:
		// Flanco de bajada: termina pulso. La duración queda
		// disponible como dato informativo.
		d.lastPulseDur = now.Sub(d.pulseStartAt)
	}

	d.prevLevel = level
	return fired
}

// WindowCount retorna los pulsos acumulados en la ventana actual
func (d *VibrationDetector) WindowCount() int {
	return d.windowCount
}

// LastPulseDuration retorna la duración del último pulso completo
func (d *VibrationDetector) LastPulseDuration() time.Duration {
	return d.lastPulseDur
}

// Reset descarta el cluster en curso
func (d *VibrationDetector) Reset() {
	d.windowCount = 0
	d.prevLevel = false
}

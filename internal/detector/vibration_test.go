package detector

import (
	"testing"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
)

func testConfig() config.DetectorConfig {
	return config.DetectorConfig{
		ConfirmCount:    3,
		RecencyWindowMS: 2000,
		QuietResetMS:    3000,
	}
}

// pulse alimenta un pulso completo (subida y bajada) al detector y
// retorna si alguna de las dos muestras disparó
func pulse(d *VibrationDetector, at time.Time, width time.Duration) bool {
	fired := d.Sample(true, at)
	d.Sample(false, at.Add(width))
	return fired
}

func TestDetectorConfirmsCluster(t *testing.T) {
	t.Parallel()

	d := NewVibrationDetector(testConfig())
	start := time.Now()

	// Dos pulsos no bastan
	if pulse(d, start, 60*time.Millisecond) {
		t.Fatal("disparó con 1 pulso")
	}
	if pulse(d, start.Add(200*time.Millisecond), 60*time.Millisecond) {
		t.Fatal("disparó con 2 pulsos")
	}

	// El tercero dentro de la ventana confirma
	if !pulse(d, start.Add(400*time.Millisecond), 60*time.Millisecond) {
		t.Fatal("no disparó con el tercer pulso del cluster")
	}

	// El disparo es por flanco: el contador quedó en cero
	if d.WindowCount() != 0 {
		t.Errorf("WindowCount() = %d tras disparar, esperaba 0", d.WindowCount())
	}
}

func TestDetectorFiresOncePerCluster(t *testing.T) {
	t.Parallel()

	d := NewVibrationDetector(testConfig())
	start := time.Now()

	fires := 0
	// Ráfaga de 6 pulsos espaciados 150ms: dos clusters de 3
	for i := 0; i < 6; i++ {
		if pulse(d, start.Add(time.Duration(i)*150*time.Millisecond), 60*time.Millisecond) {
			fires++
		}
	}

	if fires != 2 {
		t.Errorf("6 pulsos produjeron %d disparos, esperaba 2", fires)
	}
}

func TestDetectorLevelHeldHighCountsOnce(t *testing.T) {
	t.Parallel()

	d := NewVibrationDetector(testConfig())
	start := time.Now()

	// Línea sostenida en alto: muchas muestras, un solo flanco de subida
	for i := 0; i < 10; i++ {
		if d.Sample(true, start.Add(time.Duration(i)*50*time.Millisecond)) {
			t.Fatal("disparó con un solo pulso sostenido")
		}
	}

	if d.WindowCount() != 1 {
		t.Errorf("WindowCount() = %d con la línea sostenida, esperaba 1", d.WindowCount())
	}
}

func TestDetectorQuietReset(t *testing.T) {
	t.Parallel()

	d := NewVibrationDetector(testConfig())
	start := time.Now()

	pulse(d, start, 60*time.Millisecond)
	pulse(d, start.Add(200*time.Millisecond), 60*time.Millisecond)

	// Silencio mayor al reset: el cluster se descarta
	late := start.Add(200*time.Millisecond + 3500*time.Millisecond)
	if pulse(d, late, 60*time.Millisecond) {
		t.Fatal("disparó tras el silencio de reset")
	}

	// El pulso tardío arranca un cluster nuevo
	if d.WindowCount() != 1 {
		t.Errorf("WindowCount() = %d tras el reset, esperaba 1", d.WindowCount())
	}
}

func TestDetectorStalePulseDoesNotConfirm(t *testing.T) {
	t.Parallel()

	d := NewVibrationDetector(testConfig())
	start := time.Now()

	pulse(d, start, 60*time.Millisecond)
	pulse(d, start.Add(200*time.Millisecond), 60*time.Millisecond)

	// Tercer pulso fuera de la ventana de recencia pero dentro del
	// silencio de reset: cuenta, pero no confirma
	late := start.Add(200*time.Millisecond + 2500*time.Millisecond)
	if pulse(d, late, 60*time.Millisecond) {
		t.Fatal("disparó con el pulso de cierre fuera de la ventana de recencia")
	}
}

func TestDetectorRecordsPulseDuration(t *testing.T) {
	t.Parallel()

	d := NewVibrationDetector(testConfig())
	start := time.Now()

	pulse(d, start, 80*time.Millisecond)

	if got := d.LastPulseDuration(); got != 80*time.Millisecond {
		t.Errorf("LastPulseDuration() = %v, esperaba 80ms", got)
	}
}

func TestDetectorReset(t *testing.T) {
	t.Parallel()

	d := NewVibrationDetector(testConfig())
	start := time.Now()

	pulse(d, start, 60*time.Millisecond)
	pulse(d, start.Add(200*time.Millisecond), 60*time.Millisecond)

	d.Reset()

	if d.WindowCount() != 0 {
		t.Errorf("WindowCount() = %d tras Reset(), esperaba 0", d.WindowCount())
	}
}

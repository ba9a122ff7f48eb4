package hub

import (
	"errors"
	"testing"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/reporting"
	"github.com/MarcosBrindi/roadswarm/internal/swarm"
)

// captureSink guarda los reportes recibidos y puede simular fallos
type captureSink struct {
	reports []reporting.AccidentReport
	fail    bool
}

func (s *captureSink) Report(r reporting.AccidentReport) error {
	if s.fail {
		return errors.New("broker caído")
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *captureSink) Close() error { return nil }

func testHubConfig() config.HubConfig {
	return config.HubConfig{DebounceWindow: 30.0}
}

func accident(origin uint16) swarm.Message {
	return swarm.Message{
		Origin:    origin,
		Command:   swarm.CommandAccident,
		Latitude:  16.7531,
		Longitude: -93.1156,
	}
}

func TestRouterDebounceWindow(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	r := NewDedupRouter(testHubConfig(), sink)
	start := time.Now()

	// t=0: primer accidente, se reenvía
	if got := r.HandleMessage(accident(3), start); got != OutcomeForwarded {
		t.Fatalf("t=0: outcome = %s, esperaba Forwarded", got)
	}

	// t=10s: eco dentro de la ventana, se absorbe
	if got := r.HandleMessage(accident(3), start.Add(10*time.Second)); got != OutcomeDuplicate {
		t.Fatalf("t=10s: outcome = %s, esperaba Duplicate", got)
	}

	// t=40s: fuera de la ventana, accidente nuevo
	if got := r.HandleMessage(accident(3), start.Add(40*time.Second)); got != OutcomeForwarded {
		t.Fatalf("t=40s: outcome = %s, esperaba Forwarded", got)
	}

	if len(sink.reports) != 2 {
		t.Errorf("el sink recibió %d reportes, esperaba 2", len(sink.reports))
	}
}

func TestRouterPerOriginIndependence(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	r := NewDedupRouter(testHubConfig(), sink)
	start := time.Now()

	// Dos orígenes casi simultáneos: ambos pasan
	if got := r.HandleMessage(accident(1), start); got != OutcomeForwarded {
		t.Fatalf("origen 1: outcome = %s", got)
	}
	if got := r.HandleMessage(accident(2), start.Add(time.Second)); got != OutcomeForwarded {
		t.Fatalf("origen 2: outcome = %s", got)
	}

	if len(sink.reports) != 2 {
		t.Fatalf("el sink recibió %d reportes, esperaba 2", len(sink.reports))
	}
	if sink.reports[0].OriginID != 1 || sink.reports[1].OriginID != 2 {
		t.Errorf("orígenes reportados: %d y %d", sink.reports[0].OriginID, sink.reports[1].OriginID)
	}
}

func TestRouterIgnoresNonAccidents(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	r := NewDedupRouter(testHubConfig(), sink)
	now := time.Now()

	traffic := swarm.Message{Origin: 4, Command: swarm.CommandTraffic}
	idle := swarm.Message{Origin: 4, Command: swarm.CommandIdle}

	if got := r.HandleMessage(traffic, now); got != OutcomeIgnored {
		t.Errorf("tráfico: outcome = %s, esperaba Ignored", got)
	}
	if got := r.HandleMessage(idle, now); got != OutcomeIgnored {
		t.Errorf("idle: outcome = %s, esperaba Ignored", got)
	}

	// El tráfico no arma la ventana: un accidente inmediato pasa
	if got := r.HandleMessage(accident(4), now.Add(time.Second)); got != OutcomeForwarded {
		t.Errorf("accidente tras tráfico: outcome = %s, esperaba Forwarded", got)
	}
}

func TestRouterSinkFailureNoRetry(t *testing.T) {
	t.Parallel()

	sink := &captureSink{fail: true}
	r := NewDedupRouter(testHubConfig(), sink)
	start := time.Now()

	if got := r.HandleMessage(accident(6), start); got != OutcomeSinkFailed {
		t.Fatalf("outcome = %s, esperaba SinkFailed", got)
	}

	// La ventana quedó armada aunque el sink falló: el eco no reintenta
	sink.fail = false
	if got := r.HandleMessage(accident(6), start.Add(5*time.Second)); got != OutcomeDuplicate {
		t.Errorf("eco tras el fallo: outcome = %s, esperaba Duplicate", got)
	}

	if len(sink.reports) != 0 {
		t.Errorf("el sink recibió %d reportes, esperaba 0", len(sink.reports))
	}
}

func TestRouterStats(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	r := NewDedupRouter(testHubConfig(), sink)
	start := time.Now()

	r.HandleMessage(accident(1), start)
	r.HandleMessage(accident(1), start.Add(time.Second))
	r.HandleMessage(accident(2), start)

	forwarded, duplicates, failures := r.Stats()
	if forwarded != 2 || duplicates != 1 || failures != 0 {
		t.Errorf("Stats() = %d/%d/%d, esperaba 2/1/0", forwarded, duplicates, failures)
	}
}

func TestRouterReportWindowStart(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	r := NewDedupRouter(testHubConfig(), sink)
	start := time.Now()

	r.HandleMessage(accident(5), start)
	r.HandleMessage(accident(5), start.Add(40*time.Second))

	if len(sink.reports) != 2 {
		t.Fatalf("el sink recibió %d reportes, esperaba 2", len(sink.reports))
	}

	// La ventana se arma al aceptar: el inicio reportado es el momento de
	// recepción de cada accidente aceptado
	if !sink.reports[0].WindowStart.Equal(start) {
		t.Errorf("primer reporte: WindowStart = %v, esperaba %v",
			sink.reports[0].WindowStart, start)
	}
	if !sink.reports[1].WindowStart.Equal(start.Add(40 * time.Second)) {
		t.Errorf("segundo reporte: WindowStart = %v, esperaba %v",
			sink.reports[1].WindowStart, start.Add(40*time.Second))
	}
}

func TestRouterReportCarriesSentinel(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	r := NewDedupRouter(testHubConfig(), sink)

	// Accidente sin fix: el centinela ambos-cero viaja como "sin posición"
	msg := swarm.Message{Origin: 9, Command: swarm.CommandAccident}
	r.HandleMessage(msg, time.Now())

	if len(sink.reports) != 1 {
		t.Fatalf("el sink recibió %d reportes", len(sink.reports))
	}
	if sink.reports[0].HasPosition {
		t.Error("el reporte sin fix quedó marcado con posición")
	}
}

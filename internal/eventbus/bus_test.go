package eventbus

import (
	"testing"
	"time"
)

func TestPublishReachesSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	defer bus.Close()

	chA := bus.Subscribe(EventVibration)
	chB := bus.Subscribe(EventVibration)
	other := bus.Subscribe(EventLight)

	event := Event{
		Type:      EventVibration,
		Timestamp: time.Now(),
		Data:      VibrationData{Level: true},
	}
	bus.Publish(event)

	for name, ch := range map[string]<-chan Event{"A": chA, "B": chB} {
		select {
		case got := <-ch:
			if got.Type != EventVibration {
				t.Errorf("suscriptor %s: tipo = %v", name, got.Type)
			}
			if data := got.Data.(VibrationData); !data.Level {
				t.Errorf("suscriptor %s: datos incorrectos", name)
			}
		case <-time.After(time.Second):
			t.Fatalf("suscriptor %s no recibió el evento", name)
		}
	}

	// El suscriptor de otro tipo no recibe nada
	select {
	case got := <-other:
		t.Fatalf("suscriptor de luz recibió %v", got.Type)
	default:
	}
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	defer bus.Close()

	ch := bus.Subscribe(EventProximity)

	// Llenar el buffer y seguir publicando: los extras se descartan,
	// el publicador nunca se bloquea
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			bus.Publish(Event{Type: EventProximity, Data: ProximityData{DistanceMM: i}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish se bloqueó con el suscriptor lleno")
	}

	// El buffer conserva los primeros eventos
	got := 0
	for {
		select {
		case <-ch:
			got++
			continue
		default:
		}
		break
	}
	if got != subscriberBuffer {
		t.Errorf("el buffer entregó %d eventos, esperaba %d", got, subscriberBuffer)
	}
}

func TestCloseTerminatesSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	ch := bus.Subscribe(EventPosition)

	bus.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("el canal entregó un evento tras Close")
		}
	case <-time.After(time.Second):
		t.Fatal("el canal no se cerró")
	}

	// Publicar tras Close no entra en pánico
	bus.Publish(Event{Type: EventPosition})

	// Suscribirse tras Close retorna un canal ya cerrado
	late := bus.Subscribe(EventPosition)
	if _, ok := <-late; ok {
		t.Error("la suscripción tardía entregó un evento")
	}
}

func TestLightingStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state LightingState
		want  string
	}{
		{LightingIdle, "IDLE"},
		{LightingTracking, "TRACKING"},
		{LightingPanic, "PANIC"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("LightingState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestPositionDataValid(t *testing.T) {
	t.Parallel()

	if (PositionData{}).Valid() {
		t.Error("el centinela ambos-cero se consideró válido")
	}
	if !(PositionData{Latitude: 16.7}).Valid() {
		t.Error("posición con latitud no-cero se consideró inválida")
	}
	if !(PositionData{Longitude: -93.1}).Valid() {
		t.Error("posición con longitud no-cero se consideró inválida")
	}
}

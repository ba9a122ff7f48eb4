package swarm

import (
	"testing"
)

func TestMessageEncodeDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  Message
	}{
		{
			name: "accidente con posición",
			msg: Message{
				Origin:      7,
				Command:     CommandAccident,
				Latitude:    16.7531,
				Longitude:   -93.1156,
				EmittedAtMS: 123456,
			},
		},
		{
			name: "tráfico sin posición",
			msg: Message{
				Origin:      65535,
				Command:     CommandTraffic,
				EmittedAtMS: 0,
			},
		},
		{
			name: "idle con coordenadas negativas",
			msg: Message{
				Origin:      1,
				Command:     CommandIdle,
				Latitude:    -33.4489,
				Longitude:   -70.6693,
				EmittedAtMS: -50,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			blob := tt.msg.Encode()
			if len(blob) != MessageSize {
				t.Fatalf("Encode() produjo %d bytes, esperaba %d", len(blob), MessageSize)
			}

			got, err := Decode(blob)
			if err != nil {
				t.Fatalf("Decode() error inesperado: %v", err)
			}
			if got != tt.msg {
				t.Errorf("roundtrip: got %+v, want %+v", got, tt.msg)
			}
		})
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	t.Parallel()

	t.Run("tamaño incorrecto", func(t *testing.T) {
		t.Parallel()

		for _, n := range []int{0, 1, MessageSize - 1, MessageSize + 1, 64} {
			if _, err := Decode(make([]byte, n)); err == nil {
				t.Errorf("Decode() aceptó blob de %d bytes", n)
			}
		}
	})

	t.Run("comando desconocido", func(t *testing.T) {
		t.Parallel()

		msg := Message{Origin: 3, Command: CommandAccident}
		blob := msg.Encode()
		blob[2] = 0xFF

		if _, err := Decode(blob); err == nil {
			t.Error("Decode() aceptó comando 0xFF")
		}
	})
}

func TestHasPosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lat  float64
		lon  float64
		want bool
	}{
		{"ambos cero es el centinela", 0, 0, false},
		{"latitud cero con longitud válida", 0, -93.1, true},
		{"longitud cero con latitud válida", 16.7, 0, true},
		{"posición completa", 16.7, -93.1, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg := Message{Latitude: tt.lat, Longitude: tt.lon}
			if got := msg.HasPosition(); got != tt.want {
				t.Errorf("HasPosition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd  Command
		want string
	}{
		{CommandIdle, "IDLE"},
		{CommandTraffic, "TRAFFIC"},
		{CommandAccident, "ACCIDENT"},
		{Command(99), "COMMAND(99)"},
	}

	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("Command(%d).String() = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

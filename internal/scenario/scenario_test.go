package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBuiltinScenariosAreValid(t *testing.T) {
	t.Parallel()

	for id, sc := range GetAllScenarios() {
		if err := sc.Validate(); err != nil {
			t.Errorf("escenario %q inválido: %v", id, err)
		}
	}
}

func TestValidateRejectsBadScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		scenario Scenario
	}{
		{
			name:     "sin nombre",
			scenario: Scenario{Steps: []ScenarioStep{{Action: ActionLog, Value: "x"}}},
		},
		{
			name:     "sin pasos",
			scenario: Scenario{Name: "vacío"},
		},
		{
			name: "tiempos desordenados",
			scenario: Scenario{
				Name: "desordenado",
				Steps: []ScenarioStep{
					{Time: 10, Action: ActionLog, Value: "a"},
					{Time: 5, Action: ActionLog, Value: "b"},
				},
			},
		},
		{
			name: "acción desconocida",
			scenario: Scenario{
				Name:  "raro",
				Steps: []ScenarioStep{{Time: 0, Action: "teleport"}},
			},
		},
		{
			name: "nodo negativo",
			scenario: Scenario{
				Name:  "negativo",
				Steps: []ScenarioStep{{Time: 0, Action: ActionImpact, Node: -1}},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.scenario.Validate(); err == nil {
				t.Error("Validate() aceptó un escenario inválido")
			}
		})
	}
}

func TestLoadScenarioFromYAML(t *testing.T) {
	t.Parallel()

	yaml := `
name: "Prueba"
description: "Escenario de prueba"
duration: 30
steps:
  - time: 0
    action: daylight
    value: false
  - time: 5
    action: vehicle_pass
    node: 1
    value: 1.5
  - time: 10
    action: impact
    node: 2
    value: 3
`

	path := filepath.Join(t.TempDir(), "prueba.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario() error: %v", err)
	}

	if sc.Name != "Prueba" {
		t.Errorf("nombre = %q", sc.Name)
	}
	if len(sc.Steps) != 3 {
		t.Fatalf("pasos = %d, esperaba 3", len(sc.Steps))
	}
	if sc.Steps[2].Action != ActionImpact || sc.Steps[2].Node != 2 {
		t.Errorf("paso 2 = %+v", sc.Steps[2])
	}
	if sc.GetDuration() != 30*time.Second {
		t.Errorf("duración = %v, esperaba 30s", sc.GetDuration())
	}
}

func TestGetDurationFallback(t *testing.T) {
	t.Parallel()

	sc := Scenario{
		Name:  "sin duración",
		Steps: []ScenarioStep{{Time: 20, Action: ActionLog, Value: "fin"}},
	}

	// Último paso + 5 segundos
	if got := sc.GetDuration(); got != 25*time.Second {
		t.Errorf("duración = %v, esperaba 25s", got)
	}
}

// fakeWorld registra las inyecciones del ejecutor
type fakeWorld struct {
	passes    []int
	impacts   []int
	daylights []bool
	ambients  []int
	fixes     []bool
}

func (w *fakeWorld) VehiclePass(node int, _ time.Duration) { w.passes = append(w.passes, node) }
func (w *fakeWorld) Impact(node int, _ int)                { w.impacts = append(w.impacts, node) }
func (w *fakeWorld) SetDaylight(d bool)                    { w.daylights = append(w.daylights, d) }
func (w *fakeWorld) SetAmbientLevel(level int)             { w.ambients = append(w.ambients, level) }
func (w *fakeWorld) SetGPSFix(_ int, fix bool)             { w.fixes = append(w.fixes, fix) }

func TestExecutorRunsSteps(t *testing.T) {
	t.Parallel()

	sc := &Scenario{
		Name:     "rápido",
		Duration: 1,
		Steps: []ScenarioStep{
			{Time: 0, Action: ActionDaylight, Value: false},
			{Time: 0, Action: ActionVehiclePass, Node: 1, Value: 0.1},
			{Time: 0.1, Action: ActionImpact, Node: 2, Value: 3},
			{Time: 0.1, Action: ActionAmbient, Value: 400},
			{Time: 0.1, Action: ActionGPSFix, Node: 0, Value: false},
		},
	}

	world := &fakeWorld{}
	exec := NewExecutor(sc, world)
	exec.Start()

	// El ejecutor corre en su goroutine; esperar a que termine
	deadline := time.After(3 * time.Second)
	for exec.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("el ejecutor no terminó")
		default:
			time.Sleep(20 * time.Millisecond)
		}
	}

	if len(world.passes) != 1 || world.passes[0] != 1 {
		t.Errorf("vehicle_pass = %v", world.passes)
	}
	if len(world.impacts) != 1 || world.impacts[0] != 2 {
		t.Errorf("impact = %v", world.impacts)
	}
	if len(world.daylights) != 1 || world.daylights[0] {
		t.Errorf("daylight = %v", world.daylights)
	}
	if len(world.ambients) != 1 || world.ambients[0] != 400 {
		t.Errorf("ambient_level = %v", world.ambients)
	}
	if len(world.fixes) != 1 || world.fixes[0] {
		t.Errorf("gps_fix = %v", world.fixes)
	}
}

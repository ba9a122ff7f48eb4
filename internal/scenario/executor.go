package scenario

import (
	"fmt"
	"sync"
	"time"
)

// WorldController es la interfaz de inyección sobre el tramo simulado
type WorldController interface {
	VehiclePass(node int, duration time.Duration)
	Impact(node int, pulses int)
	SetDaylight(daylight bool)
	SetAmbientLevel(level int)
	SetGPSFix(node int, fix bool)
}

// Executor ejecuta escenarios contra el mundo simulado
type Executor struct {
	scenario *Scenario
	world    WorldController

	// Control
	mu               sync.RWMutex
	running          bool
	startTime        time.Time
	currentStepIndex int
}

// NewExecutor crea un nuevo ejecutor de escenarios
func NewExecutor(scenario *Scenario, world WorldController) *Executor {
	return &Executor{
		scenario:         scenario,
		world:            world,
		running:          false,
		currentStepIndex: 0,
	}
}

// Start inicia la ejecución del escenario
func (e *Executor) Start() {
	e.mu.Lock()
	e.running = true
	e.startTime = time.Now()
	e.currentStepIndex = 0
	e.mu.Unlock()

	fmt.Printf("🎬 [Executor] Iniciando escenario: %s\n", e.scenario.Name)
	fmt.Printf("📋 [Executor] %s\n", e.scenario.Description)
	fmt.Printf("⏱️  [Executor] Duración: %.0fs\n", e.scenario.GetDuration().Seconds())
	fmt.Println()

	go e.execute()
}

// Stop detiene la ejecución
func (e *Executor) Stop() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()

	fmt.Println("🛑 [Executor] Escenario detenido")
}

// IsRunning retorna si está corriendo
func (e *Executor) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// execute ejecuta el escenario
func (e *Executor) execute() {
	for e.IsRunning() {
		e.mu.RLock()
		currentStep := e.currentStepIndex
		e.mu.RUnlock()

		// Verificar si hay más pasos
		if currentStep >= len(e.scenario.Steps) {
			fmt.Printf("✅ [Executor] Escenario '%s' completado\n", e.scenario.Name)
			e.Stop()
			break
		}

		step := e.scenario.Steps[currentStep]

		// Esperar hasta el tiempo del paso
		elapsed := time.Since(e.startTime).Seconds()
		if elapsed < step.Time {
			sleepDuration := time.Duration((step.Time - elapsed) * float64(time.Second))
			time.Sleep(sleepDuration)
		}

		e.executeStep(step)

		e.mu.Lock()
		e.currentStepIndex++
		e.mu.Unlock()
	}
}

// executeStep ejecuta un paso individual
func (e *Executor) executeStep(step ScenarioStep) {
	elapsed := time.Since(e.startTime).Seconds()

	fmt.Printf("🎬 [Executor] [%.1fs] Acción: %s", elapsed, step.Action)
	if step.Value != nil {
		fmt.Printf(" (valor: %v)", step.Value)
	}
	fmt.Println()

	switch step.Action {
	case ActionVehiclePass:
		e.handleVehiclePass(step)

	case ActionImpact:
		e.handleImpact(step)

	case ActionDaylight:
		e.handleDaylight(step)

	case ActionAmbient:
		e.handleAmbient(step)

	case ActionGPSFix:
		e.handleGPSFix(step)

	case ActionWait:
		e.handleWait(step)

	case ActionLog:
		e.handleLog(step)

	default:
		fmt.Printf("⚠️  [Executor] Acción desconocida: %s\n", step.Action)
	}
}

// handleVehiclePass simula el paso de un vehículo frente a un nodo
func (e *Executor) handleVehiclePass(step ScenarioStep) {
	duration := 1.5
	if v, ok := asFloat(step.Value); ok {
		duration = v
	}

	e.world.VehiclePass(step.Node, time.Duration(duration*float64(time.Second)))
	fmt.Printf("   🚗 Vehículo frente al nodo %d (%.1fs)\n", step.Node, duration)
}

// handleImpact simula una ráfaga de pulsos del sensor de golpe
func (e *Executor) handleImpact(step ScenarioStep) {
	pulses := 3
	if v, ok := asFloat(step.Value); ok {
		pulses = int(v)
	}

	e.world.Impact(step.Node, pulses)
	fmt.Printf("   💥 Impacto en el nodo %d (%d pulsos)\n", step.Node, pulses)
}

// handleDaylight conmuta día/noche en todo el tramo
func (e *Executor) handleDaylight(step ScenarioStep) {
	daylight, ok := step.Value.(bool)
	if !ok {
		fmt.Printf("⚠️  [Executor] Valor inválido para daylight: %v\n", step.Value)
		return
	}

	e.world.SetDaylight(daylight)
	if daylight {
		fmt.Println("   ☀️  Día en el tramo")
	} else {
		fmt.Println("   🌙 Noche en el tramo")
	}
}

// handleAmbient fija el nivel crudo del LDR en todo el tramo (niveles
// intermedios: atardecer, deslumbramiento por faros)
func (e *Executor) handleAmbient(step ScenarioStep) {
	level, ok := asFloat(step.Value)
	if !ok {
		fmt.Printf("⚠️  [Executor] Valor inválido para ambient_level: %v\n", step.Value)
		return
	}

	e.world.SetAmbientLevel(int(level))
	fmt.Printf("   🔆 Nivel ambiental del tramo: %d\n", int(level))
}

// handleGPSFix conmuta el fix GPS de un nodo
func (e *Executor) handleGPSFix(step ScenarioStep) {
	fix, ok := step.Value.(bool)
	if !ok {
		fmt.Printf("⚠️  [Executor] Valor inválido para gps_fix: %v\n", step.Value)
		return
	}

	e.world.SetGPSFix(step.Node, fix)
}

// handleWait espera N segundos
func (e *Executor) handleWait(step ScenarioStep) {
	seconds, ok := asFloat(step.Value)
	if !ok {
		fmt.Printf("⚠️  [Executor] Valor inválido para wait: %v\n", step.Value)
		return
	}

	fmt.Printf("   ⏱️  Esperando %.1f segundos...\n", seconds)
	time.Sleep(time.Duration(seconds * float64(time.Second)))
}

// handleLog imprime un mensaje
func (e *Executor) handleLog(step ScenarioStep) {
	message, ok := step.Value.(string)
	if !ok {
		fmt.Printf("⚠️  [Executor] Valor inválido para log: %v\n", step.Value)
		return
	}

	fmt.Printf("   📢 %s\n", message)
}

// asFloat convierte el valor YAML a float64 (el parser entrega int o float)
func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// GetProgress retorna el progreso del escenario (0.0 a 1.0)
func (e *Executor) GetProgress() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.running {
		return 0.0
	}

	elapsed := time.Since(e.startTime).Seconds()
	total := e.scenario.GetDuration().Seconds()

	progress := elapsed / total
	if progress > 1.0 {
		return 1.0
	}
	return progress
}

// GetCurrentStep retorna el paso actual
func (e *Executor) GetCurrentStep() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentStepIndex
}

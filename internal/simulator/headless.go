package simulator

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
	"github.com/MarcosBrindi/roadswarm/internal/scenario"
)

// RunHeadless ejecuta el tramo simulado sin UI: escenario opcional,
// estado periódico a consola, Ctrl+C para terminar
func RunHeadless(cfg *config.Config, scenarioID string) error {
	fmt.Println("\n🚀 === MODO HEADLESS (SIN UI) ===")
	fmt.Printf("📊 Nodos: %d\n", cfg.Simulation.Nodes)
	fmt.Println()

	sink, err := BuildSink(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	world := NewWorld(cfg, sink)
	world.Start()
	defer world.Stop()

	// La luminaria simulada publica solo cambios: volcarlos a consola
	// (los parpadeos del estrobo se resumen en el flag, no se listan)
	for i := range world.Nodes() {
		lightingCh := world.NodeBus(i).Subscribe(eventbus.EventLighting)
		go func() {
			var last eventbus.LightingData
			for event := range lightingCh {
				data := event.Data.(eventbus.LightingData)
				if data.State == last.State && data.Strobing == last.Strobing &&
					data.Daylight == last.Daylight && data.Supporting == last.Supporting {
					last = data
					continue
				}
				fmt.Printf("[Luminaria %d] %s duty=%d estrobo=%v soporte=%v día=%v\n",
					data.NodeID, data.State, data.Brightness,
					data.Strobing, data.Supporting, data.Daylight)
				last = data
			}
		}()
	}

	// Escenario inicial (opcional)
	var exec *scenario.Executor
	if scenarioID != "" {
		sc, err := scenario.Resolve(scenarioID, cfg.Simulation.ScenariosDir)
		if err != nil {
			return fmt.Errorf("error cargando escenario: %w", err)
		}
		exec = scenario.NewExecutor(sc, world)
		exec.Start()
	}

	// Estado periódico
	statusTicker := time.NewTicker(time.Duration(cfg.Simulation.StatusInterval * float64(time.Second)))
	defer statusTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	fmt.Println("⏹️  Presiona Ctrl+C para detener...")
	fmt.Println()

	for {
		select {
		case <-statusTicker.C:
			now := time.Now()
			world.Hub().PrintStatus(now)
			for _, n := range world.Nodes() {
				snap := n.StateMachine().Snapshot(now)
				fmt.Printf("  [Nodo %d] %s duty=%d soporte=%v día=%v fix=%v\n",
					snap.NodeID, snap.State, snap.Brightness,
					snap.Supporting, snap.Daylight, snap.HasFix)
			}
			fmt.Println()

		case <-sigCh:
			fmt.Println("\n🛑 [Headless] Señal recibida, deteniendo...")
			if exec != nil && exec.IsRunning() {
				exec.Stop()
			}
			return nil
		}
	}
}

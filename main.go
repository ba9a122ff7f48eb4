package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
	"github.com/MarcosBrindi/roadswarm/internal/hub"
	"github.com/MarcosBrindi/roadswarm/internal/node"
	"github.com/MarcosBrindi/roadswarm/internal/scenario"
	"github.com/MarcosBrindi/roadswarm/internal/simulator"
	"github.com/MarcosBrindi/roadswarm/internal/swarm"
	"github.com/MarcosBrindi/roadswarm/internal/ui"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Ruta del archivo de configuración")
	mode := flag.String("mode", "sim", "Modo de ejecución: sim | node | hub")
	scenarioID := flag.String("scenario", "", "Escenario inicial (modo sim)")
	nodes := flag.Int("nodes", 0, "Número de nodos del tramo (modo sim, 0 = config)")
	headless := flag.Bool("headless", false, "Sin UI (modo sim)")
	listScenarios := flag.Bool("list-scenarios", false, "Listar escenarios disponibles y salir")
	flag.Parse()

	fmt.Println("=== ENJAMBRE VIAL ===")
	fmt.Println("Detección distribuida de accidentes en carretera")
	fmt.Println()

	// Cargar configuración
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error cargando config: %v\n", err)
		fmt.Println("Usando configuración por defecto")
		cfg = config.Default()
	}

	if *nodes > 0 {
		cfg.Simulation.Nodes = *nodes
	}
	if *scenarioID == "" {
		*scenarioID = cfg.Simulation.InitialScenario
	}

	if *listScenarios {
		fmt.Println("Escenarios disponibles:")
		for _, info := range scenario.DiscoverScenarios(cfg.Simulation.ScenariosDir) {
			fmt.Printf("  %-24s %s (%s)\n", info.ID, info.Name, info.Source)
		}
		return
	}

	fmt.Printf("Device ID: %s\n", cfg.DeviceID)
	fmt.Println()

	switch *mode {
	case "sim":
		if err := runSim(cfg, *scenarioID, *headless); err != nil {
			log.Fatal(err)
		}

	case "node":
		if err := runNode(cfg); err != nil {
			log.Fatal(err)
		}

	case "hub":
		if err := runHub(cfg); err != nil {
			log.Fatal(err)
		}

	default:
		log.Fatalf("Modo desconocido: %s (usar sim, node o hub)", *mode)
	}

	fmt.Println("¡Hasta luego!")
}

// runSim ejecuta el tramo completo simulado (N nodos + hub en proceso)
func runSim(cfg *config.Config, scenarioID string, headless bool) error {
	if headless || !cfg.UI.Enabled {
		return simulator.RunHeadless(cfg, scenarioID)
	}

	sink, err := simulator.BuildSink(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	world := simulator.NewWorld(cfg, sink)
	world.Start()
	defer world.Stop()

	// Escenario inicial (opcional)
	if scenarioID != "" {
		sc, err := scenario.Resolve(scenarioID, cfg.Simulation.ScenariosDir)
		if err != nil {
			return fmt.Errorf("error cargando escenario: %w", err)
		}
		exec := scenario.NewExecutor(sc, world)
		exec.Start()
		defer exec.Stop()
	}

	// Crear juego Ebiten
	game := ui.NewGame(world, cfg)

	// Configurar ventana
	ebiten.SetWindowSize(cfg.UI.Window.Width, cfg.UI.Window.Height)
	ebiten.SetWindowTitle(cfg.UI.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	fmt.Println("🎮 Iniciando UI con Ebiten...")
	fmt.Println("⚠️  Cierra la ventana para salir")
	fmt.Println()

	if err := ebiten.RunGame(game); err != nil {
		return err
	}

	fmt.Println("\nDeteniendo sistema...")
	return nil
}

// runNode ejecuta un solo nodo sobre broadcast UDP real
func runNode(cfg *config.Config) error {
	fmt.Printf("💡 Modo nodo: ID %d\n", cfg.NodeID)

	swarmBus, err := swarm.NewUDPBus(cfg.Swarm.UDP)
	if err != nil {
		return err
	}
	defer swarmBus.Close()

	bus := eventbus.NewEventBus()
	defer bus.Close()

	n := node.NewNode(cfg.NodeID, *cfg, bus, swarmBus)
	n.Start()
	defer n.Stop()

	return waitForSignal()
}

// runHub ejecuta el hub sobre broadcast UDP real
func runHub(cfg *config.Config) error {
	fmt.Println("🏢 Modo hub")

	swarmBus, err := swarm.NewUDPBus(cfg.Swarm.UDP)
	if err != nil {
		return err
	}
	defer swarmBus.Close()

	sink, err := simulator.BuildSink(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	h := hub.NewHub(cfg.Hub, swarmBus, sink)

	// Estado periódico a consola
	ticker := time.NewTicker(time.Duration(cfg.Simulation.StatusInterval * float64(time.Second)))
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	fmt.Println("⏹️  Presiona Ctrl+C para detener...")
	for {
		select {
		case <-ticker.C:
			h.PrintStatus(time.Now())
		case <-sigCh:
			fmt.Println("\n🛑 Señal recibida, deteniendo...")
			return nil
		}
	}
}

// waitForSignal bloquea hasta Ctrl+C o SIGTERM
func waitForSignal() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	fmt.Println("⏹️  Presiona Ctrl+C para detener...")
	<-sigCh

	fmt.Println("\n🛑 Señal recibida, deteniendo...")
	return nil
}

package ui

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
	"github.com/MarcosBrindi/roadswarm/internal/simulator"
)

// Game es la estructura principal de Ebiten: tablero del tramo simulado
type Game struct {
	world  *simulator.World
	config *config.Config

	// Componentes UI
	roadView *RoadView
	eventLog *EventLog
	controls *Controls

	// Estado de interacción
	selected  int
	daylight  bool
	fixStates []bool

	// Último estado observado (para loguear transiciones)
	lastStates    []eventbus.LightingState
	lastForwarded int
}

// NewGame crea una nueva instancia del tablero
func NewGame(world *simulator.World, cfg *config.Config) *Game {
	n := len(world.Nodes())

	fixStates := make([]bool, n)
	for i := range fixStates {
		fixStates[i] = true
	}

	game := &Game{
		world:      world,
		config:     cfg,
		roadView:   NewRoadView(cfg),
		eventLog:   NewEventLog(30),
		controls:   NewControls(),
		fixStates:  fixStates,
		lastStates: make([]eventbus.LightingState, n),
	}

	game.eventLog.Add("Tramo iniciado (noche)", "info")

	return game
}

// Update actualiza la lógica del tablero (llamado por Ebiten a 60 FPS)
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.handleKeys()
	g.logTransitions()

	return nil
}

// handleKeys procesa la entrada de teclado
func (g *Game) handleKeys() {
	n := len(g.world.Nodes())
	if n == 0 {
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.selected = (g.selected - 1 + n) % n
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.selected = (g.selected + 1) % n
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.world.VehiclePass(g.selected, 1500*time.Millisecond)
		g.eventLog.Add(fmt.Sprintf("🚗 Vehículo frente al nodo %d", g.selected+1), "info")
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.world.Impact(g.selected, 3)
		g.eventLog.Add(fmt.Sprintf("💥 Impacto en el nodo %d", g.selected+1), "error")
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.daylight = !g.daylight
		g.world.SetDaylight(g.daylight)
		if g.daylight {
			g.eventLog.Add("☀️ Amanece en el tramo", "warning")
		} else {
			g.eventLog.Add("🌙 Anochece en el tramo", "info")
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.fixStates[g.selected] = !g.fixStates[g.selected]
		g.world.SetGPSFix(g.selected, g.fixStates[g.selected])
		if g.fixStates[g.selected] {
			g.eventLog.Add(fmt.Sprintf("📡 Nodo %d recupera fix", g.selected+1), "success")
		} else {
			g.eventLog.Add(fmt.Sprintf("📡 Nodo %d pierde fix", g.selected+1), "warning")
		}
	}
}

// logTransitions anota en el log los cambios de estado de cada nodo
func (g *Game) logTransitions() {
	now := time.Now()

	for i, n := range g.world.Nodes() {
		snap := n.StateMachine().Snapshot(now)
		if snap.State == g.lastStates[i] {
			continue
		}

		switch snap.State {
		case eventbus.LightingPanic:
			if snap.Supporting {
				g.eventLog.Add(fmt.Sprintf("🔶 Nodo %d en soporte", snap.NodeID), "warning")
			} else {
				g.eventLog.Add(fmt.Sprintf("🚨 Nodo %d en PÁNICO", snap.NodeID), "error")
			}
		case eventbus.LightingTracking:
			g.eventLog.Add(fmt.Sprintf("💡 Nodo %d en tracking", snap.NodeID), "info")
		default:
			g.eventLog.Add(fmt.Sprintf("💤 Nodo %d en reposo", snap.NodeID), "info")
		}

		g.lastStates[i] = snap.State
	}

	forwarded, _, _ := g.world.Hub().Router().Stats()
	if forwarded > g.lastForwarded {
		g.eventLog.Add("📤 Hub reenvió un accidente", "success")
		g.lastForwarded = forwarded
	}
}

// Draw dibuja el tablero (llamado por Ebiten a 60 FPS)
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255}) // Fondo oscuro

	now := time.Now()

	snapshots := make([]eventbus.NodeStateData, 0, len(g.world.Nodes()))
	for _, n := range g.world.Nodes() {
		snapshots = append(snapshots, n.StateMachine().Snapshot(now))
	}

	// Encabezado
	header := fmt.Sprintf("🛣️  ENJAMBRE VIAL - %d nodos", len(snapshots))
	if g.daylight {
		header += "  ☀️ DÍA"
	} else {
		header += "  🌙 NOCHE"
	}
	ebitenutil.DebugPrintAt(screen, header, 20, 20)

	// Tramo con postes
	g.roadView.Draw(screen, snapshots, g.selected)

	// Panel del nodo seleccionado
	if g.selected < len(snapshots) {
		g.roadView.DrawNodePanel(screen, 20, 260, snapshots[g.selected])
	}

	// Panel del hub
	g.drawHubPanel(screen, 340, 260, now)

	// Log de eventos
	width := float32(g.config.UI.Window.Width)
	g.eventLog.Draw(screen, width-420, 260, 400, 260)

	// Barra de controles
	g.controls.Draw(screen)
}

// drawHubPanel dibuja el panel de estado del hub
func (g *Game) drawHubPanel(screen *ebiten.Image, x, y float32, now time.Time) {
	vector.DrawFilledRect(screen, x, y, 300, 150, color.RGBA{30, 30, 40, 200}, false)
	vector.StrokeRect(screen, x, y, 300, 150, 2, color.RGBA{100, 100, 120, 255}, false)

	ebitenutil.DebugPrintAt(screen, "🏢 HUB", int(x+10), int(y+10))

	forwarded, duplicates, failures := g.world.Hub().Router().Stats()

	yOffset := int(y + 35)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Reenviados: %d", forwarded), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Ecos absorbidos: %d", duplicates), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Fallos de sink: %d", failures), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Nodos oídos: %d", len(g.world.Hub().Snapshot())), int(x+10), yOffset)
}

// Layout define el tamaño de la ventana
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.UI.Window.Width, g.config.UI.Window.Height
}

package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/MarcosBrindi/roadswarm/internal/config"
	"github.com/MarcosBrindi/roadswarm/internal/eventbus"
)

// RoadView muestra el tramo con sus postes
type RoadView struct {
	config *config.Config

	// Colores
	colorRoad     color.Color
	colorPole     color.Color
	colorSelected color.Color
	colorText     color.Color
	colorPanelBg  color.Color
	colorTracking color.RGBA
	colorPanic    color.RGBA
	colorSupport  color.RGBA
}

// NewRoadView crea la vista del tramo
func NewRoadView(cfg *config.Config) *RoadView {
	return &RoadView{
		config:        cfg,
		colorRoad:     color.RGBA{100, 100, 120, 255},
		colorPole:     color.RGBA{70, 70, 85, 255},
		colorSelected: color.RGBA{120, 180, 255, 255},
		colorText:     color.RGBA{255, 255, 255, 255},
		colorPanelBg:  color.RGBA{30, 30, 40, 200},
		colorTracking: color.RGBA{255, 240, 150, 255},
		colorPanic:    color.RGBA{255, 80, 80, 255},
		colorSupport:  color.RGBA{255, 150, 60, 255},
	}
}

// Draw dibuja el tramo y los postes con su estado actual
func (rv *RoadView) Draw(screen *ebiten.Image, snapshots []eventbus.NodeStateData, selected int) {
	width := float32(rv.config.UI.Window.Width)

	// Carretera (banda horizontal)
	roadY := float32(140)
	vector.DrawFilledRect(screen, 0, roadY, width, 60, color.RGBA{45, 45, 55, 255}, false)
	vector.StrokeLine(screen, 0, roadY+30, width, roadY+30, 2, rv.colorRoad, false)

	if len(snapshots) == 0 {
		return
	}

	margin := float32(100)
	span := width - 2*margin

	for i, snap := range snapshots {
		poleX := margin
		if len(snapshots) > 1 {
			poleX = margin + span*float32(i)/float32(len(snapshots)-1)
		}

		// Poste
		poleTop := roadY - 50
		vector.StrokeLine(screen, poleX, roadY, poleX, poleTop, 3, rv.colorPole, false)

		// Luminaria: el radio y el color siguen el duty aplicado
		lampColor := rv.lampColor(snap)
		radius := float32(6) + float32(snap.Brightness)/255*8
		vector.DrawFilledCircle(screen, poleX, poleTop, radius, lampColor, false)

		// Marco de selección
		if i == selected {
			vector.StrokeCircle(screen, poleX, poleTop, radius+4, 2, rv.colorSelected, false)
		}

		// Etiqueta
		label := fmt.Sprintf("N%d", snap.NodeID)
		ebitenutil.DebugPrintAt(screen, label, int(poleX-8), int(roadY+38))
		ebitenutil.DebugPrintAt(screen, snap.State.String(), int(poleX-24), int(poleTop-24))
	}
}

// lampColor calcula el color de la luminaria según estado y duty
func (rv *RoadView) lampColor(snap eventbus.NodeStateData) color.RGBA {
	if snap.Brightness == 0 {
		return color.RGBA{50, 50, 60, 255}
	}

	switch snap.State {
	case eventbus.LightingPanic:
		if snap.Supporting {
			return rv.colorSupport
		}
		return rv.colorPanic
	case eventbus.LightingTracking:
		return rv.colorTracking
	default:
		// Reposo o pre-iluminación: blanco escalado por duty
		level := uint8(100 + int(snap.Brightness)*155/255)
		return color.RGBA{level, level, level - 20, 255}
	}
}

// DrawNodePanel dibuja el panel de detalle del nodo seleccionado
func (rv *RoadView) DrawNodePanel(screen *ebiten.Image, x, y float32, snap eventbus.NodeStateData) {
	vector.DrawFilledRect(screen, x, y, 300, 150, rv.colorPanelBg, false)
	vector.StrokeRect(screen, x, y, 300, 150, 2, rv.colorRoad, false)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("💡 NODO %d", snap.NodeID), int(x+10), int(y+10))

	yOffset := int(y + 35)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Estado: %s", snap.State), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Duty: %d/255", snap.Brightness), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Soporte: %v", snap.Supporting), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Día: %v", snap.Daylight), int(x+10), yOffset)
	yOffset += 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Fix GPS: %v", snap.HasFix), int(x+10), yOffset)
}

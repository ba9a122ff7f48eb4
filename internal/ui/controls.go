package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Controls dibuja la barra de ayuda de teclado
type Controls struct {
	colorBg     color.Color
	colorBorder color.Color
}

// NewControls crea nuevos controles
func NewControls() *Controls {
	return &Controls{
		colorBg:     color.RGBA{30, 30, 40, 200},
		colorBorder: color.RGBA{100, 100, 120, 255},
	}
}

// Draw dibuja la barra de controles
func (c *Controls) Draw(screen *ebiten.Image) {
	width := float32(screen.Bounds().Dx())
	height := float32(screen.Bounds().Dy())

	panelY := height - 60
	vector.DrawFilledRect(screen, 0, panelY, width, 60, c.colorBg, false)
	vector.StrokeLine(screen, 0, panelY, width, panelY, 2, c.colorBorder, false)

	ebitenutil.DebugPrintAt(screen,
		"[←/→] Nodo  [V] Vehículo  [X] Impacto  [D] Día/Noche  [G] Fix GPS  [ESC] Salir",
		20, int(panelY+20))
}

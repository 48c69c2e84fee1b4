// Package render draws the loop and the world onto a tcell screen.
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/status"
	"github.com/lixenwraith/timeloop/timeline"
)

// Cells per world unit on the map
const (
	cellsPerUnitX = 4
	cellsPerUnitY = 2
)

var (
	styleDefault = tcell.StyleDefault
	styleHeader  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal)
	styleSeek    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleLever   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	stylePortal  = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleTrigger = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleClock   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleMarker  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePrompt  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleOverlay = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	stylePaused  = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
)

// View renders frames; the world is read under its update lock
type View struct {
	screen tcell.Screen
	reg    *status.Registry

	// ShowTelemetry toggles the metrics overlay
	ShowTelemetry bool
}

// NewView creates a view over an initialized screen; reg may be nil
func NewView(screen tcell.Screen, reg *status.Registry) *View {
	return &View{screen: screen, reg: reg}
}

// Draw renders one frame
func (v *View) Draw(w *engine.World) {
	v.screen.Clear()
	width, height := v.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}

	w.RunSafe(func() {
		v.drawHeader(w, width)
		v.drawMap(w, width, height)
		v.drawPrompt(w, width, height)
	})
	if v.ShowTelemetry && v.reg != nil {
		v.drawTelemetry(width, height)
	}
	v.screen.Show()
}

func (v *View) drawHeader(w *engine.World, width int) {
	fill(v.screen, 0, width, styleHeader)
	loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
	if !ok {
		putStr(v.screen, 1, 0, "no loop", styleHeader)
		return
	}
	text := fmt.Sprintf(" %s  %s  epoch %d", loop.Curr.Timeline, loop.Curr.Time, loop.Epoch)
	putStr(v.screen, 0, 0, text, styleHeader)

	if clock, ok := engine.GetResource[*engine.PausableClock](w.Resources); ok && clock.IsPaused() {
		putStr(v.screen, width-8, 0, " PAUSED ", stylePaused)
	}

	// Seek progress bar under the header
	if loop.Mode == timeline.ModeResetting {
		bar := int(math.Round(loop.Progress() * float64(width)))
		for x := 0; x < width; x++ {
			r := '.'
			if x < bar {
				r = '<'
				if loop.ResettingTo > loop.ResettingFrom {
					r = '>'
				}
			}
			v.screen.SetContent(x, 1, r, nil, styleSeek)
		}
	}
}

func (v *View) drawMap(w *engine.World, width, height int) {
	// Map spans rows 2..height-2, origin at the center
	top, bottom := 2, height-2
	if bottom <= top {
		return
	}
	cx, cy := width/2, (top+bottom)/2

	transforms := engine.StoreOf[component.TransformComponent](w)
	for _, e := range transforms.All() {
		tf, _ := transforms.Get(e)
		r, style := glyph(w, e, tf)
		x := cx + int(math.Round(tf.Translation.X*cellsPerUnitX))
		y := cy - int(math.Round(tf.Translation.Y*cellsPerUnitY))
		if x < 0 || x >= width || y < top || y >= bottom || r == 0 {
			continue
		}
		v.screen.SetContent(x, y, r, nil, style)
	}
}

// glyph picks the character for an entity; zero hides it
func glyph(w *engine.World, e core.Entity, tf component.TransformComponent) (rune, tcell.Style) {
	switch {
	case engine.StoreOf[component.PlayerComponent](w).Has(e):
		return '@', stylePlayer
	case engine.StoreOf[component.LeverComponent](w).Has(e):
		l, _ := engine.StoreOf[component.LeverComponent](w).Get(e)
		if l.Index == 0 {
			return '\\', styleLever
		}
		return '/', styleLever
	case engine.StoreOf[component.PortalToComponent](w).Has(e):
		return 'O', stylePortal
	case engine.StoreOf[component.TriggerComponent](w).Has(e):
		return '*', styleTrigger
	case engine.StoreOf[component.ClockHandComponent](w).Has(e):
		return handRune(tf.Yaw), styleClock
	case engine.StoreOf[component.EnvRootComponent](w).Has(e):
		return 0, styleDefault
	default:
		return '.', styleMarker
	}
}

// handRune approximates a hand direction with one of eight line characters
func handRune(yaw float64) rune {
	// Yaw 0 points up; negative is clockwise
	octant := int(math.Round(-yaw/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return [...]rune{'|', '/', '-', '\\', '|', '/', '-', '\\'}[octant]
}

func (v *View) drawPrompt(w *engine.World, width, height int) {
	signs := engine.StoreOf[component.InteractSignComponent](w)
	for _, e := range signs.All() {
		s, _ := signs.Get(e)
		if !s.Visible {
			continue
		}
		text := fmt.Sprintf(" [e] %s ", s.Text)
		putStr(v.screen, max(0, (width-len(text))/2), height-1, text, stylePrompt)
		return
	}
}

func (v *View) drawTelemetry(width, height int) {
	metrics := v.reg.Snapshot()
	x := max(0, width-32)
	for i, m := range metrics {
		y := 2 + i
		if y >= height-1 {
			break
		}
		putStr(v.screen, x, y, fmt.Sprintf("%-20s %10s", m.Key, m.Value), styleOverlay)
	}
}

func fill(s tcell.Screen, y, width int, style tcell.Style) {
	for x := 0; x < width; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func putStr(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// ClockFace renders loop time as a one-line dial position, used in headless output
func ClockFace(t float64) string {
	period := parameter.ClockHandPeriodSecs
	secs := math.Mod(t, period)
	if secs < 0 {
		secs += period
	}
	return fmt.Sprintf("%c %05.2fs", handRune(-2*math.Pi*secs/period), secs)
}

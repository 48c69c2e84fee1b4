package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/engine"
)

// Command is a launcher-level request decoded from a key
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandPause
	CommandTelemetry
	CommandMute
	CommandSave
)

// HandleKey feeds movement and interact keys into input and returns launcher commands
// Terminals report no key release, so each movement key press is a one-tick nudge
func HandleKey(ev *tcell.EventKey, input *engine.InputResource) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CommandQuit
	case tcell.KeyUp:
		input.Nudge(core.Vec3{Y: 1})
	case tcell.KeyDown:
		input.Nudge(core.Vec3{Y: -1})
	case tcell.KeyLeft:
		input.Nudge(core.Vec3{X: -1})
	case tcell.KeyRight:
		input.Nudge(core.Vec3{X: 1})
	case tcell.KeyEnter:
		input.PressInteract()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return CommandQuit
		case 'w', 'k':
			input.Nudge(core.Vec3{Y: 1})
		case 's', 'j':
			input.Nudge(core.Vec3{Y: -1})
		case 'a', 'h':
			input.Nudge(core.Vec3{X: -1})
		case 'd', 'l':
			input.Nudge(core.Vec3{X: 1})
		case 'e', ' ':
			input.PressInteract()
		case 'p':
			return CommandPause
		case 't':
			return CommandTelemetry
		case 'm':
			return CommandMute
		case 'S':
			return CommandSave
		}
	}
	return CommandNone
}

package component

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/timeline"
)

// TriggerKind selects how a trigger fires
// Zero value is Enter; Interact requires a press while overlapping
type TriggerKind struct {
	Interact bool
	Message  string
}

// Enter fires when the player starts overlapping
func Enter() TriggerKind {
	return TriggerKind{}
}

// Interact fires on an interact press while overlapping; empty message uses the default prompt
func Interact(message string) TriggerKind {
	if message == "" {
		message = parameter.DefaultInteractMessage
	}
	return TriggerKind{Interact: true, Message: message}
}

// String renders "enter" or "interact(Pull)"
func (k TriggerKind) String() string {
	if !k.Interact {
		return "enter"
	}
	return fmt.Sprintf("interact(%s)", k.Message)
}

// MarshalYAML emits "enter" or {interact: {message: ...}}
func (k TriggerKind) MarshalYAML() (any, error) {
	if !k.Interact {
		return "enter", nil
	}
	return map[string]map[string]string{"interact": {"message": k.Message}}, nil
}

// UnmarshalYAML accepts "enter", "interact" or {interact: {message: ...}}
func (k *TriggerKind) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Value {
		case "enter", "":
			*k = Enter()
		case "interact":
			*k = Interact("")
		default:
			return fmt.Errorf("line %d: %w: unknown trigger kind %q", node.Line, timeline.ErrContent, node.Value)
		}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Interact *struct {
				Message string `yaml:"message"`
			} `yaml:"interact"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Interact == nil {
			return fmt.Errorf("line %d: %w: trigger kind mapping needs 'interact'", node.Line, timeline.ErrContent)
		}
		*k = Interact(raw.Interact.Message)
		return nil
	default:
		return fmt.Errorf("line %d: %w: invalid trigger kind", node.Line, timeline.ErrContent)
	}
}

// TriggerComponent applies Causes when the player activates it
type TriggerComponent struct {
	Oneshot bool
	Causes  timeline.Records
	Kind    TriggerKind
}

// TriggerStateComponent tracks the previous tick's overlap for edge detection
type TriggerStateComponent struct {
	Inside bool
}

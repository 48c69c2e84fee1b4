package fsm

import "gopkg.in/yaml.v3"

const triggerTick = "Tick"

// RootConfig is the top-level YAML document
type RootConfig struct {
	Initial string                  `yaml:"initial"`
	States  map[string]*StateConfig `yaml:"states"`
}

// StateConfig is a single state definition
type StateConfig struct {
	Parent      string             `yaml:"parent,omitempty"`
	OnEnter     []ActionConfig     `yaml:"on_enter,omitempty"`
	OnUpdate    []ActionConfig     `yaml:"on_update,omitempty"`
	OnExit      []ActionConfig     `yaml:"on_exit,omitempty"`
	Transitions []TransitionConfig `yaml:"transitions,omitempty"`
}

// TransitionConfig is a transition definition
type TransitionConfig struct {
	Trigger   string         `yaml:"trigger"`              // always "Tick"
	Target    string         `yaml:"target"`               // Target state name
	Guard     string         `yaml:"guard,omitempty"`      // Registered guard name
	GuardArgs map[string]any `yaml:"guard_args,omitempty"` // Parameters for guard factories
}

// ActionConfig is an action reference
type ActionConfig struct {
	Action  string    `yaml:"action"`
	Event   string    `yaml:"event,omitempty"`   // EmitEvent: event name
	Payload yaml.Node `yaml:"payload,omitempty"` // EmitEvent: decoded into the event's payload struct
}

package fsm

import (
	"time"

	"github.com/lixenwraith/timeloop/event"
)

// StateID is a unique identifier for a node
type StateID int

const (
	StateNone StateID = 0
	StateRoot StateID = 1
)

// Machine is a hierarchical finite state machine runtime
// T is the context passed to actions and guards (typically *engine.World)
type Machine[T any] struct {
	// Graph, immutable after load
	nodes          map[StateID]*Node[T]
	InitialStateID StateID

	// Runtime
	activeStateID StateID
	timeInState   time.Duration
	activePath    []StateID

	guardReg        map[string]GuardFunc[T]
	guardFactoryReg map[string]GuardFactoryFunc[T]
	actionReg       map[string]ActionFunc[T]
}

// Node is a state in the hierarchy
type Node[T any] struct {
	ID       StateID
	Name     string
	ParentID StateID

	// Path from Root to this node, precomputed for LCA lookup
	Path []StateID

	OnEnter  []Action[T]
	OnUpdate []Action[T]
	OnExit   []Action[T]

	// Evaluated in declaration order
	Transitions []Transition[T]
}

// Transition links two states
type Transition[T any] struct {
	TargetID StateID
	Guard    GuardFunc[T] // nil = always
}

// Action is a compiled side effect
type Action[T any] struct {
	Name string
	Func ActionFunc[T]
	Args any
}

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T, args any)

// GuardFactoryFunc builds a parameterized guard from config args
type GuardFactoryFunc[T any] func(m *Machine[T], args map[string]any) (GuardFunc[T], error)

// EmitEventArgs is the compiled argument of the EmitEvent action
type EmitEventArgs struct {
	Type    event.EventType
	Payload any
}

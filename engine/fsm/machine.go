package fsm

import (
	"fmt"
	"time"
)

// NewMachine creates an empty machine with the built-in StateTimeExceeds guard factory
func NewMachine[T any]() *Machine[T] {
	m := &Machine[T]{
		nodes:           make(map[StateID]*Node[T]),
		guardReg:        make(map[string]GuardFunc[T]),
		guardFactoryReg: make(map[string]GuardFactoryFunc[T]),
		actionReg:       make(map[string]ActionFunc[T]),
		activePath:      make([]StateID, 0, 4),
	}
	m.RegisterGuardFactory("StateTimeExceeds", stateTimeExceeds[T])
	return m
}

// RegisterGuard adds a predicate to the registry
func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) {
	m.guardReg[name] = fn
}

// RegisterGuardFactory adds a parameterized guard factory to the registry
func (m *Machine[T]) RegisterGuardFactory(name string, factory GuardFactoryFunc[T]) {
	m.guardFactoryReg[name] = factory
}

// RegisterAction adds a side-effect function to the registry
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actionReg[name] = fn
}

// Init enters the initial state, running OnEnter from Root down
func (m *Machine[T]) Init(ctx T) error {
	node, ok := m.nodes[m.InitialStateID]
	if !ok {
		return fmt.Errorf("initial state ID %d not found", m.InitialStateID)
	}
	m.activeStateID = node.ID
	m.timeInState = 0
	m.activePath = append(m.activePath[:0], node.Path...)

	for _, id := range m.activePath {
		runActions(ctx, m.nodes[id].OnEnter)
	}
	return nil
}

// Update runs the leaf's OnUpdate actions then evaluates tick transitions, leaf first
func (m *Machine[T]) Update(ctx T, dt time.Duration) {
	if m.activeStateID == StateNone {
		return
	}
	m.timeInState += dt

	runActions(ctx, m.nodes[m.activeStateID].OnUpdate)
	m.fire(ctx)
}

// fire takes the first transition whose guard passes, searching the leaf then its ancestors
func (m *Machine[T]) fire(ctx T) {
	for currID := m.activeStateID; currID != StateNone; {
		node := m.nodes[currID]
		for _, trans := range node.Transitions {
			if trans.Guard == nil || trans.Guard(ctx) {
				m.transition(ctx, trans.TargetID)
				return
			}
		}
		currID = node.ParentID
	}
}

// transition exits up to the LCA and enters down to the target
func (m *Machine[T]) transition(ctx T, targetID StateID) {
	if m.activeStateID == targetID {
		return
	}
	target, ok := m.nodes[targetID]
	if !ok {
		panic(fmt.Sprintf("fsm: transition to unknown state ID %d", targetID))
	}

	lca := -1
	for i := 0; i < len(m.activePath) && i < len(target.Path); i++ {
		if m.activePath[i] != target.Path[i] {
			break
		}
		lca = i
	}

	for i := len(m.activePath) - 1; i > lca; i-- {
		runActions(ctx, m.nodes[m.activePath[i]].OnExit)
	}
	for i := lca + 1; i < len(target.Path); i++ {
		runActions(ctx, m.nodes[target.Path[i]].OnEnter)
	}

	m.activeStateID = targetID
	m.timeInState = 0
	m.activePath = append(m.activePath[:0], target.Path...)
}

// Reset exits the whole active path and re-enters the initial state
func (m *Machine[T]) Reset(ctx T) error {
	for i := len(m.activePath) - 1; i >= 0; i-- {
		runActions(ctx, m.nodes[m.activePath[i]].OnExit)
	}
	m.activeStateID = StateNone
	m.activePath = m.activePath[:0]
	return m.Init(ctx)
}

// ActiveState returns the leaf state's name
func (m *Machine[T]) ActiveState() string {
	if node, ok := m.nodes[m.activeStateID]; ok {
		return node.Name
	}
	return ""
}

func runActions[T any](ctx T, actions []Action[T]) {
	for _, a := range actions {
		a.Func(ctx, a.Args)
	}
}

func stateTimeExceeds[T any](m *Machine[T], args map[string]any) (GuardFunc[T], error) {
	raw, ok := args["ms"]
	if !ok {
		return nil, fmt.Errorf("StateTimeExceeds requires 'ms'")
	}
	var limit time.Duration
	switch v := raw.(type) {
	case int:
		limit = time.Duration(v) * time.Millisecond
	case float64:
		limit = time.Duration(v * float64(time.Millisecond))
	default:
		return nil, fmt.Errorf("StateTimeExceeds 'ms' must be a number, got %T", raw)
	}
	return func(T) bool { return m.timeInState >= limit }, nil
}

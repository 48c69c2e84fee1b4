package engine

import (
	"testing"
	"time"

	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/event"
)

type tagComp struct{ Name string }
type markComp struct{}

func TestStoreOfIsStable(t *testing.T) {
	w := NewWorld()
	a := StoreOf[tagComp](w)
	b := StoreOf[tagComp](w)
	if a != b {
		t.Fatalf("Expected the same store for repeated StoreOf")
	}
	if any(StoreOf[markComp](w)) == any(a) {
		t.Fatalf("Distinct component types must get distinct stores")
	}
}

func TestStoreUpdateAndOrder(t *testing.T) {
	s := NewStore[int]()
	for i := 1; i <= 4; i++ {
		s.Set(core.Entity(i), i*10)
	}
	s.Remove(2)
	got := s.All()
	want := []core.Entity{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected insertion order %v, got %v", want, got)
		}
	}

	if !s.Update(3, func(v *int) { *v++ }) {
		t.Fatalf("Update on present entity should succeed")
	}
	if v, _ := s.Get(3); v != 31 {
		t.Errorf("Expected 31 after Update, got %d", v)
	}
	if s.Update(2, func(v *int) { *v++ }) {
		t.Errorf("Update on removed entity should report false")
	}
}

func TestDespawnRecursive(t *testing.T) {
	w := NewWorld()
	root := With(w.NewEntity(), tagComp{"root"}).Build()
	child := With(w.NewEntity(), tagComp{"child"}).ChildOf(root).Build()
	grandchild := With(w.NewEntity(), tagComp{"grandchild"}).ChildOf(child).Build()
	other := With(w.NewEntity(), tagComp{"other"}).Build()

	w.DespawnRecursive(root)

	for _, e := range []core.Entity{root, child, grandchild} {
		if w.Alive(e) {
			t.Errorf("Entity %d should be despawned", e)
		}
		if StoreOf[tagComp](w).Has(e) {
			t.Errorf("Entity %d still has components", e)
		}
	}
	if !w.Alive(other) {
		t.Errorf("Unrelated entity was despawned")
	}
	if w.EntityCount() != 1 {
		t.Errorf("Expected 1 live entity, got %d", w.EntityCount())
	}
}

func TestDestroyEntityOrphansChildren(t *testing.T) {
	w := NewWorld()
	p := w.CreateEntity()
	c := w.NewEntity().ChildOf(p).Build()
	w.DestroyEntity(p)
	if !w.Alive(c) {
		t.Fatalf("Child should survive non-recursive destroy")
	}
	if w.Parent(c) != core.NoEntity {
		t.Errorf("Expected orphaned child, got parent %d", w.Parent(c))
	}
}

func TestQueryIntersection(t *testing.T) {
	w := NewWorld()
	e1 := With(With(w.NewEntity(), tagComp{"a"}), markComp{}).Build()
	With(w.NewEntity(), tagComp{"b"}).Build()
	e3 := With(With(w.NewEntity(), tagComp{"c"}), markComp{}).Build()

	got := w.Query().With(StoreOf[tagComp](w)).With(StoreOf[markComp](w)).Execute()
	if len(got) != 2 || got[0] != e1 || got[1] != e3 {
		t.Errorf("Expected [%d %d], got %v", e1, e3, got)
	}
}

type greeter interface{ Greet() string }
type english struct{}

func (english) Greet() string { return "hello" }

func TestInterfaceResource(t *testing.T) {
	rs := NewResourceStore()
	AddResource[greeter](rs, english{})
	g, ok := GetResource[greeter](rs)
	if !ok || g.Greet() != "hello" {
		t.Fatalf("Expected interface-typed resource to round trip")
	}
	if _, ok := GetResource[*InputResource](rs); ok {
		t.Errorf("Unexpected resource present")
	}
	RemoveResource[greeter](rs)
	if _, ok := GetResource[greeter](rs); ok {
		t.Errorf("Resource should be removed")
	}
}

type orderSystem struct {
	prio int
	log  *[]int
}

func (s orderSystem) Update(w *World, dt time.Duration) { *s.log = append(*s.log, s.prio) }
func (s orderSystem) Priority() int                      { return s.prio }

func TestLoopRunsSystemsInPriorityOrder(t *testing.T) {
	w := NewWorld()
	var ran []int
	w.AddSystem(orderSystem{30, &ran})
	w.AddSystem(orderSystem{10, &ran})
	w.AddSystem(orderSystem{20, &ran})

	mock := NewMockTimeProvider(time.Unix(0, 0))
	loop := NewLoop(w, NewPausableClock(mock), nil)

	mock.Advance(16 * time.Millisecond)
	loop.Tick()
	if len(ran) != 3 || ran[0] != 10 || ran[1] != 20 || ran[2] != 30 {
		t.Fatalf("Expected [10 20 30], got %v", ran)
	}
	if w.Frame() != 1 {
		t.Errorf("Expected frame 1, got %d", w.Frame())
	}
}

func TestLoopPausedClockSkipsTicks(t *testing.T) {
	w := NewWorld()
	var ran []int
	w.AddSystem(orderSystem{1, &ran})
	mock := NewMockTimeProvider(time.Unix(0, 0))
	clock := NewPausableClock(mock)
	loop := NewLoop(w, clock, nil)

	clock.Pause()
	mock.Advance(time.Second)
	loop.Tick()
	if len(ran) != 0 {
		t.Fatalf("Paused clock should not step, ran %v", ran)
	}
	clock.Resume()
	mock.Advance(10 * time.Millisecond)
	loop.Tick()
	if len(ran) != 1 {
		t.Fatalf("Expected one step after resume, got %d", len(ran))
	}
	if clock.TotalPauseDuration() != time.Second {
		t.Errorf("Expected 1s paused, got %v", clock.TotalPauseDuration())
	}
}

type countingHandler struct{ n int }

func (h *countingHandler) HandleEvent(w *World, ev event.GameEvent) { h.n++ }
func (h *countingHandler) EventTypes() []event.EventType {
	return []event.EventType{event.EventLoopReset}
}

func TestLoopDeliversEventsEmittedDuringTick(t *testing.T) {
	w := NewWorld()
	w.AddSystem(SystemFunc{Order: 1, Fn: func(w *World, dt time.Duration) {
		w.PushEvent(event.EventLoopReset, nil)
	}})
	loop := NewLoop(w, NewPausableClock(NewMockTimeProvider(time.Unix(0, 0))), nil)
	h := &countingHandler{}
	loop.Router().Register(h)

	loop.Step(time.Millisecond)
	if h.n != 1 {
		t.Errorf("Expected event delivered in the same tick, got %d", h.n)
	}
}

func TestInputLatchEdges(t *testing.T) {
	in := NewInputResource()
	in.PressInteract()
	in.Nudge(core.Vec3{X: 1})
	in.Latch()
	if !in.Interact || in.Move.X != 1 {
		t.Fatalf("Expected latched interact and move, got %+v", in)
	}
	in.Latch()
	if in.Interact || in.Move.X != 0 {
		t.Errorf("Edges should clear after one tick, got %+v", in)
	}
	in.Hold(core.Vec3{Y: -1})
	in.Latch()
	in.Latch()
	if in.Move.Y != -1 {
		t.Errorf("Held direction should persist, got %+v", in.Move)
	}
}

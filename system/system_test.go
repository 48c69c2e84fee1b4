package system

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/looptime"
	"github.com/lixenwraith/timeloop/status"
	"github.com/lixenwraith/timeloop/timegraph"
	"github.com/lixenwraith/timeloop/timeline"
)

const tick = 16 * time.Millisecond

type counter struct{ n int }

type countAction struct{}

func (a *countAction) Apply(w *engine.World) {
	engine.MustGetResource[*counter](w.Resources).n++
}

type testWorld struct {
	w      *engine.World
	input  *engine.InputResource
	loop   *timeline.TimeLoop
	count  *counter
	q      *event.EventQueue
	player core.Entity
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	tw := &testWorld{
		w:     engine.NewWorld(),
		input: engine.NewInputResource(),
		loop:  timeline.NewTimeLoop(timeline.Point{Timeline: "tl/intro.tl.yaml", Time: looptime.Seconds(2)}),
		count: &counter{},
		q:     event.NewEventQueue(),
	}
	engine.AddResource(tw.w.Resources, tw.input)
	engine.AddResource(tw.w.Resources, tw.loop)
	engine.AddResource(tw.w.Resources, tw.count)
	tw.w.SetEventQueue(tw.q)

	eb := tw.w.NewEntity()
	engine.With(eb, component.PlayerComponent{})
	tw.player = engine.With(eb, component.TransformComponent{Translation: core.Vec3{X: 10}}).Build()
	return tw
}

func (tw *testWorld) movePlayer(to core.Vec3) {
	engine.StoreOf[component.TransformComponent](tw.w).Set(tw.player, component.TransformComponent{Translation: to})
}

func (tw *testWorld) trigger(kind component.TriggerKind, oneshot bool) core.Entity {
	eb := tw.w.NewEntity()
	engine.With(eb, component.TransformComponent{})
	engine.With(eb, component.SensorComponent{Radius: 0.5})
	engine.With(eb, component.TriggerStateComponent{})
	return engine.With(eb, component.TriggerComponent{
		Oneshot: oneshot,
		Kind:    kind,
		Causes:  timeline.Records{{Tag: "Count", Action: &countAction{}}},
	}).Build()
}

func TestEnterTriggerFiresOnEdge(t *testing.T) {
	tw := newTestWorld(t)
	tw.trigger(component.Enter(), false)
	sys := NewTriggerSystem()

	sys.Update(tw.w, tick)
	if tw.count.n != 0 {
		t.Fatalf("Expected no fire while outside, got %d", tw.count.n)
	}

	tw.movePlayer(core.Vec3{})
	for range 3 {
		sys.Update(tw.w, tick)
	}
	if tw.count.n != 1 {
		t.Fatalf("Expected one fire on entering, got %d", tw.count.n)
	}

	tw.movePlayer(core.Vec3{X: 10})
	sys.Update(tw.w, tick)
	tw.movePlayer(core.Vec3{})
	sys.Update(tw.w, tick)
	if tw.count.n != 2 {
		t.Errorf("Expected re-entry to fire again, got %d", tw.count.n)
	}
}

func TestInteractTriggerAndPrompt(t *testing.T) {
	tw := newTestWorld(t)
	tw.trigger(component.Interact("Pull"), true)
	signs := engine.StoreOf[component.InteractSignComponent](tw.w)
	sign := tw.w.CreateEntity()
	signs.Set(sign, component.InteractSignComponent{Text: "Interact"})
	sys := NewTriggerSystem()

	tw.movePlayer(core.Vec3{X: 0.2})
	sys.Update(tw.w, tick)
	if tw.count.n != 0 {
		t.Fatalf("Interact trigger must not fire without a press")
	}
	if s, _ := signs.Get(sign); !s.Visible || s.Text != "Pull" {
		t.Fatalf("Expected visible Pull prompt, got %+v", s)
	}

	tw.input.PressInteract()
	tw.input.Latch()
	sys.Update(tw.w, tick)
	if tw.count.n != 1 {
		t.Fatalf("Expected one fire on press, got %d", tw.count.n)
	}
	if engine.StoreOf[component.TriggerComponent](tw.w).Count() != 0 {
		t.Errorf("Expected oneshot trigger despawned")
	}
	if s, _ := signs.Get(sign); s.Visible {
		t.Errorf("Expected prompt hidden after oneshot fired")
	}

	tw.input.PressInteract()
	tw.input.Latch()
	sys.Update(tw.w, tick)
	if tw.count.n != 1 {
		t.Errorf("Despawned trigger fired again")
	}
}

func TestTriggerWithoutPlayerIsSkipped(t *testing.T) {
	tw := newTestWorld(t)
	tw.trigger(component.Enter(), false)
	tw.w.DestroyEntity(tw.player)

	NewTriggerSystem().Update(tw.w, tick)
	if tw.count.n != 0 {
		t.Errorf("Expected no fire without player")
	}
}

func TestPortalJumpsOncePerEntry(t *testing.T) {
	tw := newTestWorld(t)
	dest := timeline.Point{Timeline: "tl/area_1.tl.yaml", Time: looptime.Seconds(30)}
	eb := tw.w.NewEntity()
	engine.With(eb, component.TransformComponent{Translation: core.Vec3{Y: 3}})
	engine.With(eb, component.SensorComponent{Radius: 0.5})
	engine.With(eb, component.PortalToComponent{Dest: dest})
	sys := NewPortalSystem()

	tw.movePlayer(core.Vec3{Y: 3})
	sys.Update(tw.w, tick)
	if tw.loop.Curr != dest {
		t.Fatalf("Expected cursor at %s, got %s", dest, tw.loop.Curr)
	}

	// Staying inside does not re-jump
	tw.loop.Curr.Time = looptime.Seconds(31)
	sys.Update(tw.w, tick)
	if tw.loop.Curr.Time != looptime.Seconds(31) {
		t.Errorf("Portal re-fired while player stayed inside")
	}
	if tw.loop.Mode != timeline.ModeRunning || tw.loop.Epoch != 0 {
		t.Errorf("Portal jump must not seek or reset: %+v", tw.loop)
	}

	evs := tw.q.Consume()
	if len(evs) != 1 || evs[0].Type != event.EventPortalJump {
		t.Fatalf("Expected one portal event, got %+v", evs)
	}
	p := evs[0].Payload.(*event.PortalJumpPayload)
	if p.FromTime != looptime.Seconds(2) || p.ToTimeline != string(dest.Timeline) {
		t.Errorf("Unexpected payload %+v", p)
	}
}

type labels struct{ seen []string }

type labelAction struct {
	Msg string `yaml:"msg"`
}

func (a *labelAction) Apply(w *engine.World) {
	l := engine.MustGetResource[*labels](w.Resources)
	l.seen = append(l.seen, a.Msg)
}

func TestPortalJumpEndsOldTimelineWithinTick(t *testing.T) {
	tw := newTestWorld(t)
	reg := timeline.NewRegistry()
	timeline.RegisterType[labelAction](reg, "Mark")
	lib := timeline.NewLibrary()
	for id, doc := range map[timeline.ID]string{
		"a": "moments:\n  3s: {happenings: [{Mark: {msg: a3}}]}\n  5s: {happenings: [{Mark: {msg: a5}}]}\n  10s: {happenings: [{Mark: {msg: a10}}]}\n",
		"c": "moments:\n  0s: {happenings: [{Mark: {msg: c0}}]}\n  4s: {happenings: [{Mark: {msg: c4}}]}\n",
	} {
		tl, err := timeline.Decode(reg, id, []byte(doc), nil)
		if err != nil {
			t.Fatalf("Decode %s failed: %v", id, err)
		}
		lib.Put(tl)
	}
	seen := &labels{}
	engine.AddResource(tw.w.Resources, lib)
	engine.AddResource(tw.w.Resources, seen)

	sched, err := timegraph.NewScheduler(nil, nil)
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	tw.w.AddSystem(NewPortalSystem())
	tw.w.AddSystem(sched)

	tw.loop.JumpTo(timeline.Point{Timeline: "a", Time: looptime.MustParse("2s 900ms")})
	dest := timeline.Point{Timeline: "c", Time: 0}
	eb := tw.w.NewEntity()
	engine.With(eb, component.TransformComponent{Translation: core.Vec3{Y: 3}})
	engine.With(eb, component.SensorComponent{Radius: 0.5})
	engine.With(eb, component.PortalToComponent{Dest: dest})
	tw.movePlayer(core.Vec3{Y: 3})

	// The scheduler fires [2.9s, 3.1s) on a, then the portal moves the cursor
	tw.w.Update(200 * time.Millisecond)
	if tw.loop.Curr != dest {
		t.Fatalf("Expected cursor at %s after the jump, got %s", dest, tw.loop.Curr)
	}
	if len(seen.seen) != 1 || seen.seen[0] != "a3" {
		t.Fatalf("Expected only a3 in the jump tick, got %v", seen.seen)
	}

	// Step out of the portal and play past a's remaining moments
	tw.movePlayer(core.Vec3{X: 10})
	for i := 0; i < 60; i++ {
		tw.w.Update(200 * time.Millisecond)
	}
	want := []string{"a3", "c0", "c4"}
	if len(seen.seen) != len(want) {
		t.Fatalf("Expected %v, got %v", want, seen.seen)
	}
	for i := range want {
		if seen.seen[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, seen.seen)
			break
		}
	}
	if tw.loop.Curr.Timeline != "c" || tw.loop.Curr.Time != looptime.Seconds(12) {
		t.Errorf("Expected c@12s, got %s", tw.loop.Curr)
	}
}

func TestLifetimeExpiry(t *testing.T) {
	tw := newTestWorld(t)
	eb := tw.w.NewEntity()
	engine.With(eb, component.SpawnedAtComponent{At: looptime.Seconds(1)})
	e := engine.With(eb, component.LifetimeComponent{Duration: looptime.Seconds(2)}).Build()
	sys := NewLifetimeSystem()

	sys.Update(tw.w, tick)
	if !tw.w.Alive(e) {
		t.Fatalf("Entity expired early")
	}
	tw.loop.Curr.Time = looptime.Seconds(3)
	sys.Update(tw.w, tick)
	if tw.w.Alive(e) {
		t.Errorf("Expected entity expired at spawn+lifetime")
	}
}

func TestClockHand(t *testing.T) {
	tests := []struct {
		secs float64
		want float64
	}{
		{0, 0},
		{15, -math.Pi / 2},
		{30, -math.Pi},
		{60, -2 * math.Pi},
	}
	for _, tc := range tests {
		if got := HandAngle(tc.secs); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("HandAngle(%v) = %v, expected %v", tc.secs, got, tc.want)
		}
	}

	tw := newTestWorld(t)
	hand := tw.w.CreateEntity()
	engine.StoreOf[component.ClockHandComponent](tw.w).Set(hand, component.ClockHandComponent{})
	tw.loop.Curr.Time = looptime.Seconds(45)
	NewClockHandSystem().Update(tw.w, tick)
	tf, ok := engine.StoreOf[component.TransformComponent](tw.w).Get(hand)
	if !ok || math.Abs(tf.Yaw+1.5*math.Pi) > 1e-9 {
		t.Errorf("Expected yaw -3π/2, got %+v", tf)
	}
}

func TestPlayerMove(t *testing.T) {
	tw := newTestWorld(t)
	tw.movePlayer(core.Vec3{})
	tw.input.Nudge(core.Vec3{X: 1})
	tw.input.Latch()

	NewPlayerMoveSystem().Update(tw.w, 500*time.Millisecond)
	tf, _ := engine.StoreOf[component.TransformComponent](tw.w).Get(tw.player)
	if math.Abs(tf.Translation.X-2) > 1e-9 {
		t.Errorf("Expected player at x=2, got %+v", tf.Translation)
	}
}

type tone struct {
	freq float64
	d    time.Duration
}

type fakePlayer struct{ tones []tone }

func (p *fakePlayer) PlayTone(f float64, d time.Duration) {
	p.tones = append(p.tones, tone{f, d})
}

func TestAudioAndTelemetryHandlers(t *testing.T) {
	tw := newTestWorld(t)
	player := &fakePlayer{}
	engine.AddResource[engine.AudioPlayer](tw.w.Resources, player)
	reg := status.NewRegistry()

	audio := NewAudioSystem()
	telemetry := NewTelemetrySystem(reg)
	router := event.NewRouter[*engine.World](tw.q)
	router.Register(audio)
	router.Register(telemetry)

	tw.w.PushEvent(event.EventSoundRequest, &event.SoundRequestPayload{Frequency: 440, Duration: 100 * time.Millisecond})
	tw.w.PushEvent(event.EventBranchTaken, &event.BranchPayload{From: "a", To: "b"})
	if n := router.DispatchAll(tw.w); n != 2 {
		t.Fatalf("Expected 2 events dispatched, got %d", n)
	}
	if len(player.tones) != 1 || player.tones[0].freq != 440 || audio.Played() != 1 {
		t.Errorf("Expected one 440Hz tone, got %+v", player.tones)
	}

	tw.w.PushEvent(event.EventSeekStart, &event.SeekPayload{})
	telemetry.Update(tw.w, tick)
	if got := reg.Ints.Get("events.pending").Load(); got != 1 {
		t.Errorf("Expected one pending event, got %d", got)
	}
	if got := reg.Ints.Get("events.dropped").Load(); got != 0 {
		t.Errorf("Expected no dropped events, got %d", got)
	}
	if got := reg.Strings.Get("loop.time").Load(); got != "2s" {
		t.Errorf("Expected loop.time 2s, got %q", got)
	}
	if got := reg.Ints.Get("events." + event.EventBranchTaken.String()).Load(); got != 1 {
		t.Errorf("Expected one branch event counted, got %d", got)
	}
	if got := reg.Ints.Get("world.entities").Load(); got != 1 {
		t.Errorf("Expected 1 entity, got %d", got)
	}
}

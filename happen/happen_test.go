package happen

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/looptime"
	"github.com/lixenwraith/timeloop/timeline"
)

type fixture struct {
	w    *engine.World
	reg  *timeline.Registry
	lib  *timeline.Library
	loop *timeline.TimeLoop
	logs *bytes.Buffer
	q    *event.EventQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		w:    engine.NewWorld(),
		reg:  NewRegistry(),
		lib:  timeline.NewLibrary(),
		loop: timeline.NewTimeLoop(timeline.Point{Timeline: "tl/intro.tl.yaml", Time: looptime.Seconds(3)}),
		logs: &bytes.Buffer{},
		q:    event.NewEventQueue(),
	}
	logger := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: LevelTrace}))
	engine.AddResource(f.w.Resources, logger)
	engine.AddResource(f.w.Resources, f.reg)
	engine.AddResource(f.w.Resources, f.lib)
	engine.AddResource(f.w.Resources, f.loop)
	f.w.SetEventQueue(f.q)
	return f
}

func (f *fixture) load(t *testing.T, id, doc string) *timeline.Timeline {
	t.Helper()
	tl, err := timeline.Decode(f.reg, timeline.ID(id), []byte(doc), nil)
	if err != nil {
		t.Fatalf("Decode %s failed: %v", id, err)
	}
	f.lib.Put(tl)
	return tl
}

// fire applies every enabled happenings of the moment at t
func (f *fixture) fire(t *testing.T, tl *timeline.Timeline, at looptime.LoopTime) {
	t.Helper()
	_, m, ok := tl.Find(timeline.At(at))
	if !ok {
		t.Fatalf("No moment at %s", at)
	}
	for _, h := range m.Happenings {
		for _, rec := range h.Actions {
			rec.Action.Apply(f.w)
		}
	}
}

const everyAction = `
moments:
  0s:
    happenings:
      - Log: {level: trace, msg: hello}
        TakeBranch: {timeline: tl/area_1.tl.yaml}
        ResetLoop: {to: -5s}
        ModifyTimeline: {timelines: [{timeline: tl/intro.tl.yaml, updates: [{moment: {at: 0s}, disabled: toggle}]}]}
        SpawnPortalTo: {to: {timeline: tl/area_1.tl.yaml, at: 30s}, at: {x: 1, y: 2}}
        FlipLever: {}
        MovePlayer: {to: {x: 3}}
        Despawn: {name: ghost}
        SpawnTimed: {name: spark, lifetime: 2s}
        PlaySound: {tone: 440, ms: 120}
        SpawnTrigger:
          at: {x: 4}
          kind: {interact: {message: Pull}}
          oneshot: true
          causes:
            Log: {msg: pulled}
`

func TestEveryBuiltinDecodes(t *testing.T) {
	f := newFixture(t)
	tl := f.load(t, "tl/intro.tl.yaml", everyAction)
	_, m, _ := tl.Find(timeline.At(0))
	recs := m.Happenings[0].Actions
	if len(recs) != 11 {
		t.Fatalf("Expected 11 actions, got %d", len(recs))
	}
	want := []string{"Log", "TakeBranch", "ResetLoop", "ModifyTimeline", "SpawnPortalTo", "FlipLever",
		"MovePlayer", "Despawn", "SpawnTimed", "PlaySound", "SpawnTrigger"}
	for i, tag := range want {
		if recs[i].Tag != tag {
			t.Errorf("Action %d: expected %s, got %s", i, tag, recs[i].Tag)
		}
	}
	if got := f.reg.Tags(); len(got) != len(want) {
		t.Errorf("Expected %d registered tags, got %v", len(want), got)
	}

	st := recs[10].Action.(*SpawnTrigger)
	if !st.Oneshot || st.Kind.Message != "Pull" || len(st.Causes) != 1 || st.Causes[0].Tag != "Log" {
		t.Errorf("Unexpected SpawnTrigger decode %+v", st)
	}
	if recs[2].Action.(*ResetLoop).To != looptime.Seconds(-5) {
		t.Errorf("Unexpected ResetLoop decode")
	}
}

func TestTakeBranchKeepsTime(t *testing.T) {
	f := newFixture(t)
	(&TakeBranch{Timeline: "tl/area_1.tl.yaml"}).Apply(f.w)
	if f.loop.Curr.Timeline != "tl/area_1.tl.yaml" || f.loop.Curr.Time != looptime.Seconds(3) {
		t.Errorf("Unexpected cursor %v", f.loop.Curr)
	}
	if !strings.Contains(f.logs.String(), "unloaded timeline") {
		t.Errorf("Expected warning for unloaded target")
	}
	evs := f.q.Consume()
	if len(evs) != 1 || evs[0].Type != event.EventBranchTaken {
		t.Errorf("Expected EventBranchTaken, got %v", evs)
	}
}

func TestResetLoopRejectsRetarget(t *testing.T) {
	f := newFixture(t)
	(&ResetLoop{To: 0}).Apply(f.w)
	(&ResetLoop{To: looptime.Seconds(1)}).Apply(f.w)
	if f.loop.Mode != timeline.ModeResetting || f.loop.ResettingTo != 0 || f.loop.ResettingFrom != looptime.Seconds(3) {
		t.Errorf("Unexpected seek state %+v", f.loop)
	}
	if !strings.Contains(f.logs.String(), "reset request ignored") {
		t.Errorf("Expected second request to be logged as ignored")
	}
}

const patchTarget = `
moments:
  0s:
    label: start
    happenings:
      - LABEL: a
        Log: {msg: a}
      - LABEL: b
        DISABLED: true
        Log: {msg: b}
  5s:
    label: lever
`

func TestModifyTimelinePartialApply(t *testing.T) {
	f := newFixture(t)
	tl := f.load(t, "tl/intro.tl.yaml", patchTarget)
	on, toggle := SetTrue, SetToggle

	mod := &ModifyTimeline{Timelines: []TimelineUpdate{
		{Timeline: "tl/missing.tl.yaml", Updates: []MomentUpdate{{Moment: timeline.At(0), Disabled: &on}}},
		{Timeline: "tl/intro.tl.yaml", Updates: []MomentUpdate{
			{Moment: timeline.Labelled("nope"), Disabled: &on},
			{Moment: timeline.Labelled("lever"), Disabled: &on},
			{Moment: timeline.At(0), Happenings: map[string]SetDisabled{"a": SetTrue, "b": SetToggle, "zzz": SetTrue}},
		}},
	}}
	mod.Apply(f.w)

	_, lever, _ := tl.Find(timeline.Labelled("lever"))
	if !lever.Disabled {
		t.Errorf("Expected lever moment disabled")
	}
	_, start, _ := tl.Find(timeline.At(0))
	if start.Disabled {
		t.Errorf("Start moment should be untouched")
	}
	if !start.Happenings[0].Disabled || start.Happenings[1].Disabled {
		t.Errorf("Expected a disabled and b re-enabled, got %+v", start.Happenings)
	}

	logs := f.logs.String()
	for _, want := range []string{"timeline not loaded", "moment not found", "happenings not found"} {
		if !strings.Contains(logs, want) {
			t.Errorf("Expected warning %q in logs", want)
		}
	}

	// Toggle twice restores
	(&ModifyTimeline{Timelines: []TimelineUpdate{{Timeline: "tl/intro.tl.yaml",
		Updates: []MomentUpdate{{Moment: timeline.Labelled("lever"), Disabled: &toggle}}}}}).Apply(f.w)
	if _, lever, _ := tl.Find(timeline.Labelled("lever")); lever.Disabled {
		t.Errorf("Toggle should re-enable lever")
	}
}

func TestFlipLever(t *testing.T) {
	f := newFixture(t)
	lever := engine.With(engine.With(f.w.NewEntity(),
		component.NameComponent{Value: "IntroLever"}),
		component.LeverComponent{}).Build()

	(&FlipLever{}).Apply(f.w)
	if l, _ := engine.StoreOf[component.LeverComponent](f.w).Get(lever); l.Index != 1 {
		t.Fatalf("Expected index 1, got %d", l.Index)
	}
	(&FlipLever{}).Apply(f.w)
	if l, _ := engine.StoreOf[component.LeverComponent](f.w).Get(lever); l.Index != 0 {
		t.Errorf("Expected index back to 0, got %d", l.Index)
	}

	(&FlipLever{Name: "Missing"}).Apply(f.w)
	if !strings.Contains(f.logs.String(), "level=ERROR") {
		t.Errorf("Missing lever should log an error")
	}
}

func TestSpawnActions(t *testing.T) {
	f := newFixture(t)
	(&SpawnPortalTo{To: timeline.Point{Timeline: "tl/area_1.tl.yaml", Time: looptime.Seconds(30)}}).Apply(f.w)
	portals := engine.StoreOf[component.PortalToComponent](f.w).All()
	if len(portals) != 1 {
		t.Fatalf("Expected one portal, got %d", len(portals))
	}
	if s, _ := engine.StoreOf[component.SensorComponent](f.w).Get(portals[0]); s.Radius != 0.5 {
		t.Errorf("Expected default radius 0.5, got %v", s.Radius)
	}
	if !engine.StoreOf[component.ResettableComponent](f.w).Has(portals[0]) {
		t.Errorf("Portal should be resettable")
	}

	(&SpawnTimed{Name: "spark", Lifetime: looptime.Seconds(2)}).Apply(f.w)
	spark := component.Named(f.w, "spark")
	if len(spark) != 1 {
		t.Fatalf("Expected spark entity")
	}
	if at, _ := engine.StoreOf[component.SpawnedAtComponent](f.w).Get(spark[0]); at.At != looptime.Seconds(3) {
		t.Errorf("Expected SpawnedAt 3s, got %s", at.At)
	}

	(&Despawn{Name: "spark"}).Apply(f.w)
	if f.w.Alive(spark[0]) {
		t.Errorf("Despawn should remove spark")
	}
}

func TestSpawnTriggerClonesCauses(t *testing.T) {
	f := newFixture(t)
	src := &SpawnTrigger{Kind: component.Interact(""), Causes: timeline.Records{{Tag: "Log", Action: &Log{Msg: "x"}}}}
	src.Apply(f.w)

	trig := engine.StoreOf[component.TriggerComponent](f.w).All()
	if len(trig) != 1 {
		t.Fatalf("Expected one trigger")
	}
	tc, _ := engine.StoreOf[component.TriggerComponent](f.w).Get(trig[0])
	if tc.Causes[0].Action == src.Causes[0].Action {
		t.Errorf("Spawned trigger must own a copy of its causes")
	}
	if tc.Kind.Message != "Interact" {
		t.Errorf("Expected default message, got %q", tc.Kind.Message)
	}
}

func TestMovePlayerAndPlaySound(t *testing.T) {
	f := newFixture(t)
	(&MovePlayer{To: core.Vec3{X: 1}}).Apply(f.w)
	if !strings.Contains(f.logs.String(), "no player") {
		t.Errorf("Expected warning without player")
	}
	p := engine.With(f.w.NewEntity(), component.PlayerComponent{}).Build()
	(&MovePlayer{To: core.Vec3{X: 2, Y: 1}}).Apply(f.w)
	if tf, _ := engine.StoreOf[component.TransformComponent](f.w).Get(p); tf.Translation.X != 2 {
		t.Errorf("Player not moved: %+v", tf)
	}

	(&PlaySound{Tone: 440, Ms: 100}).Apply(f.w)
	evs := f.q.Consume()
	if len(evs) != 1 {
		t.Fatalf("Expected sound request")
	}
	req := evs[0].Payload.(*event.SoundRequestPayload)
	if req.Frequency != 440 || req.Duration != 100*time.Millisecond {
		t.Errorf("Unexpected request %+v", req)
	}
}

func TestLogLevels(t *testing.T) {
	f := newFixture(t)
	tl := f.load(t, "tl/log.tl.yaml", "moments:\n  0s:\n    happenings:\n      - Log: {level: warn, msg: careful}\n")
	f.fire(t, tl, 0)
	out := f.logs.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "target=happens") || !strings.Contains(out, "careful") {
		t.Errorf("Unexpected log output %q", out)
	}
	if _, err := timeline.Decode(f.reg, "x", []byte("moments:\n  0s:\n    happenings:\n      - Log: {level: loud}\n"), nil); err == nil {
		t.Errorf("Unknown level must fail decode")
	}
}

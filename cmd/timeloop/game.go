package main

import (
	"fmt"
	"log/slog"

	"github.com/lixenwraith/timeloop/asset"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/happen"
	"github.com/lixenwraith/timeloop/scene"
	"github.com/lixenwraith/timeloop/status"
	"github.com/lixenwraith/timeloop/system"
	"github.com/lixenwraith/timeloop/timegraph"
	"github.com/lixenwraith/timeloop/timeline"
)

// options are the persistent flags shared by every command
type options struct {
	assets    string
	entry     string
	timelines []string
	logPath   string
	logLevel  string
}

func (o *options) source() engine.AssetSource {
	if o.assets == "" {
		return asset.Source()
	}
	return engine.NewDirSource(o.assets)
}

// loadLibrary decodes the requested timelines; failing files are reported and skipped
func loadLibrary(o *options, reg *timeline.Registry, log *slog.Logger) (*timeline.Library, []error, error) {
	loader := &timeline.Loader{Registry: reg, Source: o.source(), Log: log}
	paths := o.timelines
	if len(paths) == 0 {
		var err error
		if paths, err = loader.Discover(); err != nil {
			return nil, nil, fmt.Errorf("discover timelines: %w", err)
		}
	}
	lib := timeline.NewLibrary()
	errs := loader.LoadAll(lib, paths)
	for _, issue := range timeline.ValidateLinks(lib) {
		log.Warn("timeline link issue", "target", "time_graph", "issue", issue.String())
	}
	return lib, errs, nil
}

// game is a fully wired world ready to tick
type game struct {
	world   *engine.World
	loop    *engine.Loop
	clock   *engine.PausableClock
	cursor  *timeline.TimeLoop
	lib     *timeline.Library
	reg     *timeline.Registry
	metrics *status.Registry
	sched   *timegraph.Scheduler
	log     *slog.Logger
}

// newGame loads content and wires resources, systems and the scene
// source drives the clock; nil means wall time
func newGame(o *options, log *slog.Logger, source engine.TimeProvider) (*game, error) {
	reg := happen.NewRegistry()
	lib, errs, err := loadLibrary(o, reg, log)
	if err != nil {
		return nil, err
	}
	entry := timeline.CleanID(o.entry)
	if _, ok := lib.Get(entry); !ok {
		return nil, fmt.Errorf("entry timeline %q not loaded (%d load errors)", entry, len(errs))
	}

	w := engine.NewWorld()
	cursor := timeline.NewTimeLoop(timeline.Point{Timeline: entry})
	metrics := status.NewRegistry()
	engine.AddResource(w.Resources, log)
	engine.AddResource(w.Resources, reg)
	engine.AddResource(w.Resources, lib)
	engine.AddResource(w.Resources, cursor)
	engine.AddResource(w.Resources, metrics)
	engine.AddResource(w.Resources, &engine.AssetResource{Source: o.source()})

	clock := engine.NewPausableClock(source)
	loop := engine.NewLoop(w, clock, log)

	sched, err := timegraph.NewScheduler(log, metrics)
	if err != nil {
		return nil, err
	}
	audioSys := system.NewAudioSystem()
	telemetry := system.NewTelemetrySystem(metrics)
	w.AddSystem(sched)
	w.AddSystem(system.NewPlayerMoveSystem())
	w.AddSystem(system.NewTriggerSystem())
	w.AddSystem(system.NewPortalSystem())
	w.AddSystem(system.NewLifetimeSystem())
	w.AddSystem(system.NewClockHandSystem())
	w.AddSystem(audioSys)
	w.AddSystem(telemetry)
	loop.Router().Register(audioSys)
	loop.Router().Register(telemetry)

	scene.Install(w)

	log.Info("game ready", "target", "engine", "entry", entry, "timelines", lib.Len(), "load_errors", len(errs))
	return &game{
		world:   w,
		loop:    loop,
		clock:   clock,
		cursor:  cursor,
		lib:     lib,
		reg:     reg,
		metrics: metrics,
		sched:   sched,
		log:     log,
	}, nil
}

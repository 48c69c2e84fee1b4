package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/timeloop/audio"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/engine/services"
	"github.com/lixenwraith/timeloop/parameter"
	"github.com/lixenwraith/timeloop/render"
	"github.com/lixenwraith/timeloop/save"
)

type runOptions struct {
	tick    time.Duration
	save    string
	slot    string
	mute    bool
	restore bool
}

func runCmd(o *options) *cobra.Command {
	ro := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(cmd.Context(), o, ro)
		},
	}
	f := cmd.Flags()
	f.DurationVar(&ro.tick, "tick", parameter.TickInterval, "simulation tick interval")
	f.StringVar(&ro.save, "save", "", "save database path (sqlite)")
	f.StringVar(&ro.slot, "slot", "quick", "save slot name")
	f.BoolVar(&ro.restore, "restore", false, "restore the slot before starting")
	f.BoolVar(&ro.mute, "mute", false, "start with audio muted")
	return cmd
}

func runGame(ctx context.Context, o *options, ro *runOptions) (err error) {
	if ro.tick <= 0 {
		return fmt.Errorf("tick must be positive, got %v", ro.tick)
	}
	// The terminal owns stdout, so logs go nowhere unless a file is given
	log, closer, err := setupLogging(o.logPath, o.logLevel, io.Discard)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	g, err := newGame(o, log, nil)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	player := audio.NewTonePlayer()
	if ro.mute {
		player.ToggleMute()
	}

	hub := services.NewHub(log)
	if err := hub.RegisterOptional(&toneService{player: player}); err != nil {
		log.Warn("audio service not registered", "target", "engine", "error", err)
	}
	var saves *storeService
	if ro.save != "" {
		saves = &storeService{path: ro.save}
		if err := hub.Register(saves); err != nil {
			return err
		}
	}
	if err := hub.Register(&screenService{screen: screen}); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	if !installAudio(g.world, hub, player) {
		log.Info("running without audio", "target", "engine")
	}
	defer hub.StopAll()
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\ntimeloop crashed: %v\n%s\n", r, debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	var store *save.Store
	if saves != nil {
		store = saves.store
		if ro.restore {
			if err := restoreSlot(ctx, g, store, ro.slot); err != nil {
				return err
			}
		}
	}

	view := render.NewView(screen, g.metrics)
	input := engine.MustGetResource[*engine.InputResource](g.world.Resources)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// tcell's PollEvent blocks, so input lives on its own goroutine
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	tick := time.NewTicker(ro.tick)
	defer tick.Stop()
	frame := time.NewTicker(parameter.RenderInterval)
	defer frame.Stop()

	log.Info("run started", "target", "engine", "tick", ro.tick)
	view.Draw(g.world)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				switch render.HandleKey(ev, input) {
				case render.CommandQuit:
					log.Info("quit requested", "target", "engine", "frames", g.world.Frame())
					return nil
				case render.CommandPause:
					paused := g.clock.Toggle()
					log.Info("pause toggled", "target", "engine", "paused", paused)
				case render.CommandTelemetry:
					view.ShowTelemetry = !view.ShowTelemetry
				case render.CommandMute:
					player.ToggleMute()
				case render.CommandSave:
					if store == nil {
						log.Warn("save requested without --save", "target", "engine")
						break
					}
					if err := saveSlot(ctx, g, store, ro.slot); err != nil {
						log.Error("save failed", "target", "engine", "slot", ro.slot, "error", err)
					}
				}
			}
		case <-tick.C:
			g.loop.Tick()
		case <-frame.C:
			view.Draw(g.world)
		}
	}
}

// installAudio exposes player to the world only once the audio service runs
func installAudio(w *engine.World, hub *services.Hub, player engine.AudioPlayer) bool {
	if !hub.Started(audioService) {
		return false
	}
	engine.AddResource[engine.AudioPlayer](w.Resources, player)
	return true
}

// saveSlot snapshots the cursor and library under the world lock
func saveSlot(ctx context.Context, g *game, store *save.Store, slot string) error {
	var err error
	g.world.RunSafe(func() {
		err = store.Save(ctx, slot, g.cursor, g.lib)
	})
	if err == nil {
		g.log.Info("saved", "target", "engine", "slot", slot, "at", g.cursor.Curr.String())
	}
	return err
}

// restoreSlot applies a snapshot; a missing slot is not an error
func restoreSlot(ctx context.Context, g *game, store *save.Store, slot string) error {
	snap, err := store.Load(ctx, slot, g.reg, g.log)
	if errors.Is(err, save.ErrNoSnapshot) {
		g.log.Info("no snapshot to restore", "target", "engine", "slot", slot)
		return nil
	}
	if err != nil {
		return err
	}
	g.world.RunSafe(func() {
		save.Restore(snap, g.cursor, g.lib)
		err = g.sched.Restart(g.world)
	})
	if err != nil {
		return err
	}
	g.log.Info("restored", "target", "engine", "slot", slot, "at", g.cursor.Curr.String())
	return nil
}

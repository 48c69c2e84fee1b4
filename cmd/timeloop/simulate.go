package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/save"
)

type simOptions struct {
	duration time.Duration
	dt       time.Duration
	inputs   []string
	save     string
	slot     string
	restore  bool
	quiet    bool
}

// scriptStep is one scripted input, applied on the first tick at or after At
type scriptStep struct {
	At       time.Duration
	Interact bool
	Move     core.Vec3
}

func simulateCmd(o *options) *cobra.Command {
	so := &simOptions{}
	cmd := &cobra.Command{
		Use:     "simulate",
		Short:   "Run headless with fixed ticks and scripted input",
		Example: `  timeloop simulate --duration 70s --input "2s:move 1 0" --input "2.5s:move 0 0" --input "3s:interact"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return simulate(cmd.Context(), o, so, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	f := cmd.Flags()
	f.DurationVar(&so.duration, "duration", 70*time.Second, "simulated time to run")
	f.DurationVar(&so.dt, "dt", 50*time.Millisecond, "fixed tick delta")
	f.StringArrayVar(&so.inputs, "input", nil, `scripted input "<elapsed>:move <dx> <dy>" (held until the next move) or "<elapsed>:interact"`)
	f.StringVar(&so.save, "save", "", "save database path; the final state is stored in --slot")
	f.StringVar(&so.slot, "slot", "sim", "save slot name")
	f.BoolVar(&so.restore, "restore", false, "continue from --slot before running")
	f.BoolVar(&so.quiet, "quiet", false, "print only the final cursor")
	return cmd
}

// parseScript reads --input entries and orders them by time
func parseScript(entries []string) ([]scriptStep, error) {
	steps := make([]scriptStep, 0, len(entries))
	for _, e := range entries {
		at, cmd, ok := strings.Cut(e, ":")
		if !ok {
			return nil, fmt.Errorf("input %q: expected <elapsed>:<command>", e)
		}
		d, err := time.ParseDuration(strings.TrimSpace(at))
		if err != nil || d < 0 {
			return nil, fmt.Errorf("input %q: bad elapsed time %q", e, at)
		}
		fields := strings.Fields(cmd)
		if len(fields) == 0 {
			return nil, fmt.Errorf("input %q: empty command", e)
		}
		step := scriptStep{At: d}
		switch fields[0] {
		case "interact":
			if len(fields) != 1 {
				return nil, fmt.Errorf("input %q: interact takes no arguments", e)
			}
			step.Interact = true
		case "move":
			if len(fields) != 3 {
				return nil, fmt.Errorf("input %q: move takes <dx> <dy>", e)
			}
			dx, err1 := strconv.ParseFloat(fields[1], 64)
			dy, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("input %q: move offsets must be numbers", e)
			}
			step.Move = core.Vec3{X: dx, Y: dy}
		default:
			return nil, fmt.Errorf("input %q: unknown command %q", e, fields[0])
		}
		steps = append(steps, step)
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })
	return steps, nil
}

// eventPrinter writes loop events as they are dispatched
type eventPrinter struct {
	out io.Writer
}

func (p *eventPrinter) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventMomentFired,
		event.EventBranchTaken,
		event.EventPortalJump,
		event.EventSeekStart,
		event.EventSeekEnd,
		event.EventLoopReset,
	}
}

func (p *eventPrinter) HandleEvent(w *engine.World, ev event.GameEvent) {
	var detail string
	switch pl := ev.Payload.(type) {
	case *event.MomentFiredPayload:
		detail = fmt.Sprintf("%s@%s %s", pl.Timeline, pl.At, pl.Label)
	case *event.BranchPayload:
		detail = fmt.Sprintf("%s -> %s", pl.From, pl.To)
	case *event.PortalJumpPayload:
		detail = fmt.Sprintf("%s@%s -> %s@%s", pl.FromTimeline, pl.FromTime, pl.ToTimeline, pl.ToTime)
	case *event.SeekPayload:
		detail = fmt.Sprintf("%s -> %s epoch %d", pl.From, pl.To, pl.Epoch)
	case *event.LoopResetPayload:
		detail = fmt.Sprintf("%s -> %s epoch %d", pl.From, pl.To, pl.Epoch)
	}
	fmt.Fprintf(p.out, "[%6d] %-16s %s\n", ev.Frame, strings.TrimPrefix(ev.Type.String(), "Event"), detail)
}

func simulate(ctx context.Context, o *options, so *simOptions, out, errOut io.Writer) error {
	if so.dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v", so.dt)
	}
	script, err := parseScript(so.inputs)
	if err != nil {
		return err
	}
	log, closer, err := setupLogging(o.logPath, o.logLevel, errOut)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	g, err := newGame(o, log, engine.NewMockTimeProvider(time.Unix(0, 0)))
	if err != nil {
		return err
	}
	if !so.quiet {
		g.loop.Router().Register(&eventPrinter{out: out})
	}

	var store *save.Store
	if so.save != "" {
		store, err = save.Open(so.save)
		if err != nil {
			return err
		}
		defer store.Close()
	} else if so.restore {
		return fmt.Errorf("--restore requires --save")
	}
	if so.restore {
		if err := restoreSlot(ctx, g, store, so.slot); err != nil {
			return err
		}
	}
	input := engine.MustGetResource[*engine.InputResource](g.world.Resources)

	next := 0
	for elapsed := time.Duration(0); elapsed < so.duration; elapsed += so.dt {
		if err := ctx.Err(); err != nil {
			return err
		}
		for next < len(script) && script[next].At <= elapsed {
			s := script[next]
			if s.Interact {
				input.PressInteract()
			} else {
				input.Hold(s.Move)
			}
			next++
		}
		g.loop.Step(so.dt)
	}

	fmt.Fprintf(out, "final %s mode %s epoch %d frames %d\n", g.cursor.Curr, g.cursor.Mode, g.cursor.Epoch, g.world.Frame())
	if !so.quiet {
		for _, m := range g.metrics.Snapshot("timegraph", "events") {
			fmt.Fprintf(out, "  %-28s %s\n", m.Key, m.Value)
		}
	}

	if store != nil {
		if err := saveSlot(ctx, g, store, so.slot); err != nil {
			return err
		}
	}
	return nil
}


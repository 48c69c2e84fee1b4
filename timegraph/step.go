package timegraph

import (
	"time"

	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/looptime"
	"github.com/lixenwraith/timeloop/timeline"
)

// segment identifies one dispatch of a time range on a timeline within a step
type segment struct {
	id       timeline.ID
	from, to looptime.LoopTime
}

// Step advances the cursor by dt and fires every moment in [prev, prev+dt)
// along the active timeline's branch and merge links
func (s *Scheduler) Step(w *engine.World, dt time.Duration) {
	loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
	if !ok {
		return
	}
	lib, ok := engine.GetResource[*timeline.Library](w.Resources)
	if !ok {
		return
	}
	if loop.Mode != timeline.ModeRunning {
		return
	}

	prev := loop.Curr.Time
	next := prev.AddDuration(dt)
	loop.Curr.Time = next

	// The firing plan follows the timeline active at step start
	visited := make(map[segment]struct{})
	s.Dispatch(w, lib, loop.Curr.Timeline, prev, next, visited)
}

// Dispatch fires the moments of id in [from, to), first delegating history
// before a branch point to the source and time past a merge point to the target
func (s *Scheduler) Dispatch(w *engine.World, lib *timeline.Library, id timeline.ID, from, to looptime.LoopTime, visited map[segment]struct{}) {
	if from >= to {
		return
	}
	key := segment{id: id, from: from, to: to}
	if _, seen := visited[key]; seen {
		s.cycles.Add(1)
		s.log.Warn("cycle in timeline graph, segment skipped", "timeline", id, "from", from, "to", to)
		return
	}
	visited[key] = struct{}{}

	tl, ok := lib.Get(id)
	if !ok {
		s.log.Error("unresolved timeline, segment skipped", "timeline", id, "from", from, "to", to)
		return
	}

	localFrom, localTo := from, to
	if bf := tl.BranchFrom; bf != nil && from < bf.Time {
		subTo := min(to, bf.Time)
		s.log.Debug("branch", "timeline", id, "source", bf.Timeline, "from", from, "to", subTo)
		s.Dispatch(w, lib, bf.Timeline, from, subTo, visited)
		localFrom = max(from, bf.Time)
	}
	mi := tl.MergeInto
	if mi != nil {
		localTo = min(to, mi.Time)
	}

	s.fireRange(w, tl, localFrom, localTo)

	if mi != nil && to > mi.Time {
		subFrom := max(from, mi.Time)
		s.log.Debug("merge", "timeline", id, "target", mi.Timeline, "from", subFrom, "to", to)
		s.Dispatch(w, lib, mi.Timeline, subFrom, to, visited)
	}
}

func (s *Scheduler) fireRange(w *engine.World, tl *timeline.Timeline, from, to looptime.LoopTime) {
	tl.Range(from, to, func(at looptime.LoopTime, m *timeline.Moment) bool {
		if m.Disabled {
			s.skipped.Add(1)
			s.log.Debug("skip moment", "skip", "moment", "timeline", tl.ID, "at", at, "label", m.Label)
			return true
		}
		s.fired.Add(1)
		s.log.Debug("moment", "timeline", tl.ID, "at", at, "label", m.Label)

		for i := range m.Happenings {
			h := &m.Happenings[i]
			if h.Disabled {
				s.skipped.Add(1)
				s.log.Debug("skip happenings", "skip", "happenings", "timeline", tl.ID, "at", at, "label", h.Label)
				continue
			}
			s.log.Debug("happenings", "timeline", tl.ID, "at", at, "label", h.Label, "actions", len(h.Actions))
			for _, rec := range h.Actions {
				rec.Action.Apply(w)
			}
		}
		w.PushEvent(event.EventMomentFired, &event.MomentFiredPayload{Timeline: string(tl.ID), At: at, Label: m.Label})
		return true
	})
}

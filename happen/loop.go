package happen

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/event"
	"github.com/lixenwraith/timeloop/looptime"
	"github.com/lixenwraith/timeloop/timeline"
)

// TakeBranch switches the active timeline at the current time
type TakeBranch struct {
	Timeline timeline.ID `yaml:"timeline"`
}

// Apply implements timeline.Action
func (a *TakeBranch) Apply(w *engine.World) {
	log := engine.Logger(w)
	loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
	if !ok {
		log.Error("TakeBranch without TimeLoop resource", "target", "happens")
		return
	}
	if lib, ok := engine.GetResource[*timeline.Library](w.Resources); ok {
		if _, ok := lib.Get(a.Timeline); !ok {
			log.Warn("TakeBranch to unloaded timeline", "target", "happens", "timeline", a.Timeline)
		}
	}
	from := loop.Curr.Timeline
	loop.TakeBranch(a.Timeline)
	log.Info("branch taken", "target", "happens", "from", from, "to", a.Timeline, "at", loop.Curr.Time)
	w.PushEvent(event.EventBranchTaken, &event.BranchPayload{From: string(from), To: string(a.Timeline)})
}

// ResetLoop asks the scheduler to seek the cursor back to To
type ResetLoop struct {
	To looptime.LoopTime `yaml:"to"`
}

// Apply implements timeline.Action
func (a *ResetLoop) Apply(w *engine.World) {
	log := engine.Logger(w)
	loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources)
	if !ok {
		log.Error("ResetLoop without TimeLoop resource", "target", "happens")
		return
	}
	if err := loop.RequestReset(a.To); err != nil {
		log.Warn("reset request ignored", "target", "happens", "error", err)
		return
	}
	log.Info("reset requested", "target", "happens", "from", loop.ResettingFrom, "to", a.To)
}

// SetDisabled is a disabled-flag patch: true, false or toggle
type SetDisabled int

const (
	SetFalse SetDisabled = iota
	SetTrue
	SetToggle
)

// On returns the flag after applying the patch to current
func (s SetDisabled) On(current bool) bool {
	switch s {
	case SetTrue:
		return true
	case SetToggle:
		return !current
	default:
		return false
	}
}

// UnmarshalYAML accepts true, false or toggle
func (s *SetDisabled) UnmarshalYAML(node *yaml.Node) error {
	switch node.Value {
	case "true":
		*s = SetTrue
	case "false":
		*s = SetFalse
	case "toggle":
		*s = SetToggle
	default:
		return fmt.Errorf("line %d: expected true, false or toggle, got %q", node.Line, node.Value)
	}
	return nil
}

// MarshalYAML writes the patch as a scalar
func (s SetDisabled) MarshalYAML() (any, error) {
	switch s {
	case SetTrue:
		return true, nil
	case SetToggle:
		return "toggle", nil
	default:
		return false, nil
	}
}

// MomentUpdate patches one moment and, by label, its happenings
type MomentUpdate struct {
	Moment     timeline.MomentRef     `yaml:"moment"`
	Disabled   *SetDisabled           `yaml:"disabled,omitempty"`
	Happenings map[string]SetDisabled `yaml:"happenings,omitempty"`
}

// TimelineUpdate groups the moment patches for one timeline
type TimelineUpdate struct {
	Timeline timeline.ID    `yaml:"timeline"`
	Updates  []MomentUpdate `yaml:"updates"`
}

// ModifyTimeline flips disabled flags on loaded content at runtime
// Each missing timeline, moment or happenings label is warned about and skipped
type ModifyTimeline struct {
	Timelines []TimelineUpdate `yaml:"timelines"`
}

// Apply implements timeline.Action
func (a *ModifyTimeline) Apply(w *engine.World) {
	log := engine.Logger(w).With("target", "happens")
	lib, ok := engine.GetResource[*timeline.Library](w.Resources)
	if !ok {
		log.Error("ModifyTimeline without Library resource")
		return
	}

	for _, tu := range a.Timelines {
		tl, ok := lib.Get(tu.Timeline)
		if !ok {
			log.Warn("ModifyTimeline: timeline not loaded", "timeline", tu.Timeline)
			continue
		}
		for _, mu := range tu.Updates {
			at, m, ok := tl.FindMut(mu.Moment)
			if !ok {
				log.Warn("ModifyTimeline: moment not found", "timeline", tu.Timeline, "moment", mu.Moment.String())
				continue
			}
			if mu.Disabled != nil {
				m.Disabled = mu.Disabled.On(m.Disabled)
				log.Debug("moment patched", "timeline", tu.Timeline, "at", at, "disabled", m.Disabled)
			}

			labels := make([]string, 0, len(mu.Happenings))
			for l := range mu.Happenings {
				labels = append(labels, l)
			}
			sort.Strings(labels)
			for _, l := range labels {
				h, ok := m.FindHappenings(l)
				if !ok {
					log.Warn("ModifyTimeline: happenings not found", "timeline", tu.Timeline, "at", at, "label", l)
					continue
				}
				h.Disabled = mu.Happenings[l].On(h.Disabled)
				log.Debug("happenings patched", "timeline", tu.Timeline, "at", at, "label", l, "disabled", h.Disabled)
			}
		}
	}
}

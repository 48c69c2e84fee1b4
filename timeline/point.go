package timeline

import (
	"fmt"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/timeloop/looptime"
)

// ID identifies a timeline by its asset path, slash separated
type ID string

// CleanID normalizes an asset path into an ID
func CleanID(p string) ID {
	return ID(path.Clean(p))
}

// Point is a position in the loop graph: a timeline and a time on it
type Point struct {
	Timeline ID                `yaml:"timeline"`
	Time     looptime.LoopTime `yaml:"at"`
}

// String renders "tl/intro.tl.yaml@5s"
func (p Point) String() string {
	return fmt.Sprintf("%s@%s", p.Timeline, p.Time)
}

// UnmarshalYAML requires both fields and rejects unknown ones
func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Timeline *string            `yaml:"timeline"`
		Time     *looptime.LoopTime `yaml:"at"`
	}
	if err := decodeStrict(node, &raw, "timeline", "at"); err != nil {
		return err
	}
	if raw.Timeline == nil || raw.Time == nil {
		return fmt.Errorf("line %d: %w: point needs both 'timeline' and 'at'", node.Line, ErrContent)
	}
	p.Timeline = CleanID(*raw.Timeline)
	p.Time = *raw.Time
	return nil
}

// MomentRef addresses a moment by exact time or by label
type MomentRef struct {
	at      looptime.LoopTime
	label   string
	byLabel bool
}

// At references the moment keyed at t
func At(t looptime.LoopTime) MomentRef {
	return MomentRef{at: t}
}

// Labelled references the first moment, in time order, whose label is l
func Labelled(l string) MomentRef {
	return MomentRef{label: l, byLabel: true}
}

// Label returns the label and whether the ref is label-based
func (r MomentRef) Label() (string, bool) {
	return r.label, r.byLabel
}

// Time returns the time and whether the ref is time-based
func (r MomentRef) Time() (looptime.LoopTime, bool) {
	return r.at, !r.byLabel
}

// String renders "5s" or "label:lever"
func (r MomentRef) String() string {
	if r.byLabel {
		return "label:" + r.label
	}
	return r.at.String()
}

// MarshalYAML emits {at: ...} or {label: ...}
func (r MomentRef) MarshalYAML() (any, error) {
	if r.byLabel {
		return map[string]string{"label": r.label}, nil
	}
	return map[string]looptime.LoopTime{"at": r.at}, nil
}

// UnmarshalYAML accepts exactly one of at / label
func (r *MomentRef) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		At    *looptime.LoopTime `yaml:"at"`
		Label *string            `yaml:"label"`
	}
	if err := decodeStrict(node, &raw, "at", "label"); err != nil {
		return err
	}
	switch {
	case raw.At != nil && raw.Label != nil:
		return fmt.Errorf("line %d: %w: moment ref takes 'at' or 'label', not both", node.Line, ErrContent)
	case raw.At != nil:
		*r = At(*raw.At)
	case raw.Label != nil:
		*r = Labelled(*raw.Label)
	default:
		return fmt.Errorf("line %d: %w: moment ref needs 'at' or 'label'", node.Line, ErrContent)
	}
	return nil
}

// decodeStrict decodes a mapping into out after rejecting keys outside allowed
func decodeStrict(node *yaml.Node, out any, allowed ...string) error {
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		line := 0
		if node != nil {
			line = node.Line
		}
		return fmt.Errorf("line %d: %w: expected mapping", line, ErrContent)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !contains(allowed, key.Value) {
			return fmt.Errorf("line %d: %w: unknown field %q", key.Line, ErrContent, key.Value)
		}
	}
	return node.Decode(out)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

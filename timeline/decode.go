package timeline

import (
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/timeloop/looptime"
)

var (
	ErrContent        = errors.New("invalid timeline content")
	ErrMissingMoments = errors.New("timeline has no 'moments' field")
)

// Reserved happenings keys; every other key is an action tag
const (
	KeyLabel    = "LABEL"
	KeyDisabled = "DISABLED"
)

// Decode parses one timeline document
// Duplicate moment times are logged and the later definition wins
func Decode(reg *Registry, id ID, data []byte, log *slog.Logger) (*Timeline, error) {
	if log == nil {
		log = slog.Default()
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContent, err)
	}
	root := resolve(&doc)
	if root == nil || root.Kind == 0 {
		return nil, ErrMissingMoments
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %w: top level must be a mapping", root.Line, ErrContent)
	}

	tl := New(id)
	sawMoments := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "branch_from":
			var p Point
			if err := val.Decode(&p); err != nil {
				return nil, fmt.Errorf("branch_from: %w", err)
			}
			tl.BranchFrom = &p
		case "merge_into":
			var p Point
			if err := val.Decode(&p); err != nil {
				return nil, fmt.Errorf("merge_into: %w", err)
			}
			tl.MergeInto = &p
		case "moments":
			sawMoments = true
			if err := decodeMoments(reg, tl, val, log); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("line %d: %w: unknown field %q", key.Line, ErrContent, key.Value)
		}
	}
	if !sawMoments {
		return nil, ErrMissingMoments
	}
	return tl, nil
}

func decodeMoments(reg *Registry, tl *Timeline, node *yaml.Node, log *slog.Logger) error {
	node = resolve(node)
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %w: 'moments' must be a mapping of time to moment", node.Line, ErrContent)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		t, err := looptime.Parse(key.Value)
		if err != nil {
			return fmt.Errorf("moment key line %d: %w", key.Line, err)
		}
		m, err := decodeMoment(reg, val)
		if err != nil {
			if m.Label != "" {
				return fmt.Errorf("moment %s (%q): %w", t, m.Label, err)
			}
			return fmt.Errorf("moment %s: %w", t, err)
		}
		if tl.Insert(t, m) {
			log.Warn("duplicate moment time, later definition wins",
				"target", "time_graph", "timeline", tl.ID, "time", t, "spelling", key.Value, "line", key.Line)
		}
	}
	return nil
}

// decodeMoment returns the partially decoded moment alongside errors so callers can name it
func decodeMoment(reg *Registry, node *yaml.Node) (Moment, error) {
	var m Moment
	node = resolve(node)
	if isNull(node) {
		return m, nil
	}
	if node.Kind != yaml.MappingNode {
		return m, fmt.Errorf("line %d: %w: moment must be a mapping", node.Line, ErrContent)
	}

	// Label first so errors in other fields can be attributed
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "label" {
			if err := node.Content[i+1].Decode(&m.Label); err != nil {
				return m, fmt.Errorf("label: %w", err)
			}
		}
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var err error
		switch key.Value {
		case "label":
		case "desc":
			err = val.Decode(&m.Desc)
		case "disabled":
			err = val.Decode(&m.Disabled)
		case "happenings":
			m.Happenings, err = decodeHappeningsList(reg, val)
		default:
			err = fmt.Errorf("line %d: %w: unknown moment field %q", key.Line, ErrContent, key.Value)
		}
		if err != nil {
			return m, err
		}
	}
	return m, nil
}

func decodeHappeningsList(reg *Registry, node *yaml.Node) ([]Happenings, error) {
	node = resolve(node)
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %w: 'happenings' must be a list", node.Line, ErrContent)
	}

	out := make([]Happenings, 0, len(node.Content))
	for i, item := range node.Content {
		h, err := decodeHappenings(reg, item)
		if err != nil {
			if h.Label != "" {
				return nil, fmt.Errorf("happenings #%d (%q): %w", i, h.Label, err)
			}
			return nil, fmt.Errorf("happenings #%d: %w", i, err)
		}
		out = append(out, h)
	}
	return out, nil
}

func decodeHappenings(reg *Registry, node *yaml.Node) (Happenings, error) {
	var h Happenings
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return h, fmt.Errorf("%w: happenings entry must be a mapping", ErrContent)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case KeyLabel:
			if err := val.Decode(&h.Label); err != nil {
				return h, fmt.Errorf("%s: %w", KeyLabel, err)
			}
		case KeyDisabled:
			if err := val.Decode(&h.Disabled); err != nil {
				return h, fmt.Errorf("%s: %w", KeyDisabled, err)
			}
		}
	}

	recs, err := reg.DecodeRecords(node, KeyLabel, KeyDisabled)
	if err != nil {
		return h, err
	}
	h.Actions = recs
	return h, nil
}

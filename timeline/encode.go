package timeline

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/timeloop/looptime"
)

// Encode writes tl in the content format, including runtime disabled flags
func Encode(tl *Timeline) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	if tl.BranchFrom != nil {
		if err := appendValue(root, "branch_from", tl.BranchFrom); err != nil {
			return nil, err
		}
	}
	if tl.MergeInto != nil {
		if err := appendValue(root, "merge_into", tl.MergeInto); err != nil {
			return nil, err
		}
	}

	moments := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	var encErr error
	tl.Each(func(t looptime.LoopTime, m *Moment) {
		if encErr != nil {
			return
		}
		node, err := encodeMoment(m)
		if err != nil {
			encErr = fmt.Errorf("moment %s: %w", t, err)
			return
		}
		moments.Content = append(moments.Content, scalar(t.String()), node)
	})
	if encErr != nil {
		return nil, encErr
	}
	root.Content = append(root.Content, scalar("moments"), moments)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeMoment(m *Moment) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if m.Label != "" {
		node.Content = append(node.Content, scalar("label"), scalar(m.Label))
	}
	if m.Desc != "" {
		node.Content = append(node.Content, scalar("desc"), scalar(m.Desc))
	}
	if m.Disabled {
		node.Content = append(node.Content, scalar("disabled"), boolean(true))
	}
	if len(m.Happenings) == 0 {
		return node, nil
	}

	list := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for i, h := range m.Happenings {
		item := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if h.Label != "" {
			item.Content = append(item.Content, scalar(KeyLabel), scalar(h.Label))
		}
		if h.Disabled {
			item.Content = append(item.Content, scalar(KeyDisabled), boolean(true))
		}
		for _, rec := range h.Actions {
			if err := appendRecord(item, rec); err != nil {
				return nil, fmt.Errorf("happenings #%d: %w", i, err)
			}
		}
		list.Content = append(list.Content, item)
	}
	node.Content = append(node.Content, scalar("happenings"), list)
	return node, nil
}

func appendValue(mapping *yaml.Node, key string, v any) error {
	var val yaml.Node
	if err := val.Encode(v); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	mapping.Content = append(mapping.Content, scalar(key), &val)
	return nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func boolean(b bool) *yaml.Node {
	v := "false"
	if b {
		v = "true"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v}
}

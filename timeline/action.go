// Package timeline holds loop content: timelines of moments, the action
// registry that decodes their happenings, the loader for .tl.yaml assets and
// the TimeLoop cursor resource.
package timeline

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/timeloop/engine"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrActionDecode  = errors.New("action decode failed")
	ErrNotAction     = errors.New("registered type is not an action")
)

// Action is a unit of effect applied to the world when its happenings fire
type Action interface {
	Apply(w *engine.World)
}

// ActionDecoder is implemented by actions whose arguments embed nested records
type ActionDecoder interface {
	DecodeAction(reg *Registry, node *yaml.Node) error
}

// Factory returns a pointer to a fresh zero value of a registered action type
type Factory func() any

// Registry maps stable action tags to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds tag to factory; registering a tag twice panics
func (r *Registry) Register(tag string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.factories[tag]; dup {
		panic(fmt.Sprintf("timeline: action tag %q registered twice", tag))
	}
	r.factories[tag] = factory
}

// RegisterType registers A under tag with a new(A) factory
func RegisterType[A any](r *Registry, tag string) {
	r.Register(tag, func() any { return new(A) })
}

// Lookup reports whether tag is registered
func (r *Registry) Lookup(tag string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[tag]
	return f, ok
}

// Tags returns every registered tag, sorted
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.factories))
	for t := range r.factories {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Decode builds the action registered under tag from its YAML arguments
func (r *Registry) Decode(tag string, node *yaml.Node) (Action, error) {
	factory, ok := r.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("action %q: %w", tag, ErrUnknownAction)
	}
	v := factory()

	var err error
	if dec, ok := v.(ActionDecoder); ok {
		err = dec.DecodeAction(r, node)
	} else if node != nil && !isNull(node) {
		err = node.Decode(v)
	}
	if err != nil {
		return nil, fmt.Errorf("action %q: %w: %w", tag, ErrActionDecode, err)
	}

	a, ok := v.(Action)
	if !ok {
		return nil, fmt.Errorf("action %q (%T): %w", tag, v, ErrNotAction)
	}
	return a, nil
}

// Record is a stored action together with the tag it serializes under
type Record struct {
	Tag    string
	Action Action
}

// Records is an ordered action list, encoded as a YAML mapping tag -> args
type Records []Record

// MarshalYAML keeps declaration order
func (rs Records) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, rec := range rs {
		if err := appendRecord(node, rec); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func appendRecord(mapping *yaml.Node, rec Record) error {
	var args yaml.Node
	if err := args.Encode(rec.Action); err != nil {
		return fmt.Errorf("action %q: encode: %w", rec.Tag, err)
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rec.Tag},
		&args,
	)
	return nil
}

// DecodeRecords reads a tag -> args mapping, skipping the keys in reserved
func (r *Registry) DecodeRecords(node *yaml.Node, reserved ...string) (Records, error) {
	node = resolve(node)
	if node == nil || node.Kind == 0 || isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %w: expected mapping of action tag to arguments", node.Line, ErrContent)
	}

	recs := make(Records, 0, len(node.Content)/2)
next:
	for i := 0; i+1 < len(node.Content); i += 2 {
		tag := node.Content[i].Value
		for _, skip := range reserved {
			if tag == skip {
				continue next
			}
		}
		a, err := r.Decode(tag, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		recs = append(recs, Record{Tag: tag, Action: a})
	}
	return recs, nil
}

// CloneRecords deep-copies records by encoding and re-decoding through reg
// The copy shares no memory with the source
func CloneRecords(reg *Registry, src Records) (Records, error) {
	if len(src) == 0 {
		return nil, nil
	}
	var node yaml.Node
	if err := node.Encode(src); err != nil {
		return nil, err
	}
	return reg.DecodeRecords(&node)
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && (node.Kind == yaml.DocumentNode || node.Kind == yaml.AliasNode) {
		if node.Kind == yaml.AliasNode {
			node = node.Alias
			continue
		}
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node == nil || node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

package fsm

import "fmt"

// AddState adds a node programmatically
func (m *Machine[T]) AddState(id StateID, name string, parentID StateID) *Node[T] {
	node := &Node[T]{
		ID:       id,
		Name:     name,
		ParentID: parentID,
	}
	m.nodes[id] = node
	return node
}

// CompilePaths computes Root..node paths; call after all nodes are added
func (m *Machine[T]) CompilePaths() error {
	for id, node := range m.nodes {
		path := make([]StateID, 0, 4)
		curr := node
		for depth := 0; ; depth++ {
			if depth > len(m.nodes) {
				return fmt.Errorf("state %q: parent cycle", node.Name)
			}
			path = append(path, curr.ID)
			if curr.ParentID == StateNone {
				break
			}
			next, ok := m.nodes[curr.ParentID]
			if !ok {
				return fmt.Errorf("node %d references missing parent %d", id, curr.ParentID)
			}
			curr = next
		}

		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		node.Path = path
	}
	return nil
}

/*
 * Copyright (C) 2024 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTree is returned when a second root is added to a tree.
	ErrInvalidTree = errors.New("invalid tree: root already exists")
	// ErrNodeNotEmpty is returned when an interior node is removed without detaching its subtree.
	ErrNodeNotEmpty = errors.New("node is not empty")
	// ErrNodeNotFound is returned for unknown ids and for nodes missing from their parent's child list.
	ErrNodeNotFound = errors.New("node not found")
)

// NodeID addresses a node inside the arena of its tree. Ids are stable for the lifetime of the tree.
type NodeID int

// NoNode is used as the parent of the root.
const NoNode NodeID = -1

// Sample is a timestamped numeric observation attached to a node, such as traffic volume.
type Sample struct {
	Tme   float64
	Value float64
}

// Attributes are the process fields carried by a node.
type Attributes struct {
	Name    string
	Pid     int
	Ppid    int
	Tme     float64
	ExitTme float64
	Params  map[string]float64
	Traffic []Sample
}

// Node is one process of the tree. Parents are referenced by id only.
type Node struct {
	Attributes
	id       NodeID
	parent   NodeID
	children []NodeID
	removed  bool
}

func (n *Node) ID() NodeID {
	return n.id
}

func (n *Node) ParentID() NodeID {
	return n.parent
}

func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(pid=%d, ppid=%d, tme=%v)", n.Name, n.Pid, n.Ppid, n.Tme)
}

// Tree is an ordered rooted tree stored as an arena of nodes.
// Children keep insertion order; a new child is always appended.
type Tree struct {
	nodes []*Node
	root  NodeID
	size  int
}

func New() *Tree {
	return &Tree{root: NoNode}
}

// AddNode appends a new node below parent. Use NoNode as parent to create the root.
func (t *Tree) AddNode(parent NodeID, attrs Attributes) (NodeID, error) {
	if parent == NoNode {
		if t.root != NoNode {
			return NoNode, ErrInvalidTree
		}
	} else if t.Node(parent) == nil {
		return NoNode, fmt.Errorf("parent %d: %w", parent, ErrNodeNotFound)
	}
	id := NodeID(len(t.nodes))
	n := &Node{Attributes: attrs, id: id, parent: parent}
	t.nodes = append(t.nodes, n)
	if parent == NoNode {
		t.root = id
	} else {
		p := t.nodes[parent]
		p.children = append(p.children, id)
	}
	t.size++
	return id, nil
}

// Root returns the root id, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	return t.root
}

// Node returns the live node for id, or nil.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	n := t.nodes[id]
	if n.removed {
		return nil
	}
	return n
}

// Len is the number of live nodes.
func (t *Tree) Len() int {
	return t.size
}

// Children returns the ordered children of id. The returned slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	return n.children
}

// Parent returns the parent of id, NoNode for the root or unknown nodes.
func (t *Tree) Parent(id NodeID) NodeID {
	n := t.Node(id)
	if n == nil {
		return NoNode
	}
	return n.parent
}

// Position returns the index of id among its siblings. The root is at position 0.
func (t *Tree) Position(id NodeID) (int, error) {
	n := t.Node(id)
	if n == nil {
		return -1, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	if n.parent == NoNode {
		return 0, nil
	}
	for i, c := range t.nodes[n.parent].children {
		if c == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("node %d missing from children of %d: %w", id, n.parent, ErrNodeNotFound)
}

// Depth returns the number of edges between id and the root.
func (t *Tree) Depth(id NodeID) int {
	depth := 0
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		depth++
	}
	return depth
}

// SubtreeNodeCount counts id and all its descendants.
func (t *Tree) SubtreeNodeCount(id NodeID) int {
	n := t.Node(id)
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.children {
		count += t.SubtreeNodeCount(c)
	}
	return count
}

// RemoveLeaf removes a node without children. Later siblings move one position to the left.
func (t *Tree) RemoveLeaf(id NodeID) error {
	n := t.Node(id)
	if n == nil {
		return fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	if !n.IsLeaf() {
		return fmt.Errorf("node %d has %d children: %w", id, len(n.children), ErrNodeNotEmpty)
	}
	t.detach(n)
	n.removed = true
	t.size--
	return nil
}

// RemoveSubtree detaches id and removes it together with all its descendants.
func (t *Tree) RemoveSubtree(id NodeID) error {
	n := t.Node(id)
	if n == nil {
		return fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	t.detach(n)
	t.tombstone(n)
	return nil
}

func (t *Tree) detach(n *Node) {
	if n.parent == NoNode {
		t.root = NoNode
		return
	}
	p := t.nodes[n.parent]
	for i, c := range p.children {
		if c == n.id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

func (t *Tree) tombstone(n *Node) {
	for _, c := range n.children {
		t.tombstone(t.nodes[c])
	}
	n.children = nil
	n.removed = true
	t.size--
}

// PreOrder walks the tree depth-first, parents before children, siblings by position.
// The walk stops when fn returns false.
func (t *Tree) PreOrder(fn func(n *Node) bool) {
	if t.root == NoNode {
		return
	}
	stack := []NodeID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[id]
		if !fn(n) {
			return
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

// InsertionOrder walks live nodes in the order they were added.
func (t *Tree) InsertionOrder(fn func(n *Node) bool) {
	for _, n := range t.nodes {
		if n.removed {
			continue
		}
		if !fn(n) {
			return
		}
	}
}

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

package event

import (
	"fmt"
	"io"

	"github.com/netobserv/treedistance/pkg/tree"
)

// Builder grows a tree from a stream of events.
// Parents are resolved through the most recent live process with the given pid.
type Builder struct {
	tree *tree.Tree
	live map[int]tree.NodeID
}

func NewBuilder() *Builder {
	return &Builder{tree: tree.New(), live: map[int]tree.NodeID{}}
}

func (b *Builder) Tree() *tree.Tree {
	return b.tree
}

// Start adds the process of a start event. The first start becomes the root;
// a start whose parent is unknown once a root exists fails with tree.ErrInvalidTree.
func (b *Builder) Start(e Event) (tree.NodeID, error) {
	parent := tree.NoNode
	if b.tree.Root() != tree.NoNode {
		if id, ok := b.live[e.Ppid]; ok {
			parent = id
		}
	}
	var params map[string]float64
	if len(e.Params) > 0 {
		params = make(map[string]float64, len(e.Params))
		for k, v := range e.Params {
			params[k] = v
		}
	}
	id, err := b.tree.AddNode(parent, tree.Attributes{
		Name:    e.Name,
		Pid:     e.Pid,
		Ppid:    e.Ppid,
		Tme:     e.Tme,
		ExitTme: e.Tme,
		Params:  params,
	})
	if err != nil {
		return tree.NoNode, fmt.Errorf("start of pid %d at %v: %w", e.Pid, e.Tme, err)
	}
	b.live[e.Pid] = id
	return id, nil
}

// Exit records the exit time of the process identified by (start time, pid).
func (b *Builder) Exit(e Event) (tree.NodeID, error) {
	id, err := b.Lookup(e)
	if err != nil {
		return tree.NoNode, err
	}
	b.tree.Node(id).ExitTme = e.Tme
	return id, nil
}

// Traffic appends a sample to the process of a traffic event.
func (b *Builder) Traffic(e Event) (tree.NodeID, error) {
	id, err := b.Lookup(e)
	if err != nil {
		return tree.NoNode, err
	}
	n := b.tree.Node(id)
	n.Traffic = append(n.Traffic, tree.Sample{Tme: e.Tme, Value: e.Value})
	return id, nil
}

// Parameter sets a named parameter on the process of a parameter event.
func (b *Builder) Parameter(e Event) (tree.NodeID, error) {
	id, err := b.Lookup(e)
	if err != nil {
		return tree.NoNode, err
	}
	n := b.tree.Node(id)
	if n.Params == nil {
		n.Params = map[string]float64{}
	}
	n.Params[e.Name] = e.Value
	return id, nil
}

// Lookup finds the node an event refers to. Exit events are matched on (start time, pid)
// first, any other event on the live process with that pid.
func (b *Builder) Lookup(e Event) (tree.NodeID, error) {
	id, ok := b.live[e.Pid]
	if e.Type == Exit {
		if ok && b.tree.Node(id).Tme == e.StartTme {
			return id, nil
		}
		found := tree.NoNode
		b.tree.InsertionOrder(func(n *tree.Node) bool {
			if n.Pid == e.Pid && n.Tme == e.StartTme {
				found = n.ID()
				return false
			}
			return true
		})
		if found != tree.NoNode {
			return found, nil
		}
	}
	if !ok {
		return tree.NoNode, fmt.Errorf("%s event for pid %d: %w", e.Type, e.Pid, tree.ErrNodeNotFound)
	}
	return id, nil
}

// Apply dispatches an event to the matching builder operation.
func (b *Builder) Apply(e Event) (tree.NodeID, error) {
	switch e.Type {
	case Start:
		return b.Start(e)
	case Exit:
		return b.Exit(e)
	case Traffic:
		return b.Traffic(e)
	case Parameter:
		return b.Parameter(e)
	}
	return tree.NoNode, fmt.Errorf("unknown event type %d", e.Type)
}

// BuildTree materializes the tree described by a complete event stream.
func BuildTree(it Iterator) (*tree.Tree, error) {
	b := NewBuilder()
	for {
		e, err := it.Next()
		if err == io.EOF {
			return b.Tree(), nil
		}
		if err != nil {
			return nil, err
		}
		if _, err := b.Apply(e); err != nil {
			return nil, err
		}
	}
}

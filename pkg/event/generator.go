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
	"io"
	"sort"

	"github.com/netobserv/treedistance/pkg/tree"
)

// Options selects the optional event types emitted by a tree iterator.
type Options struct {
	Exit      bool
	Traffic   bool
	Parameter bool
}

// DefaultOptions emits starts and exits.
var DefaultOptions = Options{Exit: true}

type treeIterator struct {
	tree    *tree.Tree
	opts    Options
	nodes   []*tree.Node
	cursor  int
	queue   Queue
	follows []Event
}

// NewTreeIterator replays a complete tree as an event stream.
// Starts follow insertion order; exits and traffic samples are interleaved by time.
func NewTreeIterator(t *tree.Tree, opts Options) Iterator {
	it := &treeIterator{tree: t, opts: opts}
	t.InsertionOrder(func(n *tree.Node) bool {
		it.nodes = append(it.nodes, n)
		return true
	})
	return it
}

func (it *treeIterator) Next() (Event, error) {
	if len(it.follows) > 0 {
		e := it.follows[0]
		it.follows = it.follows[1:]
		return e, nil
	}
	if it.cursor < len(it.nodes) {
		n := it.nodes[it.cursor]
		if it.queue.Before(n.Tme) {
			return it.queue.Pop(), nil
		}
		it.cursor++
		it.schedule(n)
		return NewStart(n.Tme, n.Pid, n.Ppid, n.Name, n.Params), nil
	}
	if it.queue.Len() > 0 {
		return it.queue.Pop(), nil
	}
	return Event{}, io.EOF
}

func (it *treeIterator) schedule(n *tree.Node) {
	if it.opts.Parameter && len(n.Params) > 0 {
		names := make([]string, 0, len(n.Params))
		for name := range n.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			p := NewParameter(n.Tme, n.Pid, name, n.Params[name])
			p.Ppid = n.Ppid
			it.follows = append(it.follows, p)
		}
	}
	if it.opts.Traffic {
		for _, s := range n.Traffic {
			it.queue.PushTraffic(NewTraffic(s.Tme, n.Pid, n.Ppid, s.Value))
		}
	}
	if it.opts.Exit {
		exit := NewExit(n.ExitTme, n.Pid, n.Ppid, n.Tme, n.Name)
		it.queue.PushExit(exit, it.tree.Depth(n.ID()))
	}
}

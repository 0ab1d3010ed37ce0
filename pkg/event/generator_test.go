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
	"testing"

	"github.com/netobserv/treedistance/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// root(0-3) -> a(1-2) -> c(2-2); root -> b(2-3)
func buildTree(t *testing.T) *tree.Tree {
	tr := tree.New()
	root, err := tr.AddNode(tree.NoNode, tree.Attributes{Name: "root", Pid: 1, Tme: 0, ExitTme: 3})
	require.NoError(t, err)
	a, err := tr.AddNode(root, tree.Attributes{Name: "a", Pid: 2, Ppid: 1, Tme: 1, ExitTme: 2,
		Params: map[string]float64{"rss": 12, "cpu": 0.5}})
	require.NoError(t, err)
	_, err = tr.AddNode(a, tree.Attributes{Name: "c", Pid: 3, Ppid: 2, Tme: 2, ExitTme: 2})
	require.NoError(t, err)
	_, err = tr.AddNode(root, tree.Attributes{Name: "b", Pid: 4, Ppid: 1, Tme: 2, ExitTme: 3,
		Traffic: []tree.Sample{{Tme: 2.5, Value: 100}, {Tme: 3, Value: 20}}})
	require.NoError(t, err)
	return tr
}

func summary(events []Event) []string {
	var out []string
	for _, e := range events {
		name := e.Name
		if e.Type != Start && e.Type != Parameter {
			name = map[int]string{1: "root", 2: "a", 3: "c", 4: "b"}[e.Pid]
		}
		out = append(out, e.Type.String()+":"+name)
	}
	return out
}

func TestTreeIterator_Order(t *testing.T) {
	events, err := Collect(NewTreeIterator(buildTree(t), DefaultOptions))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"start:root", "start:a", "start:c", "start:b",
		"exit:c", "exit:a", "exit:b", "exit:root",
	}, summary(events))
	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i-1].Tme, events[i].Tme)
	}
	exitA := events[5]
	assert.Equal(t, 1.0, exitA.StartTme)
	assert.Equal(t, 1.0, exitA.Value)
	assert.False(t, IsKnown(events[0].Value))
}

func TestTreeIterator_StartsOnly(t *testing.T) {
	events, err := Collect(NewTreeIterator(buildTree(t), Options{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"start:root", "start:a", "start:c", "start:b"}, summary(events))
}

func TestTreeIterator_TrafficAndParameters(t *testing.T) {
	events, err := Collect(NewTreeIterator(buildTree(t), Options{Exit: true, Traffic: true, Parameter: true}))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"start:root", "start:a", "parameter:cpu", "parameter:rss", "start:c", "start:b",
		"exit:c", "exit:a", "traffic:b", "traffic:b", "exit:b", "exit:root",
	}, summary(events))
	assert.Equal(t, 100.0, events[8].Value)
	assert.Equal(t, 0.5, events[2].Value)
}

func TestTreeIterator_EOF(t *testing.T) {
	it := NewTreeIterator(tree.New(), DefaultOptions)
	_, err := it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestBuildTree(t *testing.T) {
	orig := buildTree(t)
	rebuilt, err := BuildTree(NewTreeIterator(orig, Options{Exit: true, Traffic: true, Parameter: true}))
	require.NoError(t, err)
	require.Equal(t, orig.Len(), rebuilt.Len())

	var want, got []tree.Attributes
	orig.PreOrder(func(n *tree.Node) bool { want = append(want, n.Attributes); return true })
	rebuilt.PreOrder(func(n *tree.Node) bool { got = append(got, n.Attributes); return true })
	assert.Equal(t, want, got)
}

func TestBuilder_Errors(t *testing.T) {
	b := NewBuilder()
	_, err := b.Exit(NewExit(1, 7, 0, 0, "x"))
	assert.ErrorIs(t, err, tree.ErrNodeNotFound)

	_, err = b.Start(NewStart(0, 1, 0, "root", nil))
	require.NoError(t, err)
	_, err = b.Start(NewStart(1, 2, 99, "orphan", nil))
	assert.ErrorIs(t, err, tree.ErrInvalidTree)
}

func TestQueue(t *testing.T) {
	var q Queue
	q.PushExit(NewExit(2, 1, 0, 0, "shallow"), 1)
	q.PushExit(NewExit(2, 2, 1, 0, "deep"), 3)
	q.PushTraffic(NewTraffic(2, 3, 1, 5))
	q.PushExit(NewExit(1, 4, 1, 0, "early"), 1)
	assert.True(t, q.Before(1.5))
	assert.False(t, q.Before(1))
	var order []string
	for q.Len() > 0 {
		e := q.Pop()
		order = append(order, e.Type.String()+":"+e.Name)
	}
	assert.Equal(t, []string{"exit:early", "traffic:", "exit:deep", "exit:shallow"}, order)
}

func TestParseType(t *testing.T) {
	for _, ty := range Types {
		parsed, err := ParseType(ty.String())
		require.NoError(t, err)
		assert.Equal(t, ty, parsed)
	}
	_, err := ParseType("fork")
	assert.Error(t, err)
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) (*Tree, []NodeID) {
	tr := New()
	root, err := tr.AddNode(NoNode, Attributes{Name: "root", Pid: 1})
	require.NoError(t, err)
	a, err := tr.AddNode(root, Attributes{Name: "a", Pid: 2, Ppid: 1})
	require.NoError(t, err)
	b, err := tr.AddNode(root, Attributes{Name: "b", Pid: 3, Ppid: 1})
	require.NoError(t, err)
	c, err := tr.AddNode(a, Attributes{Name: "c", Pid: 4, Ppid: 2})
	require.NoError(t, err)
	d, err := tr.AddNode(root, Attributes{Name: "d", Pid: 5, Ppid: 1})
	require.NoError(t, err)
	return tr, []NodeID{root, a, b, c, d}
}

func TestAddNode(t *testing.T) {
	tr, ids := buildTree(t)
	root, a, b, c, d := ids[0], ids[1], ids[2], ids[3], ids[4]

	require.Equal(t, 5, tr.Len())
	require.Equal(t, root, tr.Root())
	require.Equal(t, []NodeID{a, b, d}, tr.Children(root))
	require.Equal(t, root, tr.Parent(a))
	require.Equal(t, NoNode, tr.Parent(root))
	require.Equal(t, 2, tr.Depth(c))
	require.Equal(t, 0, tr.Depth(root))
	require.Equal(t, 5, tr.SubtreeNodeCount(root))
	require.Equal(t, 2, tr.SubtreeNodeCount(a))

	pos, err := tr.Position(d)
	require.NoError(t, err)
	require.Equal(t, 2, pos)
	pos, err = tr.Position(b)
	require.NoError(t, err)
	require.Equal(t, 1, pos)

	_, err = tr.AddNode(NoNode, Attributes{Name: "other"})
	require.ErrorIs(t, err, ErrInvalidTree)
	_, err = tr.AddNode(NodeID(42), Attributes{Name: "orphan"})
	require.ErrorIs(t, err, ErrNodeNotFound)
}

func TestRemove(t *testing.T) {
	tr, ids := buildTree(t)
	root, a, b, d := ids[0], ids[1], ids[2], ids[4]

	err := tr.RemoveLeaf(a)
	require.ErrorIs(t, err, ErrNodeNotEmpty)

	require.NoError(t, tr.RemoveLeaf(b))
	require.Nil(t, tr.Node(b))
	require.Equal(t, 4, tr.Len())
	pos, err := tr.Position(d)
	require.NoError(t, err)
	require.Equal(t, 1, pos, "later siblings move left")

	require.NoError(t, tr.RemoveSubtree(a))
	require.Equal(t, 2, tr.Len())
	require.Equal(t, []NodeID{d}, tr.Children(root))

	_, err = tr.Position(a)
	require.ErrorIs(t, err, ErrNodeNotFound)
}

func TestTraversals(t *testing.T) {
	tr, _ := buildTree(t)

	var pre []string
	tr.PreOrder(func(n *Node) bool {
		pre = append(pre, n.Name)
		return true
	})
	assert.Equal(t, []string{"root", "a", "c", "b", "d"}, pre)

	var insertion []string
	tr.InsertionOrder(func(n *Node) bool {
		insertion = append(insertion, n.Name)
		return true
	})
	assert.Equal(t, []string{"root", "a", "b", "c", "d"}, insertion)

	var first []string
	tr.PreOrder(func(n *Node) bool {
		first = append(first, n.Name)
		return len(first) < 2
	})
	assert.Equal(t, []string{"root", "a"}, first)
}

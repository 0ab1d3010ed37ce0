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

package signature

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/netobserv/treedistance/pkg/tree"
)

type name struct{}

// NewName builds the signature whose token is the process name.
func NewName() Signature {
	return single{name{}}
}

func (name) String() string {
	return "Signature"
}

func (name) token(ctx *Context, id tree.NodeID) (string, error) {
	return ctx.tree.Node(id).Name, nil
}

// chained computes the token of a node from a local label and the token of its parent.
// Roots use the label alone.
func chained(ctx *Context, s tokenizer, id tree.NodeID, label string) (string, error) {
	parent := ctx.tree.Parent(id)
	if parent == tree.NoNode {
		return label, nil
	}
	parentToken, err := ctx.token(s, parent)
	if err != nil {
		return "", err
	}
	return ctx.hash(parentToken, label), nil
}

type parentChildByName struct{}

// NewParentChildByName builds the signature chaining the names of all ancestors.
func NewParentChildByName() Signature {
	return single{parentChildByName{}}
}

func (parentChildByName) String() string {
	return "ParentChildByNameTopologySignature"
}

func (s parentChildByName) token(ctx *Context, id tree.NodeID) (string, error) {
	return chained(ctx, s, id, ctx.tree.Node(id).Name)
}

type parentChildOrder struct{}

// NewParentChildOrder builds the signature chaining depth and sibling positions, ignoring names.
func NewParentChildOrder() Signature {
	return single{parentChildOrder{}}
}

func (parentChildOrder) String() string {
	return "ParentChildOrderTopologySignature"
}

func (s parentChildOrder) token(ctx *Context, id tree.NodeID) (string, error) {
	pos, err := ctx.tree.Position(id)
	if err != nil {
		return "", err
	}
	label := strconv.Itoa(ctx.tree.Depth(id)) + "." + strconv.Itoa(pos)
	return chained(ctx, s, id, label)
}

type parentChildOrderByName struct{}

// NewParentChildOrderByName builds the signature chaining names ranked among same-named siblings.
func NewParentChildOrderByName() Signature {
	return single{parentChildOrderByName{}}
}

func (parentChildOrderByName) String() string {
	return "ParentChildOrderByNameTopologySignature"
}

func (s parentChildOrderByName) token(ctx *Context, id tree.NodeID) (string, error) {
	pos, err := ctx.tree.Position(id)
	if err != nil {
		return "", err
	}
	n := ctx.tree.Node(id)
	rank := 0
	siblings := ctx.tree.Children(n.ParentID())
	for i := 0; i < pos && i < len(siblings); i++ {
		if ctx.tree.Node(siblings[i]).Name == n.Name {
			rank++
		}
	}
	return chained(ctx, s, id, n.Name+"."+strconv.Itoa(rank))
}

type parentCountedChildrenByName struct {
	count int
}

// NewParentCountedChildrenByName builds the signature combining the name of a node with the names
// of its count left siblings and the token of its parent.
func NewParentCountedChildrenByName(count int) Signature {
	return single{parentCountedChildrenByName{count: count}}
}

func (s parentCountedChildrenByName) String() string {
	return fmt.Sprintf("ParentCountedChildrenByNameTopologySignature(count=%d)", s.count)
}

func (s parentCountedChildrenByName) token(ctx *Context, id tree.NodeID) (string, error) {
	if ctx.tree.Parent(id) == tree.NoNode {
		return ctx.tree.Node(id).Name, nil
	}
	left, err := ctx.leftSiblings(id, s.count)
	if err != nil {
		return "", err
	}
	return chained(ctx, s, id, strings.Join(append(left, ctx.tree.Node(id).Name), "_"))
}

type pqOrder struct {
	width int
}

// NewPQOrder builds the signature of a node and its width left siblings regardless of their order.
func NewPQOrder(width int) Signature {
	return single{pqOrder{width: width}}
}

func (s pqOrder) String() string {
	return fmt.Sprintf("PQOrderSignature(q=%d)", s.width)
}

func (s pqOrder) token(ctx *Context, id tree.NodeID) (string, error) {
	if ctx.tree.Parent(id) == tree.NoNode {
		return ctx.tree.Node(id).Name, nil
	}
	window, err := ctx.leftSiblings(id, s.width)
	if err != nil {
		return "", err
	}
	window = append(window, ctx.tree.Node(id).Name)
	sort.Strings(window)
	return chained(ctx, s, id, strings.Join(window, "_"))
}

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
	"strings"

	"github.com/netobserv/treedistance/pkg/tree"
)

type pqGram struct {
	height int
	width  int
}

// NewPQGram builds the pq-gram signature: height ancestor names, the node name and width left sibling names.
// Once all children of a node are known, FinishTokens emits the windows closing its child list.
func NewPQGram(height, width int) Signature {
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}
	return single{pqGram{height: height, width: width}}
}

func (s pqGram) String() string {
	return fmt.Sprintf("PQGramSignature(p=%d, q=%d)", s.height, s.width)
}

// stem returns the names of the height ancestors of id, root side first, padded on the left with "".
func (s pqGram) stem(ctx *Context, id tree.NodeID) []string {
	names := make([]string, s.height)
	p := ctx.tree.Parent(id)
	for i := s.height - 1; i >= 0 && p != tree.NoNode; i-- {
		names[i] = ctx.tree.Node(p).Name
		p = ctx.tree.Parent(p)
	}
	return names
}

func (s pqGram) gram(ctx *Context, stem []string, name string, window []string) string {
	return ctx.hash(strings.Join(stem, "_"), name, strings.Join(window, "_"))
}

func (s pqGram) token(ctx *Context, id tree.NodeID) (string, error) {
	window, err := ctx.leftSiblings(id, s.width)
	if err != nil {
		return "", err
	}
	return s.gram(ctx, s.stem(ctx, id), ctx.tree.Node(id).Name, window), nil
}

// finish emits one token per pad appended after the last child of parent. A leaf has no
// child list to close and emits a single all-pad token.
func (s pqGram) finish(ctx *Context, parent tree.NodeID) ([]string, error) {
	n := ctx.tree.Node(parent)
	if n == nil {
		return nil, fmt.Errorf("node %d: %w", parent, tree.ErrNodeNotFound)
	}
	children := ctx.tree.Children(parent)
	stem := append(s.stem(ctx, parent)[1:], n.Name)
	sequence := make([]string, s.width, s.width+len(children)+s.width)
	if len(children) == 0 {
		return []string{s.gram(ctx, stem, "", sequence)}, nil
	}
	for _, c := range children {
		sequence = append(sequence, ctx.tree.Node(c).Name)
	}
	tokens := make([]string, 0, s.width)
	for i := 0; i < s.width; i++ {
		end := len(sequence)
		tokens = append(tokens, s.gram(ctx, stem, "", sequence[end-s.width:end]))
		sequence = append(sequence, "")
	}
	return tokens, nil
}

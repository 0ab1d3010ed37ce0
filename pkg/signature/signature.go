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
	"encoding/hex"
	"fmt"
	"hash"
	"hash/fnv"

	"github.com/netobserv/treedistance/pkg/tree"
)

// Signature maps a node and its local context to one token per position.
// Signatures are immutable and can be shared between streams; per-stream state lives in a Context.
type Signature interface {
	String() string
	// Len is the number of tokens produced for each node.
	Len() int
	Tokens(ctx *Context, id tree.NodeID) ([]string, error)
	// FinishTokens returns, per position, the extra tokens emitted once all children of parent are known.
	FinishTokens(ctx *Context, parent tree.NodeID) ([][]string, error)
}

// tokenizer is a signature producing a single token per node.
type tokenizer interface {
	String() string
	token(ctx *Context, id tree.NodeID) (string, error)
}

// finisher is implemented by tokenizers emitting tokens for the right end of sibling lists.
type finisher interface {
	finish(ctx *Context, parent tree.NodeID) ([]string, error)
}

type single struct {
	tokenizer
}

func (s single) Len() int {
	return 1
}

func (s single) Tokens(ctx *Context, id tree.NodeID) ([]string, error) {
	t, err := ctx.token(s.tokenizer, id)
	if err != nil {
		return nil, err
	}
	return []string{t}, nil
}

func (s single) FinishTokens(ctx *Context, parent tree.NodeID) ([][]string, error) {
	f, ok := s.tokenizer.(finisher)
	if !ok {
		return [][]string{nil}, nil
	}
	tokens, err := f.finish(ctx, parent)
	if err != nil {
		return nil, err
	}
	return [][]string{tokens}, nil
}

type memoKey struct {
	signature string
	id        tree.NodeID
}

// Context binds signatures to the tree of one stream and remembers the tokens computed for its nodes.
type Context struct {
	tree   *tree.Tree
	memo   map[memoKey]string
	hasher hash.Hash64
}

func NewContext(t *tree.Tree) *Context {
	return &Context{tree: t, memo: map[memoKey]string{}, hasher: fnv.New64a()}
}

func (c *Context) Tree() *tree.Tree {
	return c.tree
}

func (c *Context) token(s tokenizer, id tree.NodeID) (string, error) {
	key := memoKey{signature: s.String(), id: id}
	if t, ok := c.memo[key]; ok {
		return t, nil
	}
	if c.tree.Node(id) == nil {
		return "", fmt.Errorf("node %d: %w", id, tree.ErrNodeNotFound)
	}
	t, err := s.token(c, id)
	if err != nil {
		return "", err
	}
	c.memo[key] = t
	return t, nil
}

// hash renders the FNV-1a digest of the parts, separated by "_", in hex.
func (c *Context) hash(parts ...string) string {
	c.hasher.Reset()
	for i, p := range parts {
		if i > 0 {
			_, _ = c.hasher.Write([]byte{'_'})
		}
		_, _ = c.hasher.Write([]byte(p))
	}
	return hex.EncodeToString(c.hasher.Sum(nil))
}

// leftSiblings returns the names of the width siblings preceding id, nearest last, padded on the left with "".
func (c *Context) leftSiblings(id tree.NodeID, width int) ([]string, error) {
	pos, err := c.tree.Position(id)
	if err != nil {
		return nil, err
	}
	names := make([]string, width)
	siblings := c.tree.Children(c.tree.Parent(id))
	for i := 0; i < width; i++ {
		idx := pos - width + i
		if idx >= 0 && idx < len(siblings) {
			names[i] = c.tree.Node(siblings[idx]).Name
		}
	}
	return names, nil
}

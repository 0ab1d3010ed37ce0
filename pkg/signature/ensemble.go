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
	"strings"

	"github.com/netobserv/treedistance/pkg/tree"
)

// Ensemble applies an ordered list of signatures; each token position is an independent identity class.
type Ensemble struct {
	members []Signature
	length  int
}

func NewEnsemble(members ...Signature) *Ensemble {
	e := &Ensemble{members: members}
	for _, m := range members {
		e.length += m.Len()
	}
	return e
}

func (e *Ensemble) String() string {
	names := make([]string, 0, len(e.members))
	for _, m := range e.members {
		names = append(names, m.String())
	}
	return "EnsembleSignature(" + strings.Join(names, ", ") + ")"
}

func (e *Ensemble) Len() int {
	return e.length
}

func (e *Ensemble) Tokens(ctx *Context, id tree.NodeID) ([]string, error) {
	tokens := make([]string, 0, e.length)
	for _, m := range e.members {
		t, err := m.Tokens(ctx, id)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t...)
	}
	return tokens, nil
}

func (e *Ensemble) FinishTokens(ctx *Context, parent tree.NodeID) ([][]string, error) {
	tokens := make([][]string, 0, e.length)
	for _, m := range e.members {
		t, err := m.FinishTokens(ctx, parent)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t...)
	}
	return tokens, nil
}

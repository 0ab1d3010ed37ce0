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

package algorithm

import (
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/signature"
	"github.com/netobserv/treedistance/pkg/tree"
)

// sink receives every token a stream emits, per signature position. Closing tokens are
// fed to the kernels as starts but are not counted as processes.
type sink func(pos int, token string, t event.Type, value float64, closing bool) error

// stream grows the tree of one event stream and turns its events into tokens.
// Prototypes and monitored trees share it so that both are tokenized the same way.
type stream struct {
	signature signature.Signature
	builder   *event.Builder
	ctx       *signature.Context
	finished  map[tree.NodeID]struct{}
	emit      sink
}

func newStream(sig signature.Signature, emit sink) *stream {
	b := event.NewBuilder()
	return &stream{
		signature: sig,
		builder:   b,
		ctx:       signature.NewContext(b.Tree()),
		finished:  map[tree.NodeID]struct{}{},
		emit:      emit,
	}
}

// apply updates the tree with e and emits its tokens, which are returned.
func (s *stream) apply(e event.Event) ([]string, error) {
	var (
		id  tree.NodeID
		err error
	)
	switch e.Type {
	case event.Start:
		id, err = s.builder.Start(e)
	case event.Exit:
		if id, err = s.builder.Exit(e); err == nil {
			// all children of an exiting process are known
			err = s.finishNode(id)
		}
	case event.Traffic:
		id, err = s.builder.Traffic(e)
	case event.Parameter:
		id, err = s.builder.Parameter(e)
	}
	if err != nil {
		return nil, err
	}
	tokens, err := s.signature.Tokens(s.ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Type == event.Parameter {
		for i := range tokens {
			tokens[i] += "/" + e.Name
		}
	}
	for pos, token := range tokens {
		if err := s.emit(pos, token, e.Type, e.Value, false); err != nil {
			return tokens, err
		}
	}
	return tokens, nil
}

func (s *stream) finishNode(id tree.NodeID) error {
	if _, ok := s.finished[id]; ok {
		return nil
	}
	s.finished[id] = struct{}{}
	perPosition, err := s.signature.FinishTokens(s.ctx, id)
	if err != nil {
		return err
	}
	for pos, tokens := range perPosition {
		for _, token := range tokens {
			if err := s.emit(pos, token, event.Start, event.Unknown, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// finish emits the closing tokens of processes that never exited.
func (s *stream) finish() error {
	var err error
	s.builder.Tree().PreOrder(func(n *tree.Node) bool {
		err = s.finishNode(n.ID())
		return err == nil
	})
	return err
}

func (s *stream) tree() *tree.Tree {
	return s.builder.Tree()
}

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
	"errors"
	"fmt"

	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/distance"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/signature"
	"github.com/netobserv/treedistance/pkg/statistics"
	"github.com/netobserv/treedistance/pkg/tree"
	"github.com/sirupsen/logrus"
)

var alog = logrus.WithField("component", "algorithm.Incremental")

// ErrTreeNotStarted is returned for events received outside StartTree and FinishTree.
var ErrTreeNotStarted = errors.New("tree not started")

// Result holds the distances to every prototype, by signature position.
type Result struct {
	Distances  [][]float64
	Normalized [][]float64
}

// Mean averages the normalized distances over positions, per prototype.
func (r Result) Mean() []float64 {
	return distance.MeanOverPositions(r.Normalized)
}

// Algorithm computes distances between a monitored event stream and a set of prototypes.
type Algorithm interface {
	String() string
	Prototypes() []string
	StartTree() error
	AddEvent(e event.Event) (Result, error)
	FinishTree() (Result, error)
	// LastTokens are the tokens of the latest event.
	LastTokens() []string
	// Caches are the monitoring caches of the current tree, by position.
	Caches() []cache.Cache
	// Clone returns an algorithm sharing the prototypes with its own stream state.
	Clone() Algorithm
}

// Options tune the per-stream state.
type Options struct {
	// CacheSize bounds the monitoring caches, 0 for unbounded.
	CacheSize  int
	CacheRatio int
	// Strict reports events no kernel supports with distance.ErrEventNotSupported.
	Strict bool
}

// Incremental updates the distance vector on every event of the stream.
type Incremental struct {
	signature  signature.Signature
	kernel     *distance.Ensemble
	prototypes []*cache.PrototypeCache
	opts       Options

	stream     *stream
	caches     []cache.Cache
	lastTokens []string
}

func NewIncremental(sig signature.Signature, kernel distance.Kernel, prototypes []*cache.PrototypeCache, opts Options) (*Incremental, error) {
	if len(prototypes) != sig.Len() {
		return nil, fmt.Errorf("signature %s has %d positions, got %d prototype caches", sig, sig.Len(), len(prototypes))
	}
	return &Incremental{
		signature:  sig,
		kernel:     distance.NewEnsemble(kernel, sig.Len()),
		prototypes: prototypes,
		opts:       opts,
	}, nil
}

func (a *Incremental) String() string {
	return fmt.Sprintf("IncrementalDistanceAlgorithm(signature=%s, distance=%s)", a.signature, a.kernel)
}

func (a *Incremental) Prototypes() []string {
	if len(a.prototypes) == 0 {
		return nil
	}
	return a.prototypes[0].Prototypes()
}

func (a *Incremental) statisticsKind() statistics.Kind {
	if len(a.prototypes) == 0 {
		return statistics.KindMeanVariance
	}
	return a.prototypes[0].StatisticsKind()
}

func (a *Incremental) newCache() cache.Cache {
	if a.opts.CacheSize > 0 {
		return cache.NewBoundedSignatureCache(a.statisticsKind(), a.opts.CacheSize, a.opts.CacheRatio)
	}
	return cache.NewSignatureCache(a.statisticsKind())
}

func (a *Incremental) StartTree() error {
	alog.Debugf("entering StartTree")
	a.caches = make([]cache.Cache, a.signature.Len())
	for i := range a.caches {
		a.caches[i] = a.newCache()
	}
	if err := a.kernel.Init(a.prototypes); err != nil {
		return err
	}
	a.stream = newStream(a.signature, a.consume)
	a.lastTokens = nil
	return nil
}

// consume records a token in the monitoring cache and feeds the kernel of its position.
func (a *Incremental) consume(pos int, token string, t event.Type, value float64, closing bool) error {
	var err error
	if closing {
		err = a.caches[pos].AddClosing(token)
	} else {
		err = a.caches[pos].Add(token, t, value)
	}
	if err != nil {
		return err
	}
	matches, err := a.prototypes[pos].Get(token)
	if err != nil && !errors.Is(err, cache.ErrDataNotInCache) {
		return err
	}
	a.kernel.UpdatePosition(pos, token, matches, t, value)
	return nil
}

func (a *Incremental) AddEvent(e event.Event) (Result, error) {
	if a.stream == nil {
		return Result{}, ErrTreeNotStarted
	}
	if a.opts.Strict && !a.kernel.Supports(e.Type) && e.Type != event.Start {
		return a.result(), fmt.Errorf("%s by %s: %w", e.Type, a.kernel, distance.ErrEventNotSupported)
	}
	tokens, err := a.stream.apply(e)
	if err != nil {
		return a.result(), err
	}
	a.lastTokens = tokens
	return a.result(), nil
}

func (a *Incremental) FinishTree() (Result, error) {
	alog.Debugf("entering FinishTree")
	if a.stream == nil {
		return Result{}, ErrTreeNotStarted
	}
	err := a.stream.finish()
	a.kernel.Finish()
	a.stream = nil
	return a.result(), err
}

func (a *Incremental) result() Result {
	return Result{Distances: a.kernel.Vector(), Normalized: a.kernel.Normalized()}
}

func (a *Incremental) LastTokens() []string {
	return a.lastTokens
}

func (a *Incremental) Caches() []cache.Cache {
	return a.caches
}

// Tree is the monitoring tree of the current stream, nil outside StartTree and FinishTree.
func (a *Incremental) Tree() *tree.Tree {
	if a.stream == nil {
		return nil
	}
	return a.stream.tree()
}

func (a *Incremental) Clone() Algorithm {
	return &Incremental{
		signature:  a.signature,
		kernel:     a.kernel.Clone(),
		prototypes: a.prototypes,
		opts:       a.opts,
	}
}

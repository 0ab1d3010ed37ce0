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

package distance

import (
	"errors"
	"fmt"

	"github.com/netobserv/treedistance/pkg/api"
	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/sirupsen/logrus"
)

var klog = logrus.WithField("component", "distance.Kernel")

// ErrEventNotSupported is returned when no kernel accepts an event type.
var ErrEventNotSupported = errors.New("event not supported")

// Kernel accumulates, for one signature position, a distance per prototype.
// A kernel belongs to a single stream; Clone gives an uninitialized kernel with the same settings.
type Kernel interface {
	String() string
	// Init binds the prototypes and resets the accumulated distances.
	Init(prototypes *cache.PrototypeCache)
	Supports(t event.Type) bool
	// Update consumes one token and returns the delta applied to the results.
	// matches is nil when no prototype holds the token.
	Update(token string, matches cache.Matches, t event.Type, value float64) []float64
	// Finish applies the end of tree adjustments and returns the delta.
	Finish() []float64
	Results() []float64
	// Sizes are the prototype and tree sizes used to normalize the distance to prototype p.
	Sizes(p int) (prototype, tree float64)
	Clone() Kernel
}

// Normalize maps a distance to [0, 1] relative to the sizes of both trees. Non positive distances map to 0.
func Normalize(d, prototypeSize, treeSize float64) float64 {
	if d <= 0 {
		return 0
	}
	denom := prototypeSize + treeSize + d
	if denom <= 0 {
		return 0
	}
	n := 2 * d / denom
	if n > 1 {
		return 1
	}
	return n
}

// New builds the kernel described by the configuration.
func New(cfg *api.Distance) (Kernel, error) {
	klog.Debugf("building kernel %s", cfg.Kernel)
	switch cfg.Kernel {
	case api.KernelSimple, "":
		return NewSimple(), nil
	case api.KernelSimple2:
		return NewSimple2(), nil
	case api.KernelAdditionalMissing:
		return NewAdditionalMissing(cfg.GetMissingFactor()), nil
	case api.KernelStartExit:
		weights := map[event.Type]float64{}
		for name, w := range cfg.GetWeights() {
			t, err := event.ParseType(name)
			if err != nil {
				return nil, fmt.Errorf("startExit weights: %w", err)
			}
			weights[t] = w
		}
		return NewStartExit(weights, cfg.GetMatchFactor()), nil
	}
	return nil, fmt.Errorf("unknown distance kernel %q", cfg.Kernel)
}

// base holds what all kernels share: the prototypes, the results and the set of measured tokens.
type base struct {
	prototypes *cache.PrototypeCache
	results    []float64
	measured   map[string]struct{}
}

func (b *base) init(prototypes *cache.PrototypeCache) {
	b.prototypes = prototypes
	b.results = make([]float64, len(prototypes.Prototypes()))
	b.measured = map[string]struct{}{}
}

func (b *base) Results() []float64 {
	return b.results
}

// firstSighting marks a token as measured and reports whether it was new.
func (b *base) firstSighting(token string) bool {
	if _, ok := b.measured[token]; ok {
		return false
	}
	b.measured[token] = struct{}{}
	return true
}

func (b *base) apply(delta []float64) []float64 {
	for p, d := range delta {
		b.results[p] += d
	}
	return delta
}

func started(matches cache.Matches, p int) bool {
	e, ok := matches[p]
	return ok && e.Starts() > 0
}

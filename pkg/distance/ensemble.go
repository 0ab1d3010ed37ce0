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
	"fmt"

	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/event"
)

// Ensemble runs one independent kernel per signature position.
type Ensemble struct {
	kernels []Kernel
}

// NewEnsemble clones the kernel once per position.
func NewEnsemble(kernel Kernel, positions int) *Ensemble {
	e := &Ensemble{kernels: make([]Kernel, positions)}
	for i := range e.kernels {
		e.kernels[i] = kernel.Clone()
	}
	return e
}

func (e *Ensemble) String() string {
	if len(e.kernels) == 0 {
		return "Ensemble()"
	}
	return fmt.Sprintf("Ensemble(%d x %s)", len(e.kernels), e.kernels[0])
}

func (e *Ensemble) Len() int {
	return len(e.kernels)
}

func (e *Ensemble) Kernel(pos int) Kernel {
	return e.kernels[pos]
}

// Init binds one prototype cache per position.
func (e *Ensemble) Init(prototypes []*cache.PrototypeCache) error {
	if len(prototypes) != len(e.kernels) {
		return fmt.Errorf("ensemble of %d positions initialized with %d prototype caches", len(e.kernels), len(prototypes))
	}
	for i, k := range e.kernels {
		k.Init(prototypes[i])
	}
	return nil
}

func (e *Ensemble) Supports(t event.Type) bool {
	for _, k := range e.kernels {
		if k.Supports(t) {
			return true
		}
	}
	return false
}

// Update feeds the token of every position to its kernel.
func (e *Ensemble) Update(tokens []string, matches []cache.Matches, t event.Type, value float64) error {
	if len(tokens) != len(e.kernels) || len(matches) != len(e.kernels) {
		return fmt.Errorf("expected %d tokens, got %d", len(e.kernels), len(tokens))
	}
	for i, k := range e.kernels {
		k.Update(tokens[i], matches[i], t, value)
	}
	return nil
}

// UpdatePosition feeds a single position, used for tokens only some positions emit.
func (e *Ensemble) UpdatePosition(pos int, token string, matches cache.Matches, t event.Type, value float64) {
	e.kernels[pos].Update(token, matches, t, value)
}

func (e *Ensemble) Finish() {
	for _, k := range e.kernels {
		k.Finish()
	}
}

// Vector copies the raw distances, by position then prototype.
func (e *Ensemble) Vector() [][]float64 {
	out := make([][]float64, len(e.kernels))
	for i, k := range e.kernels {
		out[i] = append([]float64(nil), k.Results()...)
	}
	return out
}

// Normalized maps every distance of Vector to [0, 1].
func (e *Ensemble) Normalized() [][]float64 {
	out := e.Vector()
	for i, k := range e.kernels {
		for p, d := range out[i] {
			sp, st := k.Sizes(p)
			out[i][p] = Normalize(d, sp, st)
		}
	}
	return out
}

// Mean averages the normalized distances over positions, per prototype.
func (e *Ensemble) Mean() []float64 {
	return MeanOverPositions(e.Normalized())
}

// MeanOverPositions averages a position by prototype matrix over positions.
func MeanOverPositions(values [][]float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	mean := make([]float64, len(values[0]))
	for _, row := range values {
		for p, v := range row {
			mean[p] += v
		}
	}
	for p := range mean {
		mean[p] /= float64(len(values))
	}
	return mean
}

// Clone returns an uninitialized ensemble with the same kernels.
func (e *Ensemble) Clone() *Ensemble {
	c := &Ensemble{kernels: make([]Kernel, len(e.kernels))}
	for i, k := range e.kernels {
		c.kernels[i] = k.Clone()
	}
	return c
}

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
	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/event"
)

// Simple starts from the number of distinct prototype tokens; each new measured token
// lowers the distance by one when the prototype holds it and raises it by one otherwise.
type Simple struct {
	base
}

func NewSimple() *Simple {
	return &Simple{}
}

func (k *Simple) String() string {
	return "SimpleDistance"
}

func (k *Simple) Init(prototypes *cache.PrototypeCache) {
	k.init(prototypes)
	for p := range k.results {
		k.results[p] = float64(prototypes.DistinctTokens(p))
	}
}

func (k *Simple) Supports(t event.Type) bool {
	return t == event.Start
}

func (k *Simple) Update(token string, matches cache.Matches, t event.Type, _ float64) []float64 {
	delta := make([]float64, len(k.results))
	if t != event.Start || !k.firstSighting(token) {
		return delta
	}
	for p := range delta {
		if started(matches, p) {
			delta[p] = -1
		} else {
			delta[p] = 1
		}
	}
	return k.apply(delta)
}

func (k *Simple) Finish() []float64 {
	return make([]float64, len(k.results))
}

func (k *Simple) Sizes(p int) (float64, float64) {
	return float64(k.prototypes.DistinctTokens(p)), float64(len(k.measured))
}

func (k *Simple) Clone() Kernel {
	return NewSimple()
}

// Simple2 counts new measured tokens missing from the prototype, then adds at the end the prototype
// tokens never measured: the size of the symmetric difference of both token sets.
type Simple2 struct {
	base
	additional []int
}

func NewSimple2() *Simple2 {
	return &Simple2{}
}

func (k *Simple2) String() string {
	return "SimpleDistance2"
}

func (k *Simple2) Init(prototypes *cache.PrototypeCache) {
	k.init(prototypes)
	k.additional = make([]int, len(k.results))
}

func (k *Simple2) Supports(t event.Type) bool {
	return t == event.Start
}

func (k *Simple2) Update(token string, matches cache.Matches, t event.Type, _ float64) []float64 {
	delta := make([]float64, len(k.results))
	if t != event.Start || !k.firstSighting(token) {
		return delta
	}
	for p := range delta {
		if !started(matches, p) {
			delta[p] = 1
			k.additional[p]++
		}
	}
	return k.apply(delta)
}

func (k *Simple2) Finish() []float64 {
	delta := make([]float64, len(k.results))
	for p := range delta {
		common := len(k.measured) - k.additional[p]
		delta[p] = float64(k.prototypes.DistinctTokens(p) - common)
	}
	return k.apply(delta)
}

func (k *Simple2) Sizes(p int) (float64, float64) {
	return float64(k.prototypes.DistinctTokens(p)), float64(len(k.measured))
}

func (k *Simple2) Clone() Kernel {
	return NewSimple2()
}

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

// AdditionalMissing counts additional events (not explained by the prototype) and missing events
// (expected by the prototype but never measured). Missing events are estimated online while the
// prototype still has unexplained weight and settled when the tree finishes.
type AdditionalMissing struct {
	base
	factor     float64
	additional []int
	missing    []int
	matched    []int
	used       []map[string]int
	events     int
}

func NewAdditionalMissing(factor float64) *AdditionalMissing {
	return &AdditionalMissing{factor: factor}
}

func (k *AdditionalMissing) String() string {
	return fmt.Sprintf("AdditionalMissingDistance(factor=%v)", k.factor)
}

func (k *AdditionalMissing) Init(prototypes *cache.PrototypeCache) {
	k.init(prototypes)
	n := len(k.results)
	k.additional = make([]int, n)
	k.missing = make([]int, n)
	k.matched = make([]int, n)
	k.used = make([]map[string]int, n)
	for p := range k.used {
		k.used[p] = map[string]int{}
	}
	k.events = 0
}

func (k *AdditionalMissing) Supports(t event.Type) bool {
	return t == event.Start
}

// weight is the share of the prototype not yet accounted for by matched or missing events.
func (k *AdditionalMissing) weight(p int) float64 {
	expected := float64(k.prototypes.EventCount(p, event.Start))
	return k.factor*expected - float64(k.missing[p]) - float64(k.matched[p])
}

func (k *AdditionalMissing) Update(token string, matches cache.Matches, t event.Type, _ float64) []float64 {
	delta := make([]float64, len(k.results))
	if t != event.Start {
		return delta
	}
	k.firstSighting(token)
	k.events++
	for p := range delta {
		if e, ok := matches[p]; ok && k.used[p][token] < e.Starts() {
			k.used[p][token]++
			k.matched[p]++
			continue
		}
		k.additional[p]++
		delta[p]++
		if k.weight(p) > 0 {
			k.missing[p]++
			delta[p]++
		}
	}
	return k.apply(delta)
}

func (k *AdditionalMissing) Finish() []float64 {
	delta := make([]float64, len(k.results))
	for p := range delta {
		settled := k.prototypes.EventCount(p, event.Start) - k.matched[p]
		delta[p] = float64(settled - k.missing[p])
		k.missing[p] = settled
	}
	return k.apply(delta)
}

// Additional is the number of events of the tree the prototype p does not explain.
func (k *AdditionalMissing) Additional(p int) int {
	return k.additional[p]
}

// Missing is the current number of events of prototype p the tree is missing.
func (k *AdditionalMissing) Missing(p int) int {
	return k.missing[p]
}

func (k *AdditionalMissing) Sizes(p int) (float64, float64) {
	return float64(k.prototypes.EventCount(p, event.Start)), float64(k.events)
}

func (k *AdditionalMissing) Clone() Kernel {
	return NewAdditionalMissing(k.factor)
}

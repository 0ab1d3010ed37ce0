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
	"sort"
	"strings"

	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/event"
)

// StartExit compares every weighted event with the statistics the prototype holds for its token.
// An unexplained event adds half its weight; a matched one removes up to half its weight depending
// on how close its value is to the prototype values. The distance starts at half the weighted
// number of prototype events, so replaying a prototype against itself ends close to 0.
type StartExit struct {
	base
	weights     map[event.Type]float64
	matchFactor float64
	used        []map[usedKey]int
	treeSize    float64
}

type usedKey struct {
	token string
	t     event.Type
}

func NewStartExit(weights map[event.Type]float64, matchFactor float64) *StartExit {
	return &StartExit{weights: weights, matchFactor: matchFactor}
}

func (k *StartExit) String() string {
	parts := make([]string, 0, len(k.weights))
	for t, w := range k.weights {
		parts = append(parts, fmt.Sprintf("%s=%v", t, w))
	}
	sort.Strings(parts)
	return fmt.Sprintf("StartExitDistance(%s, matchFactor=%v)", strings.Join(parts, ", "), k.matchFactor)
}

func (k *StartExit) prototypeSize(p int) float64 {
	size := 0.0
	for t, w := range k.weights {
		size += w * 0.5 * float64(k.prototypes.EventCount(p, t))
	}
	return size
}

func (k *StartExit) Init(prototypes *cache.PrototypeCache) {
	k.init(prototypes)
	k.used = make([]map[usedKey]int, len(k.results))
	for p := range k.results {
		k.used[p] = map[usedKey]int{}
		k.results[p] = k.prototypeSize(p)
	}
	k.treeSize = 0
}

func (k *StartExit) Supports(t event.Type) bool {
	return k.weights[t] > 0
}

func (k *StartExit) Update(token string, matches cache.Matches, t event.Type, value float64) []float64 {
	delta := make([]float64, len(k.results))
	w := k.weights[t]
	if w <= 0 {
		return delta
	}
	k.firstSighting(token)
	k.treeSize += 0.5 * w
	key := usedKey{token: token, t: t}
	for p := range delta {
		delta[p] = 0.5
		e, ok := matches[p]
		if !ok {
			delta[p] *= w
			continue
		}
		stat, ok := e.Statistics[t]
		if !ok || float64(k.used[p][key]) >= k.matchFactor*float64(stat.Count()) {
			delta[p] *= w
			continue
		}
		k.used[p][key]++
		if d, known := stat.Distance(value); known {
			delta[p] = d - 0.5
		} else {
			delta[p] = -0.5
		}
		delta[p] *= w
	}
	return k.apply(delta)
}

func (k *StartExit) Finish() []float64 {
	return make([]float64, len(k.results))
}

func (k *StartExit) Sizes(p int) (float64, float64) {
	return k.prototypeSize(p), k.treeSize
}

func (k *StartExit) Clone() Kernel {
	return NewStartExit(k.weights, k.matchFactor)
}

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
	"testing"

	"github.com/netobserv/treedistance/pkg/api"
	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	token string
	t     event.Type
	value float64
}

// prototypes indexes one prototype per observation list.
func prototypes(t *testing.T, protos ...[]observation) *cache.PrototypeCache {
	pc := cache.NewPrototypeCache(statistics.KindMeanVariance)
	for _, obs := range protos {
		p := pc.AddPrototype("")
		for _, o := range obs {
			require.NoError(t, pc.Add(o.token, p, o.t, o.value))
		}
	}
	return pc
}

func starts(tokens ...string) []observation {
	out := make([]observation, 0, len(tokens))
	for _, tk := range tokens {
		out = append(out, observation{token: tk, t: event.Start, value: statistics.Unknown})
	}
	return out
}

func update(k Kernel, pc *cache.PrototypeCache, o observation) []float64 {
	matches, _ := pc.Get(o.token)
	return k.Update(o.token, matches, o.t, o.value)
}

func TestNormalize(t *testing.T) {
	for _, d := range []float64{-3, 0, 0.1, 1, 2.5, 10, 1e6} {
		for _, sp := range []float64{0, 1, 4, 100} {
			for _, st := range []float64{0, 1, 5, 100} {
				n := Normalize(d, sp, st)
				assert.GreaterOrEqual(t, n, 0.0)
				assert.LessOrEqual(t, n, 1.0)
			}
		}
	}
	assert.Equal(t, 0.0, Normalize(0, 0, 0))
	assert.Equal(t, 1.0, Normalize(3, 0, 0))
	assert.InDelta(t, 0.2, Normalize(1, 5, 4), 1e-9)
}

func TestSimple(t *testing.T) {
	pc := prototypes(t, starts("a", "b", "c"), starts("a"))
	k := NewSimple()
	k.Init(pc)
	assert.Equal(t, []float64{3, 1}, k.Results())
	assert.Equal(t, []float64{-1, -1}, update(k, pc, starts("a")[0]))
	assert.Equal(t, []float64{0, 0}, update(k, pc, starts("a")[0]))
	assert.Equal(t, []float64{1, 1}, update(k, pc, starts("x")[0]))
	assert.Equal(t, []float64{0, 0}, update(k, pc, observation{token: "b", t: event.Exit, value: 1}))
	assert.Equal(t, []float64{0, 0}, k.Finish())
	assert.Equal(t, []float64{3, 1}, k.Results())
	assert.False(t, k.Supports(event.Exit))

	sp, st := k.Sizes(0)
	assert.Equal(t, 3.0, sp)
	assert.Equal(t, 2.0, st)
}

func TestSimple2(t *testing.T) {
	pc := prototypes(t, starts("a", "b", "c"), starts("a"))
	k := NewSimple2()
	k.Init(pc)
	for _, tk := range []string{"a", "a", "x"} {
		update(k, pc, starts(tk)[0])
	}
	assert.Equal(t, []float64{1, 1}, k.Results())
	k.Finish()
	// {a, x} vs {a, b, c} and {a}
	assert.Equal(t, []float64{3, 1}, k.Results())
}

func TestAdditionalMissing(t *testing.T) {
	pc := prototypes(t, starts("a", "a", "b"))
	k := NewAdditionalMissing(0.9)
	k.Init(pc)
	for _, tk := range []string{"a", "a"} {
		assert.Equal(t, []float64{0}, update(k, pc, starts(tk)[0]))
	}
	// the third a exceeds the prototype count, the prototype still has weight 2.7 - 2
	assert.Equal(t, []float64{2}, update(k, pc, starts("a")[0]))
	assert.Equal(t, []float64{1}, update(k, pc, starts("c")[0]))
	assert.Equal(t, []float64{0}, k.Finish())
	assert.Equal(t, []float64{3}, k.Results())
	assert.Equal(t, 2, k.Additional(0))
	assert.Equal(t, 1, k.Missing(0))

	k.Init(pc)
	update(k, pc, starts("a")[0])
	assert.Equal(t, []float64{2}, k.Finish())
	assert.Equal(t, 2, k.Missing(0))
}

func TestStartExit(t *testing.T) {
	proto := append(starts("a"), observation{token: "a", t: event.Exit, value: 2})
	pc := prototypes(t, proto)
	k := NewStartExit(map[event.Type]float64{event.Start: 1, event.Exit: 1}, 2)
	k.Init(pc)
	assert.Equal(t, []float64{1}, k.Results())
	assert.True(t, k.Supports(event.Exit))
	assert.False(t, k.Supports(event.Traffic))

	assert.Equal(t, []float64{-0.5}, update(k, pc, starts("a")[0]))
	assert.Equal(t, []float64{-0.5}, update(k, pc, observation{token: "a", t: event.Exit, value: 2}))
	// a second match is allowed by the match factor
	assert.Equal(t, []float64{-0.5}, update(k, pc, observation{token: "a", t: event.Exit, value: 2}))
	assert.Equal(t, []float64{0.5}, update(k, pc, observation{token: "a", t: event.Exit, value: 2}))
	assert.Equal(t, []float64{0.5}, update(k, pc, starts("b")[0]))
	assert.Equal(t, []float64{0}, update(k, pc, observation{token: "b", t: event.Traffic, value: 10}))
	assert.InDelta(t, 0.5, k.Results()[0], 1e-9)

	sp, st := k.Sizes(0)
	assert.Equal(t, 1.0, sp)
	assert.Equal(t, 2.5, st)
}

func TestStartExit_ValueDistance(t *testing.T) {
	proto := []observation{{token: "a", t: event.Traffic, value: 10}, {token: "a", t: event.Traffic, value: 12}}
	pc := prototypes(t, proto)
	k := NewStartExit(map[event.Type]float64{event.Traffic: 2}, 2)
	k.Init(pc)
	assert.Equal(t, []float64{2}, k.Results())
	// mean 11, variance 2
	delta := update(k, pc, observation{token: "a", t: event.Traffic, value: 11})
	assert.InDelta(t, -1, delta[0], 1e-9)
	delta = update(k, pc, observation{token: "a", t: event.Traffic, value: 1000})
	assert.InDelta(t, 1, delta[0], 1e-9)
}

func TestEnsemble(t *testing.T) {
	pc0 := prototypes(t, starts("a", "b"))
	pc1 := prototypes(t, starts("x", "y", "z"))
	e := NewEnsemble(NewSimple(), 2)
	assert.Error(t, e.Init([]*cache.PrototypeCache{pc0}))
	require.NoError(t, e.Init([]*cache.PrototypeCache{pc0, pc1}))

	single0, single1 := NewSimple(), NewSimple()
	single0.Init(pc0)
	single1.Init(pc1)
	for _, tokens := range [][]string{{"a", "x"}, {"c", "y"}, {"a", "x"}} {
		m0, _ := pc0.Get(tokens[0])
		m1, _ := pc1.Get(tokens[1])
		require.NoError(t, e.Update(tokens, []cache.Matches{m0, m1}, event.Start, statistics.Unknown))
		single0.Update(tokens[0], m0, event.Start, statistics.Unknown)
		single1.Update(tokens[1], m1, event.Start, statistics.Unknown)
		assert.Equal(t, [][]float64{single0.Results(), single1.Results()}, e.Vector())
	}
	e.Finish()
	assert.Equal(t, [][]float64{{2}, {1}}, e.Vector())
	normalized := e.Normalized()
	assert.InDelta(t, 2*2/(2+2+2.0), normalized[0][0], 1e-9)
	assert.InDelta(t, 2*1/(3+2+1.0), normalized[1][0], 1e-9)
	assert.InDelta(t, (normalized[0][0]+normalized[1][0])/2, e.Mean()[0], 1e-9)

	assert.Error(t, e.Update([]string{"a"}, nil, event.Start, 0))
	assert.True(t, e.Supports(event.Start))
	assert.False(t, e.Supports(event.Exit))
}

func TestFactory(t *testing.T) {
	for _, kernel := range []api.DistanceKernel{api.KernelSimple, api.KernelSimple2, api.KernelAdditionalMissing, api.KernelStartExit} {
		k, err := New(&api.Distance{Kernel: kernel})
		require.NoError(t, err)
		assert.NotNil(t, k.Clone())
	}
	k, err := New(&api.Distance{Kernel: api.KernelStartExit, Weights: map[string]float64{"exit": 1, "traffic": 0.5}})
	require.NoError(t, err)
	assert.Equal(t, "StartExitDistance(exit=1, traffic=0.5, matchFactor=2)", k.String())
	assert.False(t, k.Supports(event.Start))

	_, err = New(&api.Distance{Kernel: api.KernelStartExit, Weights: map[string]float64{"fork": 1}})
	assert.Error(t, err)
	_, err = New(&api.Distance{Kernel: "ted"})
	assert.Error(t, err)
}

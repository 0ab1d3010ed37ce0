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

package cluster

import (
	"bytes"
	"io"
	"testing"

	"github.com/netobserv/treedistance/pkg/algorithm"
	"github.com/netobserv/treedistance/pkg/cache"
	"github.com/netobserv/treedistance/pkg/distance"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/signature"
	"github.com/netobserv/treedistance/pkg/statistics"
	"github.com/netobserv/treedistance/pkg/test"
	"github.com/netobserv/treedistance/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monitor returns the monitoring caches of a completed tree.
func monitor(t *testing.T, sig signature.Signature, tr *tree.Tree) []cache.Cache {
	caches, err := algorithm.IndexPrototypes(sig, nil, statistics.KindMeanVariance, event.DefaultOptions)
	require.NoError(t, err)
	alg, err := algorithm.NewIncremental(sig, distance.NewSimple(), caches, algorithm.Options{})
	require.NoError(t, err)
	require.NoError(t, alg.StartTree())
	it := event.NewTreeIterator(tr, event.DefaultOptions)
	for {
		e, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		_, err = alg.AddEvent(e)
		require.NoError(t, err)
	}
	_, err = alg.FinishTree()
	require.NoError(t, err)
	return alg.Caches()
}

func TestDistance_Identity(t *testing.T) {
	sig := signature.NewEnsemble(signature.NewParentChildByName(), signature.NewParentChildOrderByName())
	p := monitor(t, sig, test.PrototypeTree())
	for _, kernel := range []distance.Kernel{
		distance.NewSimple2(),
		distance.NewStartExit(map[event.Type]float64{event.Start: 1, event.Exit: 1}, 2),
	} {
		d, err := NewDistance(kernel).Distance(p, p)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-9, kernel.String())
	}
}

func TestDistance_MinimumOverRepresentatives(t *testing.T) {
	sig := signature.NewParentChildOrderByName()
	p := monitor(t, sig, test.PrototypeTree())
	m := monitor(t, sig, test.MonitoringTree())
	dist := NewDistance(distance.NewSimple2())

	d, err := dist.Distance(m, p)
	require.NoError(t, err)
	// one muh missing out of 5 + 4 tokens
	assert.InDelta(t, 0.2, d, 1e-9)

	d, err = dist.Distance(m, p, m)
	require.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-9)

	_, err = dist.Distance(m)
	assert.Error(t, err)
	_, err = dist.Distance(m, monitor(t, signature.NewEnsemble(sig, sig), test.PrototypeTree()))
	assert.Error(t, err)
}

func TestMean(t *testing.T) {
	sig := signature.NewName()
	p := monitor(t, sig, test.PrototypeTree())
	m := monitor(t, sig, test.MonitoringTree())
	mean, err := Mean(p, m)
	require.NoError(t, err)
	require.Len(t, mean, 1)
	assert.Equal(t, 9, mean[0].TotalFrequency())
	assert.Equal(t, 4, mean[0].Frequency("test"))
	e, err := mean[0].Get("r")
	require.NoError(t, err)
	assert.Equal(t, 2, e.Statistics[event.Exit].Count())
	assert.InDelta(t, 3, e.Statistics[event.Exit].Mean(), 1e-9)

	// inputs are left untouched
	assert.Equal(t, 5, p[0].TotalFrequency())

	_, err = Mean()
	assert.Error(t, err)
}

func TestRepresentatives(t *testing.T) {
	sig := signature.NewEnsemble(signature.NewName(), signature.NewParentChildByName())
	p := monitor(t, sig, test.PrototypeTree())
	m := monitor(t, sig, test.MonitoringTree())
	reps, err := Representatives(map[string][][]cache.Cache{"b": {m}, "a": {p, m}})
	require.NoError(t, err)
	require.Len(t, reps, 2)
	require.Len(t, reps[0], 2)
	assert.Equal(t, "a", reps[0][0].ID)
	assert.Equal(t, 9, reps[0][0].Cache.TotalFrequency())

	var buf bytes.Buffer
	require.NoError(t, cache.WriteRepresentatives(&buf, reps[1]))
	loaded, err := cache.ReadRepresentatives(&buf)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// a loaded representative compares like the in-memory one
	dist := NewDistance(distance.NewSimple2())
	inMemory, err := dist.Distance(m[1:], []cache.Cache{reps[1][0].Cache})
	require.NoError(t, err)
	fromFile, err := dist.Distance(m[1:], []cache.Cache{loaded[0].Cache})
	require.NoError(t, err)
	assert.InDelta(t, inMemory, fromFile, 1e-9)
}

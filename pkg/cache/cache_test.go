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

package cache

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillCache(t *testing.T, c Cache) {
	require.NoError(t, c.Add("r", event.Start, statistics.Unknown))
	require.NoError(t, c.Add("test", event.Start, statistics.Unknown))
	require.NoError(t, c.Add("muh", event.Start, statistics.Unknown))
	require.NoError(t, c.Add("test", event.Start, statistics.Unknown))
	require.NoError(t, c.Add("test", event.Exit, 1))
	require.NoError(t, c.Add("test", event.Exit, 2))
	require.NoError(t, c.Add("r", event.Exit, 3))
}

func TestSignatureCache(t *testing.T) {
	c := NewSignatureCache(statistics.KindMeanVariance)
	fillCache(t, c)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 4, c.TotalFrequency())
	assert.Equal(t, 2, c.Frequency("test"))
	assert.Equal(t, 0, c.Frequency("nope"))
	assert.Equal(t, []string{"r", "test", "muh"}, c.Tokens())

	e, err := c.Get("test")
	require.NoError(t, err)
	assert.Equal(t, 2, e.Statistics[event.Exit].Count())
	assert.InDelta(t, 1.5, e.Statistics[event.Exit].Mean(), 1e-9)

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, ErrDataNotInCache)
}

func TestSignatureCache_MergeAndClone(t *testing.T) {
	a := NewSignatureCache(statistics.KindMeanVariance)
	fillCache(t, a)
	clone := a.Clone()

	b := NewSignatureCache(statistics.KindMeanVariance)
	require.NoError(t, b.Add("test", event.Start, statistics.Unknown))
	require.NoError(t, b.Add("test", event.Exit, 3))
	require.NoError(t, b.Add("new", event.Start, statistics.Unknown))
	require.NoError(t, a.Merge(b))

	assert.Equal(t, 6, a.TotalFrequency())
	assert.Equal(t, 3, a.Frequency("test"))
	assert.Equal(t, []string{"r", "test", "muh", "new"}, a.Tokens())
	e, err := a.Get("test")
	require.NoError(t, err)
	assert.Equal(t, 3, e.Statistics[event.Exit].Count())
	assert.InDelta(t, 2, e.Statistics[event.Exit].Mean(), 1e-9)

	// the clone is untouched
	assert.Equal(t, 4, clone.TotalFrequency())
	e, err = clone.Get("test")
	require.NoError(t, err)
	assert.Equal(t, 2, e.Statistics[event.Exit].Count())
}

func TestBounded_EvictsLowestScore(t *testing.T) {
	c := NewBoundedSignatureCache(statistics.KindMeanVariance, 2, 1)
	require.NoError(t, c.Add("a", event.Start, 0))
	require.NoError(t, c.Add("a", event.Start, 0))
	require.NoError(t, c.Add("b", event.Start, 0))
	require.NoError(t, c.Add("c", event.Start, 0))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 0, c.Frequency("b"))
	assert.Equal(t, 2, c.Score("a"))
	assert.Equal(t, 1, c.Score("c"))
	assert.Equal(t, []string{"a", "c"}, c.Tokens())

	// b comes back with its remembered score
	require.NoError(t, c.Add("b", event.Start, 0))
	assert.Equal(t, 2, c.Score("b"))
	assert.Equal(t, 0, c.Score("c"))
	assert.Equal(t, 1, c.Frequency("b"))
}

func TestBounded_LRUAmongTies(t *testing.T) {
	c := NewBoundedSignatureCache(statistics.KindMeanVariance, 2, 1)
	require.NoError(t, c.Add("a", event.Start, 0))
	require.NoError(t, c.Add("b", event.Start, 0))
	require.NoError(t, c.Add("c", event.Start, 0))
	assert.Equal(t, []string{"b", "c"}, c.Tokens())
}

func TestBounded_Decay(t *testing.T) {
	c := NewBoundedSignatureCache(statistics.KindMeanVariance, 2, 1)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Add("a", event.Start, 0))
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, c.Add("b", event.Start, 0))
	}
	require.NoError(t, c.Add("c", event.Start, 0))
	assert.Equal(t, 0, c.Score("b"))
	assert.Equal(t, 2, c.Score("a"), "decayed by evicted score minus one")
	assert.Equal(t, 1, c.Score("c"))
	assert.Equal(t, 4, c.TotalFrequency())
}

func TestBounded_RingForgetsOldest(t *testing.T) {
	c := NewBoundedSignatureCache(statistics.KindMeanVariance, 1, 1)
	require.NoError(t, c.Add("a", event.Start, 0))
	require.NoError(t, c.Add("a", event.Start, 0))
	require.NoError(t, c.Add("b", event.Start, 0)) // evicts a(2)
	require.NoError(t, c.Add("c", event.Start, 0)) // evicts b(1), ring only keeps b
	require.NoError(t, c.Add("a", event.Start, 0)) // evicts c(1), ring only keeps c
	assert.Equal(t, 1, c.Score("a"))
	require.NoError(t, c.Add("c", event.Start, 0))
	assert.Equal(t, 2, c.Score("c"))
}

func TestPrototypeCache(t *testing.T) {
	pc := NewPrototypeCache(statistics.KindMeanVariance)
	p0 := pc.AddPrototype("p0")
	p1 := pc.AddPrototype("p1")
	require.NoError(t, pc.Add("r", p0, event.Start, statistics.Unknown))
	require.NoError(t, pc.Add("test", p0, event.Start, statistics.Unknown))
	require.NoError(t, pc.Add("test", p0, event.Start, statistics.Unknown))
	require.NoError(t, pc.Add("test", p0, event.Exit, 1))
	require.NoError(t, pc.Add("r", p1, event.Start, statistics.Unknown))
	assert.Error(t, pc.Add("r", 5, event.Start, 0))

	assert.Equal(t, 2, pc.DistinctTokens(p0))
	assert.Equal(t, 1, pc.DistinctTokens(p1))
	assert.Equal(t, 3, pc.EventCount(p0, event.Start))
	assert.Equal(t, 1, pc.EventCount(p0, event.Exit))
	assert.Equal(t, []string{"p0", "p1"}, pc.Prototypes())

	matches, err := pc.Get("r")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	matches, err = pc.Get("test")
	require.NoError(t, err)
	assert.Equal(t, 2, matches[p0].Count)
	_, err = pc.Get("muh")
	assert.ErrorIs(t, err, ErrDataNotInCache)

	c, err := pc.Cache(p0)
	require.NoError(t, err)
	assert.Equal(t, 3, c.TotalFrequency())

	p2 := pc.AddPrototype("p2")
	require.NoError(t, pc.AddCache(p2, c))
	assert.Equal(t, 2, pc.DistinctTokens(p2))
	assert.Equal(t, 1, pc.EventCount(p2, event.Exit))
}

func TestAddClosing(t *testing.T) {
	for _, c := range []Cache{NewSignatureCache(statistics.KindMeanVariance), NewBoundedSignatureCache(statistics.KindMeanVariance, 4, 2)} {
		require.NoError(t, c.Add("a", event.Start, statistics.Unknown))
		require.NoError(t, c.AddClosing("a"))
		require.NoError(t, c.AddClosing("z"))
		assert.Equal(t, 1, c.TotalFrequency())
		assert.Equal(t, 0, c.Frequency("z"))
		assert.Equal(t, []string{"a", "z"}, c.Tokens())
		e, err := c.Get("a")
		require.NoError(t, err)
		assert.Equal(t, 1, e.Count)
		assert.Equal(t, 2, e.Starts())
	}

	pc := NewPrototypeCache(statistics.KindMeanVariance)
	p := pc.AddPrototype("p")
	require.NoError(t, pc.Add("a", p, event.Start, statistics.Unknown))
	require.NoError(t, pc.AddClosing("z", p))
	assert.Error(t, pc.AddClosing("z", 3))
	assert.Equal(t, 2, pc.DistinctTokens(p))
	assert.Equal(t, 2, pc.EventCount(p, event.Start))
	matches, err := pc.Get("z")
	require.NoError(t, err)
	assert.Equal(t, 0, matches[p].Count)
	assert.Equal(t, 1, matches[p].Starts())
}

func TestRepresentativesRoundTrip(t *testing.T) {
	for _, kind := range []statistics.Kind{statistics.KindMeanVariance, statistics.KindSplitted} {
		t.Run(string(kind), func(t *testing.T) {
			c := NewSignatureCache(kind)
			fillCache(t, c)
			var buf bytes.Buffer
			require.NoError(t, WriteRepresentatives(&buf, []Representative{{ID: "1", Cache: c}, {ID: "0", Cache: c}}))

			reps, err := ReadRepresentatives(&buf)
			require.NoError(t, err)
			require.Len(t, reps, 2)
			assert.Equal(t, "0", reps[0].ID)
			loaded := reps[1].Cache
			assert.Equal(t, kind, loaded.StatisticsKind())
			assert.Equal(t, c.TotalFrequency(), loaded.TotalFrequency())
			assert.ElementsMatch(t, c.Tokens(), loaded.Tokens())
			for _, token := range c.Tokens() {
				want, err := c.Get(token)
				require.NoError(t, err)
				got, err := loaded.Get(token)
				require.NoError(t, err)
				assert.Equal(t, want.Count, got.Count)
				for ty, s := range want.Statistics {
					assert.Equal(t, s.Components(), got.Statistics[ty].Components())
				}
			}

			pc, err := NewPrototypeCacheFromRepresentatives(reps)
			require.NoError(t, err)
			assert.Equal(t, []string{"0", "1"}, pc.Prototypes())
			assert.Equal(t, 3, pc.DistinctTokens(1))
		})
	}
}

func TestReadRepresentatives_Invalid(t *testing.T) {
	_, err := ReadRepresentatives(bytes.NewBufferString(`{"data": {"0": {"r": {"fork": [1, 0, 0]}}}}`))
	assert.Error(t, err)
	_, err = ReadRepresentatives(bytes.NewBufferString(`not json`))
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prototypes.idx")
	store := NewStore(path, false)

	_, ok, err := store.Load("key", statistics.KindMeanVariance)
	require.NoError(t, err)
	assert.False(t, ok)

	pc := NewPrototypeCache(statistics.KindMeanVariance)
	p := pc.AddPrototype("proto")
	require.NoError(t, pc.Add("r", p, event.Start, statistics.Unknown))
	require.NoError(t, pc.Add("r", p, event.Exit, 3))
	require.NoError(t, store.Save("key", []*PrototypeCache{pc, pc}))

	loaded, ok, err := store.Load("key", statistics.KindMeanVariance)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, loaded, 2)
	assert.Equal(t, []string{"proto"}, loaded[1].Prototypes())
	assert.Equal(t, 1, loaded[1].DistinctTokens(0))
	assert.Equal(t, 1, loaded[1].EventCount(0, event.Exit))
	matches, err := loaded[0].Get("r")
	require.NoError(t, err)
	assert.InDelta(t, 3, matches[0].Statistics[event.Exit].Mean(), 1e-9)

	_, ok, err = store.Load("other", statistics.KindMeanVariance)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = NewStore(path, true).Load("key", statistics.KindMeanVariance)
	require.NoError(t, err)
	assert.False(t, ok)
}

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

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenericMap_Copy(t *testing.T) {
	m := GenericMap{"stream": "a", "distance": 0.5}
	c := m.Copy()
	c["stream"] = "b"
	require.Equal(t, "a", m["stream"])
	require.Equal(t, 0.5, c["distance"])
}

func TestGenericMap_Lookup(t *testing.T) {
	m := GenericMap{"f": 1.5, "i": 2, "s": "3.5", "bad": "x", "n": 7}
	for key, expected := range map[string]float64{"f": 1.5, "i": 2, "s": 3.5, "n": 7} {
		v, ok := m.LookupFloat64(key)
		require.True(t, ok, key)
		require.Equal(t, expected, v, key)
	}
	_, ok := m.LookupFloat64("bad")
	require.False(t, ok)
	_, ok = m.LookupFloat64("missing")
	require.False(t, ok)

	s, ok := m.LookupString("i")
	require.True(t, ok)
	require.Equal(t, "2", s)
}

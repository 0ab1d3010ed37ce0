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

package test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventually_Success(t *testing.T) {
	num := 3
	Eventually(t, 5*time.Second, func(t require.TestingT) {
		num--
		require.Equal(t, 0, num)
	})
	assert.Equal(t, 0, num)
}

func TestEventually_RetriesAfterFailNow(t *testing.T) {
	attempts := 0
	Eventually(t, 5*time.Second, func(t require.TestingT) {
		attempts++
		if attempts < 2 {
			t.FailNow()
		}
	})
	assert.Equal(t, 2, attempts)
}

func TestAttempt(t *testing.T) {
	a := &attempt{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		require.Equal(a, 1, 2)
		a.errors = append(a.errors, "unreachable")
	}()
	<-done
	assert.True(t, a.failed)
	require.Len(t, a.errors, 1)
	assert.Contains(t, a.errors[0], "Not equal")
}

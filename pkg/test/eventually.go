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
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const retryInterval = 50 * time.Millisecond

// Eventually retries the assertions of f until they all pass, or fails the test once timeout expires.
func Eventually(t *testing.T, timeout time.Duration, f func(t require.TestingT)) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		r := &attempt{}
		done := make(chan struct{})
		go func() {
			defer close(done)
			f(r)
		}()
		select {
		case <-done:
		case <-deadline:
			t.Fatalf("timeout after %s while running assertions", timeout)
			return
		}
		if !r.failed {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout after %s: %s", timeout, strings.Join(r.errors, "; "))
			return
		case <-time.After(retryInterval):
		}
	}
}

// attempt collects the failures of a single run of the assertions.
type attempt struct {
	failed bool
	errors []string
}

func (a *attempt) Errorf(format string, args ...interface{}) {
	a.failed = true
	a.errors = append(a.errors, fmt.Sprintf(format, args...))
}

func (a *attempt) FailNow() {
	a.failed = true
	runtime.Goexit()
}

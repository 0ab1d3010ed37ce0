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

package write

import (
	"sync"

	"github.com/netobserv/treedistance/pkg/config"
	log "github.com/sirupsen/logrus"
)

type Fake struct {
	AllRecords []config.GenericMap
	mutex      sync.Mutex
	wait       chan struct{}
	expected   int
}

// Write stores in memory all records.
func (w *Fake) Write(in config.GenericMap) {
	log.Debugf("entering writeFake Write")
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.AllRecords = append(w.AllRecords, in.Copy())
	if len(w.AllRecords) == w.expected {
		close(w.wait)
	}
}

// Wait waits until the expected number of records has been written.
func (w *Fake) Wait() {
	<-w.wait
}

// Records returns a copy of the records written so far.
func (w *Fake) Records() []config.GenericMap {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return append([]config.GenericMap(nil), w.AllRecords...)
}

// NewWriteFake creates a writer keeping its records in memory; Wait returns once expected records are written.
func NewWriteFake(expected int) *Fake {
	log.Debugf("entering NewWriteFake")
	return &Fake{wait: make(chan struct{}), expected: expected}
}

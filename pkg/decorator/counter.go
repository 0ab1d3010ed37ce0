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

package decorator

import (
	"github.com/netobserv/treedistance/pkg/algorithm"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/operational/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

var eventsCounter = metrics.NewCounterVec(prometheus.CounterOpts{
	Name: "treedistance_events_total",
	Help: "Number of events given to the distance algorithm",
}, []string{"type"})

// Counter counts the events per type.
type Counter struct {
	*chain
	NoHooks
	counts map[event.Type]int
}

func NewCounter(inner algorithm.Algorithm) *Counter {
	d := &Counter{counts: map[event.Type]int{}}
	d.chain = newChain(inner, d)
	return d
}

func (d *Counter) Name() string {
	return string(counterName)
}

func (d *Counter) BeforeEvent(e event.Event) {
	d.counts[e.Type]++
	eventsCounter.WithLabelValues(e.Type.String()).Inc()
}

// Count returns the number of events of a type seen so far.
func (d *Counter) Count(t event.Type) int {
	return d.counts[t]
}

func (d *Counter) merge(other Decorator) error {
	for t, n := range other.(*Counter).counts {
		d.counts[t] += n
	}
	return nil
}

func (d *Counter) collected() interface{} {
	out := make(map[string]int, len(d.counts))
	for t, n := range d.counts {
		out[t.String()] = n
	}
	return out
}

func (d *Counter) wrap(inner algorithm.Algorithm) Decorator {
	return NewCounter(inner)
}

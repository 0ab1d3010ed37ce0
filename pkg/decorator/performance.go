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
	"time"

	"github.com/benbjohnson/clock"
	"github.com/netobserv/treedistance/pkg/algorithm"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/operational/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	eventDuration = metrics.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "treedistance_event_duration_seconds",
		Help:    "Time spent by the distance algorithm on a single event",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	}, []string{"type"})
	treeDuration = metrics.NewHistogram(prometheus.HistogramOpts{
		Name:    "treedistance_tree_duration_seconds",
		Help:    "Time spent between the start and the end of a monitored tree",
		Buckets: prometheus.ExponentialBuckets(1e-3, 4, 10),
	})
)

// Performance measures the time spent in the wrapped algorithm.
type Performance struct {
	*chain
	NoHooks
	clock clock.Clock

	eventStart time.Time
	treeStart  time.Time
	events     int
	eventTime  time.Duration
	trees      map[string]float64
}

func NewPerformance(inner algorithm.Algorithm, clk clock.Clock) *Performance {
	d := &Performance{clock: clk, trees: map[string]float64{}}
	d.chain = newChain(inner, d)
	return d
}

func (d *Performance) Name() string {
	return string(performanceName)
}

func (d *Performance) BeforeStartTree() {
	d.treeStart = d.clock.Now()
}

func (d *Performance) BeforeEvent(event.Event) {
	d.eventStart = d.clock.Now()
}

func (d *Performance) AfterEvent(e event.Event, _ algorithm.Result, err error) error {
	elapsed := d.clock.Since(d.eventStart)
	d.events++
	d.eventTime += elapsed
	eventDuration.WithLabelValues(e.Type.String()).Observe(elapsed.Seconds())
	return err
}

func (d *Performance) AfterFinishTree(_ algorithm.Result, err error) error {
	elapsed := d.clock.Since(d.treeStart)
	d.trees[d.stream] += elapsed.Seconds()
	treeDuration.Observe(elapsed.Seconds())
	return err
}

func (d *Performance) merge(other Decorator) error {
	o := other.(*Performance)
	d.events += o.events
	d.eventTime += o.eventTime
	for stream, seconds := range o.trees {
		d.trees[stream] += seconds
	}
	return nil
}

func (d *Performance) collected() interface{} {
	trees := make(map[string]float64, len(d.trees))
	for k, v := range d.trees {
		trees[k] = v
	}
	return config.GenericMap{
		"events":       d.events,
		"eventSeconds": d.eventTime.Seconds(),
		"trees":        trees,
	}
}

func (d *Performance) wrap(inner algorithm.Algorithm) Decorator {
	return NewPerformance(inner, d.clock)
}

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

package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricType string

const (
	TypeCounter   MetricType = "counter"
	TypeGauge     MetricType = "gauge"
	TypeHistogram MetricType = "histogram"
)

type metricDefinition struct {
	Name   string
	Help   string
	Type   MetricType
	Labels []string
}

var (
	metricsOpts []metricDefinition
	metricsMu   sync.Mutex
)

func define(name, help string, t MetricType, labels []string) {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	metricsOpts = append(metricsOpts, metricDefinition{Name: name, Help: help, Type: t, Labels: labels})
}

func NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	define(opts.Name, opts.Help, TypeCounter, nil)
	return promauto.NewCounter(opts)
}

func NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	define(opts.Name, opts.Help, TypeCounter, labelNames)
	return promauto.NewCounterVec(opts, labelNames)
}

func NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	define(opts.Name, opts.Help, TypeGauge, nil)
	return promauto.NewGauge(opts)
}

func NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	define(opts.Name, opts.Help, TypeHistogram, nil)
	return promauto.NewHistogram(opts)
}

func NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	define(opts.Name, opts.Help, TypeHistogram, labelNames)
	return promauto.NewHistogramVec(opts, labelNames)
}

// GetDocumentation renders every defined metric as a markdown table, sorted by name.
func GetDocumentation() string {
	metricsMu.Lock()
	defs := append([]metricDefinition(nil), metricsOpts...)
	metricsMu.Unlock()
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	doc := ""
	for _, opts := range defs {
		doc += fmt.Sprintf(
			`
### %s
| **Name** | %s | 
|:---|:---|
| **Description** | %s | 
| **Type** | %s | 
| **Labels** | %s | 

`,
			opts.Name,
			opts.Name,
			opts.Help,
			opts.Type,
			strings.Join(opts.Labels, ", "),
		)
	}
	return doc
}

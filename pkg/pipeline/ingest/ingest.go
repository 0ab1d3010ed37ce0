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

package ingest

import (
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/operational/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Ingester sends process streams down the pipeline, one per monitored tree.
type Ingester interface {
	Ingest(out chan<- *event.Stream)
}

var streamsIngested = metrics.NewCounterVec(prometheus.CounterOpts{
	Name: "ingest_streams_total",
	Help: "Number of process streams sent down the pipeline",
}, []string{"type"})

var recordsProcessed = metrics.NewCounterVec(prometheus.CounterOpts{
	Name: "ingest_records_processed",
	Help: "Number of process records read",
}, []string{"type"})

var recordErrors = metrics.NewCounterVec(prometheus.CounterOpts{
	Name: "ingest_errors",
	Help: "Counter of errors during ingestion",
}, []string{"type", "code"})

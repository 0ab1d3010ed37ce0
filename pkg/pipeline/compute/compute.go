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

package compute

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/netobserv/treedistance/pkg/algorithm"
	"github.com/netobserv/treedistance/pkg/api"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/decorator"
	"github.com/netobserv/treedistance/pkg/distance"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/operational/metrics"
	"github.com/netobserv/treedistance/pkg/signature"
	"github.com/netobserv/treedistance/pkg/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var clog = logrus.WithField("component", "compute.Distance")

var (
	streamsComputed = metrics.NewCounterVec(prometheus.CounterOpts{
		Name: "compute_streams_total",
		Help: "Number of process streams compared with the prototypes",
	}, []string{"status"})
	eventErrors = metrics.NewCounterVec(prometheus.CounterOpts{
		Name: "compute_event_errors",
		Help: "Counter of events that could not be applied to the monitored tree",
	}, []string{"code"})
	streamsInProgress = metrics.NewGauge(prometheus.GaugeOpts{
		Name: "compute_streams_in_progress",
		Help: "Number of process streams being compared",
	})
)

const (
	statusComplete = "complete"
	statusAborted  = "aborted"
	statusFailed   = "failed"
)

// Computer turns every incoming process stream into a result record.
type Computer interface {
	Compute(in <-chan *event.Stream, out chan<- config.GenericMap)
}

type computeDistance struct {
	template algorithm.Algorithm
	workers  int
	// mutex guards template, which accumulates the decorator data of every stream.
	mutex sync.Mutex
}

// Compute processes the streams on up to workers goroutines.
// Once the input is closed, the merged decorator data is sent as a last record.
func (c *computeDistance) Compute(in <-chan *event.Stream, out chan<- config.GenericMap) {
	clog.Debugf("entering Compute")
	g := errgroup.Group{}
	g.SetLimit(c.workers)
	for stream := range in {
		s := stream
		c.mutex.Lock()
		alg := c.template.Clone()
		c.mutex.Unlock()
		g.Go(func() error {
			streamsInProgress.Inc()
			defer streamsInProgress.Dec()
			out <- c.process(alg, s)
			c.merge(alg)
			return nil
		})
	}
	_ = g.Wait()
	if d, ok := c.template.(decorator.Decorator); ok {
		out <- config.GenericMap{"decorators": d.Data()}
	}
}

func (c *computeDistance) merge(alg algorithm.Algorithm) {
	mine, ok := c.template.(decorator.Decorator)
	if !ok {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if err := mine.Update(alg.(decorator.Decorator)); err != nil {
		clog.Errorf("cannot merge decorator data: %v", err)
	}
}

// process runs a stream through its own algorithm instance. Faulty events are skipped,
// a second root in the monitored tree aborts the stream.
func (c *computeDistance) process(alg algorithm.Algorithm, s *event.Stream) config.GenericMap {
	log := clog.WithField("stream", s.Name)
	if d, ok := alg.(decorator.Decorator); ok {
		d.SetStream(s.Name)
	}
	record := config.GenericMap{
		"stream":     s.Name,
		"prototypes": alg.Prototypes(),
	}
	if err := alg.StartTree(); err != nil {
		log.Errorf("cannot start tree: %v", err)
		streamsComputed.WithLabelValues(statusFailed).Inc()
		record["error"] = err.Error()
		return record
	}
	status := statusComplete
	events := 0
	for {
		e, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warnf("skipping record: %v", err)
			eventErrors.WithLabelValues("record").Inc()
			continue
		}
		if _, err := alg.AddEvent(e); err != nil {
			if errors.Is(err, tree.ErrInvalidTree) {
				log.Errorf("aborting stream at %s: %v", e, err)
				eventErrors.WithLabelValues("tree").Inc()
				status = statusAborted
				break
			}
			log.Warnf("skipping event %s: %v", e, err)
			eventErrors.WithLabelValues(errorCode(err)).Inc()
			continue
		}
		events++
	}
	r, err := alg.FinishTree()
	if err != nil {
		log.Errorf("cannot finish tree: %v", err)
		record["error"] = err.Error()
		status = statusFailed
	}
	streamsComputed.WithLabelValues(status).Inc()
	record["status"] = status
	record["events"] = events
	record["distances"] = r.Distances
	record["normalized"] = r.Normalized
	record["mean"] = r.Mean()
	log.Debugf("finished with %d events, mean distances %v", events, record["mean"])
	return record
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, tree.ErrNodeNotFound):
		return "not_found"
	case errors.Is(err, distance.ErrEventNotSupported):
		return "not_supported"
	case errors.Is(err, algorithm.ErrTreeNotStarted):
		return "not_started"
	}
	return "other"
}

// NewAlgorithm builds the decorated distance algorithm described by the configuration.
func NewAlgorithm(params *api.Compute) (algorithm.Algorithm, error) {
	sig, err := signature.New(&params.Signature)
	if err != nil {
		return nil, err
	}
	kernel, err := distance.New(&params.Distance)
	if err != nil {
		return nil, err
	}
	prototypes, err := LoadPrototypes(params, sig)
	if err != nil {
		return nil, err
	}
	alg, err := algorithm.NewIncremental(sig, kernel, prototypes, algorithm.Options{
		CacheSize:  params.CacheSize,
		CacheRatio: params.GetCacheRatio(),
		Strict:     params.Strict,
	})
	if err != nil {
		return nil, err
	}
	return decorator.New(alg, params.Decorators)
}

// NewComputeDistance create a new distance stage
func NewComputeDistance(params config.StageParam) (Computer, error) {
	clog.Debugf("entering NewComputeDistance")
	if params.Compute == nil {
		return nil, fmt.Errorf("compute parameters not specified")
	}
	alg, err := NewAlgorithm(params.Compute)
	if err != nil {
		return nil, err
	}
	clog.Infof("comparing streams with %d prototypes using %s", len(alg.Prototypes()), alg)
	return &computeDistance{
		template: alg,
		workers:  params.Compute.GetWorkers(),
	}, nil
}

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

package pipeline

import (
	"errors"
	"sync/atomic"

	"github.com/netobserv/gopipes/pkg/node"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/event"
	log "github.com/sirupsen/logrus"
)

// interface definitions of pipeline components
const (
	StageIngest  = "ingest"
	StageCompute = "compute"
	StageWrite   = "write"
)

var errNotRunning = errors.New("pipeline is not running")

// Pipeline manager
type Pipeline struct {
	startNodes     []*node.Start[*event.Stream]
	terminalNodes  []*node.Terminal[config.GenericMap]
	pipelineStages []*pipelineEntry
	running        atomic.Bool
}

// NewPipeline defines the pipeline elements
func NewPipeline(cfg *config.ConfigFileStruct) (*Pipeline, error) {
	log.Debugf("entering NewPipeline")

	stages := cfg.Pipeline
	log.Debugf("stages = %v ", stages)
	configParams := cfg.Parameters
	log.Debugf("configParams = %v ", configParams)

	builder := newBuilder(configParams, stages)
	if err := builder.readStages(); err != nil {
		return nil, err
	}
	return builder.build()
}

// Run starts the ingesters and blocks until every writer has consumed its input.
func (p *Pipeline) Run() {
	// starting the graph
	for _, s := range p.startNodes {
		s.Start()
	}
	p.running.Store(true)
	// blocking the execution until the graph terminal stages end
	for _, t := range p.terminalNodes {
		<-t.Done()
	}
	p.running.Store(false)
}

// IsRunning reports whether the graph has been started and not yet drained.
func (p *Pipeline) IsRunning() bool {
	return p.running.Load()
}

func (p *Pipeline) IsReady() error {
	if !p.IsRunning() {
		return errNotRunning
	}
	return nil
}

func (p *Pipeline) IsAlive() error {
	if !p.IsRunning() {
		return errNotRunning
	}
	return nil
}

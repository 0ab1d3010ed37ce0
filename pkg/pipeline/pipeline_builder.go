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
	"fmt"

	"github.com/netobserv/gopipes/pkg/node"
	"github.com/netobserv/treedistance/pkg/api"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/pipeline/compute"
	"github.com/netobserv/treedistance/pkg/pipeline/ingest"
	"github.com/netobserv/treedistance/pkg/pipeline/write"
	log "github.com/sirupsen/logrus"
)

// Error wraps any error caused by a wrong formation of the pipeline
type Error struct {
	StageName string
	wrapped   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline stage %q: %s", e.StageName, e.wrapped.Error())
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// builder stores the information that is only required during the build of the pipeline
type builder struct {
	pipelineStages   []*pipelineEntry
	configStages     []config.Stage
	configParams     []config.StageParam
	pipelineEntryMap map[string]*pipelineEntry
	createdStages    map[string]interface{}
	startNodes       []*node.Start[*event.Stream]
	terminalNodes    []*node.Terminal[config.GenericMap]
}

type pipelineEntry struct {
	stageName string
	stageType string
	Ingester  ingest.Ingester
	Computer  compute.Computer
	Writer    write.Writer
}

func newBuilder(params []config.StageParam, stages []config.Stage) *builder {
	return &builder{
		pipelineEntryMap: map[string]*pipelineEntry{},
		createdStages:    map[string]interface{}{},
		configStages:     stages,
		configParams:     params,
	}
}

// read the configuration stages definition and instantiate the corresponding native Go objects
func (b *builder) readStages() error {
	for _, param := range b.configParams {
		log.Debugf("stage = %v", param.Name)
		pEntry := pipelineEntry{
			stageName: param.Name,
			stageType: findStageType(&param),
		}
		var err error
		switch pEntry.stageType {
		case StageIngest:
			pEntry.Ingester, err = getIngester(param)
		case StageCompute:
			pEntry.Computer, err = compute.NewComputeDistance(param)
		case StageWrite:
			pEntry.Writer, err = getWriter(param)
		default:
			err = fmt.Errorf("invalid stage type: %v", pEntry.stageType)
		}
		if err != nil {
			return &Error{StageName: param.Name, wrapped: err}
		}
		b.pipelineEntryMap[param.Name] = &pEntry
		b.pipelineStages = append(b.pipelineStages, &pEntry)
	}
	log.Debugf("pipeline = %v", b.pipelineStages)
	return nil
}

// reads the configured Go stages and connects between them
// readStages must be invoked before this
func (b *builder) build() (*Pipeline, error) {
	// accounts start and middle nodes that are connected to another node
	sendingNodes := map[string]struct{}{}
	// accounts middle or terminal nodes that receive data from another node
	receivingNodes := map[string]struct{}{}
	for _, connection := range b.configStages {
		if connection.Name == "" || connection.Follows == "" {
			// ignore entries that do not represent a connection
			continue
		}
		// instantiates (or loads from cache) the destination node of a connection
		dstEntry, ok := b.pipelineEntryMap[connection.Name]
		if !ok {
			return nil, fmt.Errorf("unknown pipeline stage: %s", connection.Name)
		}
		dstNode, err := b.getStageNode(dstEntry, connection.Name)
		if err != nil {
			return nil, err
		}
		// instantiates (or loads from cache) the source node of a connection
		srcEntry, ok := b.pipelineEntryMap[connection.Follows]
		if !ok {
			return nil, fmt.Errorf("unknown pipeline stage: %s", connection.Follows)
		}
		srcNode, err := b.getStageNode(srcEntry, connection.Follows)
		if err != nil {
			return nil, err
		}
		log.Infof("connecting stages: %s --> %s", connection.Follows, connection.Name)

		// the data type flowing through a connection is given by the source stage
		switch srcEntry.stageType {
		case StageIngest:
			err = connect[*event.Stream](srcNode, dstNode)
		case StageCompute:
			err = connect[config.GenericMap](srcNode, dstNode)
		default:
			err = fmt.Errorf("stage %q of type %q can't send data", connection.Follows, srcEntry.stageType)
		}
		if err != nil {
			return nil, &Error{StageName: connection.Name, wrapped: err}
		}
		sendingNodes[connection.Follows] = struct{}{}
		receivingNodes[connection.Name] = struct{}{}
	}

	if err := b.verifyConnections(sendingNodes, receivingNodes); err != nil {
		return nil, err
	}
	if len(b.startNodes) == 0 {
		return nil, errors.New("no ingesters have been defined")
	}
	if len(b.terminalNodes) == 0 {
		return nil, errors.New("no writers have been defined")
	}
	return &Pipeline{
		startNodes:     b.startNodes,
		terminalNodes:  b.terminalNodes,
		pipelineStages: b.pipelineStages,
	}, nil
}

// connect links two nodes exchanging values of type T, and catches any panic from the Go-Pipes library.
func connect[T any](srcNode, dstNode interface{}) (err error) {
	src, ok := srcNode.(node.Sender[T])
	if !ok {
		return fmt.Errorf("source stage can't send %T", *new(T))
	}
	dst, ok := dstNode.(node.Receiver[T])
	if !ok {
		return fmt.Errorf("destination stage can't receive %T", *new(T))
	}
	defer func() {
		if msg := recover(); msg != nil {
			err = fmt.Errorf("stages haven't compatible input/outputs: %v", msg)
		}
	}()
	src.SendsTo(dst)
	return nil
}

// verifies that all the start and middle nodes send data to another node
// verifies that all the middle and terminal nodes receive data from another node
func (b *builder) verifyConnections(sendingNodes, receivingNodes map[string]struct{}) error {
	for _, stg := range b.pipelineStages {
		if isReceptor(stg) {
			if _, ok := receivingNodes[stg.stageName]; !ok {
				return &Error{
					StageName: stg.stageName,
					wrapped: fmt.Errorf("pipeline stage from type %q"+
						" should receive data from at least another stage", stg.stageType),
				}
			}
		}
		if isSender(stg) {
			if _, ok := sendingNodes[stg.stageName]; !ok {
				return &Error{
					StageName: stg.stageName,
					wrapped: fmt.Errorf("pipeline stage from type %q"+
						" should send data to at least another stage", stg.stageType),
				}
			}
		}
	}
	return nil
}

func isReceptor(p *pipelineEntry) bool {
	return p.stageType != StageIngest
}

func isSender(p *pipelineEntry) bool {
	return p.stageType != StageWrite
}

func (b *builder) getStageNode(pe *pipelineEntry, stageID string) (interface{}, error) {
	if stg, ok := b.createdStages[stageID]; ok {
		return stg, nil
	}
	var stage interface{}
	switch pe.stageType {
	case StageIngest:
		start := node.AsStart(pe.Ingester.Ingest)
		b.startNodes = append(b.startNodes, start)
		stage = start
	case StageCompute:
		stage = node.AsMiddle(pe.Computer.Compute)
	case StageWrite:
		term := node.AsTerminal(func(in <-chan config.GenericMap) {
			for i := range in {
				pe.Writer.Write(i)
			}
		})
		b.terminalNodes = append(b.terminalNodes, term)
		stage = term
	default:
		return nil, &Error{
			StageName: stageID,
			wrapped:   fmt.Errorf("invalid stage type: %s", pe.stageType),
		}
	}
	b.createdStages[stageID] = stage
	return stage, nil
}

func getIngester(params config.StageParam) (ingest.Ingester, error) {
	switch params.Ingest.Type {
	case api.FileType:
		return ingest.NewIngestFile(params)
	case api.KafkaType:
		return ingest.NewIngestKafka(params)
	}
	return nil, fmt.Errorf("`ingest` type %s not defined", params.Ingest.Type)
}

func getWriter(params config.StageParam) (write.Writer, error) {
	switch params.Write.Type {
	case api.StdoutType:
		return write.NewWriteStdout(params)
	case api.FakeType:
		return write.NewWriteFake(0), nil
	case api.NoneType:
		return write.NewWriteNone()
	}
	return nil, fmt.Errorf("`write` type %s not defined; if no writer needed, specify `none`", params.Write.Type)
}

// findStageType identifies the stage type from the parameters that are set
func findStageType(param *config.StageParam) string {
	log.Debugf("findStageType: stage = %v", param.Name)
	if param.Ingest != nil && param.Ingest.Type != "" {
		return StageIngest
	}
	if param.Compute != nil {
		return StageCompute
	}
	if param.Write != nil && param.Write.Type != "" {
		return StageWrite
	}
	return "unknown"
}

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

package config

import (
	"fmt"

	"github.com/netobserv/treedistance/pkg/api"
)

// PipelineBuilderStage holds information about a stage in the pipeline
type PipelineBuilderStage struct {
	name      string
	lastStage string
	pipeline  *pipeline
}

type pipeline struct {
	stages []Stage
	config []StageParam
}

// NewPipeline creates a new pipeline from an existing ingest
func NewPipeline(name string, ingest *Ingest) (PipelineBuilderStage, error) {
	if ingest.File != nil {
		return NewFilePipeline(name, *ingest.File), nil
	}
	if ingest.Kafka != nil {
		return NewKafkaPipeline(name, *ingest.Kafka), nil
	}
	return PipelineBuilderStage{}, fmt.Errorf("missing ingest params")
}

// NewFilePipeline creates a new pipeline reading process records from files
func NewFilePipeline(name string, ingest api.IngestFile) PipelineBuilderStage {
	return setIngest(name, &Ingest{Type: api.FileType, File: &ingest})
}

// NewKafkaPipeline creates a new pipeline consuming process records from kafka
func NewKafkaPipeline(name string, ingest api.IngestKafka) PipelineBuilderStage {
	return setIngest(name, &Ingest{Type: api.KafkaType, Kafka: &ingest})
}

func setIngest(name string, ingest *Ingest) PipelineBuilderStage {
	p := pipeline{
		stages: []Stage{{Name: name}},
		config: []StageParam{{Name: name, Ingest: ingest}},
	}
	return PipelineBuilderStage{pipeline: &p, lastStage: name, name: name}
}

func (b *PipelineBuilderStage) next(name string, param StageParam) PipelineBuilderStage {
	b.pipeline.stages = append(b.pipeline.stages, Stage{Name: name, Follows: b.lastStage})
	b.pipeline.config = append(b.pipeline.config, param)
	return PipelineBuilderStage{pipeline: b.pipeline, lastStage: name, name: name}
}

// Compute chains the current stage with a distance computation stage and returns that new stage
func (b *PipelineBuilderStage) Compute(name string, compute api.Compute) PipelineBuilderStage {
	return b.next(name, StageParam{Name: name, Compute: &compute})
}

// WriteStdout chains the current stage with a WriteStdout stage and returns that new stage
func (b *PipelineBuilderStage) WriteStdout(name string, stdout api.WriteStdout) PipelineBuilderStage {
	return b.next(name, StageParam{Name: name, Write: &Write{Type: api.StdoutType, Stdout: &stdout}})
}

// WriteNone chains the current stage with a stage discarding its input and returns that new stage
func (b *PipelineBuilderStage) WriteNone(name string) PipelineBuilderStage {
	return b.next(name, StageParam{Name: name, Write: &Write{Type: api.NoneType}})
}

// GetStages returns the current pipeline stages. It can be called from any of the stages, they share the same pipeline reference.
func (b *PipelineBuilderStage) GetStages() []Stage {
	return b.pipeline.stages
}

// GetStageParams returns the current pipeline stage params. It can be called from any of the stages, they share the same pipeline reference.
func (b *PipelineBuilderStage) GetStageParams() []StageParam {
	return b.pipeline.config
}

// ToConfig returns the pipeline as the structure held by a configuration file.
func (b *PipelineBuilderStage) ToConfig(metrics MetricsSettings) ConfigFileStruct {
	return ConfigFileStruct{
		MetricsSettings: metrics,
		Pipeline:        b.GetStages(),
		Parameters:      b.GetStageParams(),
	}
}

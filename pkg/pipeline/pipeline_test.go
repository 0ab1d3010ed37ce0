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
	"fmt"
	"path/filepath"
	"testing"

	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/pipeline/write"
	"github.com/netobserv/treedistance/pkg/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const endToEndConfig = `log-level: debug
pipeline:
- name: ingest
- name: compute
  follows: ingest
- name: write
  follows: compute
parameters:
- name: ingest
  ingest:
    type: file
    file:
      filename: %s
- name: compute
  compute:
    signature:
      type: parentChildOrderByName
    distance:
      kernel: simple2
    prototypes:
      files: [%s]
    workers: 2
    decorators:
    - type: counter
- name: write
  write:
    type: fake
`

func TestPipeline_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	protoDir := t.TempDir()
	proto := test.WriteTreeCSV(t, protoDir, "prototype.csv", test.PrototypeSpecs)
	same := test.WriteTreeCSV(t, dir, "a.csv", test.PrototypeSpecs)
	monitored := test.WriteTreeCSV(t, dir, "b.csv", test.MonitoringSpecs)

	_, cfg := test.InitConfig(t, fmt.Sprintf(endToEndConfig, filepath.Join(dir, "*.csv"), proto))
	require.NotNil(t, cfg)
	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	require.Error(t, p.IsReady())

	p.Run()
	assert.False(t, p.IsRunning())
	require.Error(t, p.IsAlive())

	fake := p.pipelineStages[2].Writer.(*write.Fake)
	records := fake.Records()
	require.Len(t, records, 3)
	byStream := map[string]config.GenericMap{}
	for _, r := range records[:2] {
		byStream[r["stream"].(string)] = r
	}
	assert.InDelta(t, 0, byStream[same]["mean"].([]float64)[0], 1e-9)
	assert.InDelta(t, 0.2, byStream[monitored]["mean"].([]float64)[0], 1e-9)

	// merged decorator data comes last
	decorators := records[2]["decorators"].(config.GenericMap)
	assert.Equal(t, map[string]int{"start": 9, "exit": 9}, decorators["counter"])
}

func TestPipeline_Health(t *testing.T) {
	p := &Pipeline{}
	require.Error(t, p.IsAlive())
	require.Error(t, p.IsReady())
	p.running.Store(true)
	require.NoError(t, p.IsAlive())
	require.NoError(t, p.IsReady())
}

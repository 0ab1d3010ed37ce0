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
	"path/filepath"
	"testing"

	"github.com/netobserv/treedistance/pkg/api"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestFile(t *testing.T) {
	dir := t.TempDir()
	test.WriteTreeCSV(t, dir, "b.csv", test.MonitoringSpecs)
	test.WriteTreeCSV(t, dir, "a.csv", test.PrototypeSpecs)

	stage := config.NewFilePipeline("ingest", api.IngestFile{Filename: filepath.Join(dir, "*.csv")})
	ingester, err := NewIngestFile(stage.GetStageParams()[0])
	require.NoError(t, err)

	out := make(chan *event.Stream, 10)
	ingester.Ingest(out)
	close(out)

	var streams []*event.Stream
	for s := range out {
		streams = append(streams, s)
	}
	require.Len(t, streams, 2)
	assert.Equal(t, filepath.Join(dir, "a.csv"), streams[0].Name)
	assert.Equal(t, filepath.Join(dir, "b.csv"), streams[1].Name)

	events, err := event.Collect(streams[1])
	require.NoError(t, err)
	assert.Len(t, events, 8)
}

func TestIngestFile_Loop(t *testing.T) {
	dir := t.TempDir()
	test.WriteTreeCSV(t, dir, "a.csv", test.PrototypeSpecs)

	stage := config.NewFilePipeline("ingest", api.IngestFile{Filename: filepath.Join(dir, "a.csv"), Loop: true})
	ingester, err := NewIngestFile(stage.GetStageParams()[0])
	require.NoError(t, err)
	exit := make(chan struct{})
	ingester.(*ingestFile).exitChan = exit

	out := make(chan *event.Stream, 10)
	done := make(chan struct{})
	go func() {
		ingester.Ingest(out)
		close(done)
	}()
	<-out
	select {
	case <-done:
		t.Fatal("looping ingester should wait for the exit signal")
	default:
	}
	close(exit)
	<-done
}

func TestNewIngestFile_Errors(t *testing.T) {
	_, err := NewIngestFile(config.StageParam{Name: "ingest", Ingest: &config.Ingest{Type: api.FileType}})
	assert.Error(t, err)
	_, err = NewIngestFile(config.StageParam{Name: "ingest", Ingest: &config.Ingest{
		Type: api.FileType,
		File: &api.IngestFile{Filename: "a.csv", Filter: "&&"},
	}})
	assert.Error(t, err)
	_, err = OpenStream(filepath.Join(t.TempDir(), "missing.csv"), "", StreamOptions)
	assert.Error(t, err)
}
